package order_test

import (
	"fmt"
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	assert.Equal(t, 0, int(order.Unknown))
	assert.Equal(t, 1, int(order.Idle))
	assert.Equal(t, 2, int(order.Processing))
	assert.Equal(t, 3, int(order.Processed))
	assert.Equal(t, 4, int(order.Collecting))
	assert.Equal(t, 5, int(order.Delivering))
	assert.Equal(t, 6, int(order.Delivered))
	assert.Equal(t, 7, int(order.Canceled))
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should reject Unknown and out of range values", func(t *testing.T) {
		for _, status := range []order.Status{order.Unknown, order.Status(-1), order.Status(8)} {
			t.Run(fmt.Sprintf("value %d", int(status)), func(t *testing.T) {
				err := status.Validate()

				require.Error(t, err)
				assert.IsType(t, &errs.ValueIsInvalidError{}, err)
				assert.Contains(t, err.Error(), "is not a valid status")
			})
		}
	})

	t.Run("should accept every defined status", func(t *testing.T) {
		for s := order.Idle; s <= order.Canceled; s++ {
			require.NoError(t, s.Validate(), s.String())
		}
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Collecting", order.Collecting.String())
	assert.Equal(t, "Canceled", order.Canceled.String())
	assert.Equal(t, "Unknown", order.Status(42).String())
}

func TestParseStatus(t *testing.T) {
	status, err := order.ParseStatus("delivering")
	require.NoError(t, err)
	assert.Equal(t, order.Delivering, status)

	status, err = order.ParseStatus(" Processed ")
	require.NoError(t, err)
	assert.Equal(t, order.Processed, status)

	_, err = order.ParseStatus("Unknown")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.ParseStatus("shipped")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_ActiveAndTerminal(t *testing.T) {
	testCases := []struct {
		status   order.Status
		active   bool
		terminal bool
	}{
		{order.Idle, false, false},
		{order.Processing, false, false},
		{order.Processed, true, false},
		{order.Collecting, true, false},
		{order.Delivering, true, false},
		{order.Delivered, false, true},
		{order.Canceled, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.status.String(), func(t *testing.T) {
			assert.Equal(t, tc.active, tc.status.IsActive())
			assert.Equal(t, tc.terminal, tc.status.IsTerminal())
		})
	}

	assert.Equal(t, []order.Status{order.Processed, order.Collecting, order.Delivering}, order.ActiveStatuses())
}

func TestStatus_Next(t *testing.T) {
	t.Run("should walk the lifecycle one step at a time", func(t *testing.T) {
		expected := []order.Status{order.Processing, order.Processed, order.Collecting, order.Delivering, order.Delivered}

		current := order.Idle
		for _, want := range expected {
			next, err := current.Next()
			require.NoError(t, err)
			assert.Equal(t, want, next)
			current = next
		}
	})

	t.Run("should refuse terminal statuses", func(t *testing.T) {
		for _, status := range []order.Status{order.Delivered, order.Canceled} {
			_, err := status.Next()
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), "terminal")
		}
	})
}

func TestStatus_ValidateTransition(t *testing.T) {
	t.Run("forward successor is allowed", func(t *testing.T) {
		require.NoError(t, order.Processed.ValidateTransition(order.Collecting))
	})

	t.Run("skipping a status is refused", func(t *testing.T) {
		err := order.Idle.ValidateTransition(order.Processed)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "next status is Processing")
	})

	t.Run("moving backwards is refused", func(t *testing.T) {
		require.Error(t, order.Delivering.ValidateTransition(order.Collecting))
	})

	t.Run("cancel from any non-terminal status", func(t *testing.T) {
		for s := order.Idle; s <= order.Delivering; s++ {
			require.NoError(t, s.ValidateTransition(order.Canceled), s.String())
		}
		require.Error(t, order.Delivered.ValidateTransition(order.Canceled))
		require.Error(t, order.Canceled.ValidateTransition(order.Canceled))
	})
}

func TestStatus_ValidateCanHaveCourier(t *testing.T) {
	testCases := []struct {
		status     order.Status
		courier    bool
		shouldFail bool
	}{
		{order.Idle, false, false},
		{order.Idle, true, true},
		{order.Processing, true, true},
		{order.Processed, false, false},
		{order.Processed, true, false},
		{order.Collecting, true, false},
		{order.Collecting, false, true},
		{order.Delivering, true, false},
		{order.Delivering, false, true},
		{order.Delivered, true, true},
		{order.Delivered, false, false},
		{order.Canceled, true, true},
		{order.Canceled, false, false},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s courier=%t", tc.status, tc.courier), func(t *testing.T) {
			err := tc.status.ValidateCanHaveCourier(tc.courier)
			if tc.shouldFail {
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
		})
	}
}
