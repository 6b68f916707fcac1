package services_test

import (
	"testing"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssignableOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.RestoreOrder(kernel.NewUUID(), order.Processed, nil, "")
	require.NoError(t, err)
	return o
}

func newActiveOrder(t *testing.T, status order.Status, courierID kernel.UUID) *order.Order {
	t.Helper()

	o, err := order.RestoreOrder(kernel.NewUUID(), status, &courierID, "")
	require.NoError(t, err)
	return o
}

func TestOrderDispatcher_Dispatch(t *testing.T) {
	dispatcher := services.NewOrderDispatcher()

	t.Run("should pair orders and couriers in fetch order", func(t *testing.T) {
		a, b := newAssignableOrder(t), newAssignableOrder(t)
		x, y := kernel.NewUUID(), kernel.NewUUID()

		result, err := dispatcher.Dispatch([]*order.Order{a, b}, []kernel.UUID{x, y}, nil)

		require.NoError(t, err)
		assert.Equal(t, []dispatch.Assignment{
			{OrderID: a.ID(), CourierID: x},
			{OrderID: b.ID(), CourierID: y},
		}, result)
	})

	t.Run("should leave extra orders unassigned", func(t *testing.T) {
		a, b := newAssignableOrder(t), newAssignableOrder(t)
		x := kernel.NewUUID()

		result, err := dispatcher.Dispatch([]*order.Order{a, b}, []kernel.UUID{x}, nil)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, dispatch.Assignment{OrderID: a.ID(), CourierID: x}, result[0])
	})

	t.Run("should skip couriers holding an active order", func(t *testing.T) {
		x := kernel.NewUUID()
		c := newActiveOrder(t, order.Collecting, x)
		a := newAssignableOrder(t)

		result, err := dispatcher.Dispatch([]*order.Order{a}, []kernel.UUID{x}, []*order.Order{c})

		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("should pick the first free courier after a busy one", func(t *testing.T) {
		x, y := kernel.NewUUID(), kernel.NewUUID()
		c := newActiveOrder(t, order.Processed, x)
		a := newAssignableOrder(t)

		result, err := dispatcher.Dispatch([]*order.Order{a}, []kernel.UUID{x, y}, []*order.Order{c})

		require.NoError(t, err)
		assert.Equal(t, []dispatch.Assignment{{OrderID: a.ID(), CourierID: y}}, result)
	})

	t.Run("should ignore finished orders when computing busy couriers", func(t *testing.T) {
		x := kernel.NewUUID()
		delivered, err := order.RestoreOrder(kernel.NewUUID(), order.Delivered, nil, "")
		require.NoError(t, err)
		a := newAssignableOrder(t)

		result, err := dispatcher.Dispatch([]*order.Order{a}, []kernel.UUID{x}, []*order.Order{delivered})

		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("should skip orders that already hold a courier", func(t *testing.T) {
		assigned := newActiveOrder(t, order.Processed, kernel.NewUUID())
		x := kernel.NewUUID()

		result, err := dispatcher.Dispatch([]*order.Order{assigned}, []kernel.UUID{x}, nil)

		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("should not assign the same order twice when listed twice", func(t *testing.T) {
		a := newAssignableOrder(t)

		result, err := dispatcher.Dispatch([]*order.Order{a, a}, []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}, nil)

		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("should not claim a courier listed twice", func(t *testing.T) {
		x := kernel.NewUUID()
		a, b := newAssignableOrder(t), newAssignableOrder(t)

		result, err := dispatcher.Dispatch([]*order.Order{a, b}, []kernel.UUID{x, x}, nil)

		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("should return nothing without live couriers", func(t *testing.T) {
		result, err := dispatcher.Dispatch([]*order.Order{newAssignableOrder(t)}, nil, nil)

		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("should reject orders that were not constructed", func(t *testing.T) {
		_, err := dispatcher.Dispatch([]*order.Order{{}}, []kernel.UUID{kernel.NewUUID()}, nil)

		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})

	t.Run("should never hand one courier two orders", func(t *testing.T) {
		orders := make([]*order.Order, 0, 20)
		for range 20 {
			orders = append(orders, newAssignableOrder(t))
		}
		live := make([]kernel.UUID, 0, 7)
		for range 7 {
			live = append(live, kernel.NewUUID())
		}
		busy := []*order.Order{newActiveOrder(t, order.Delivering, live[3])}

		result, err := dispatcher.Dispatch(orders, live, busy)

		require.NoError(t, err)
		assert.Len(t, result, 6)
		seen := make(map[kernel.UUID]bool)
		for _, a := range result {
			assert.False(t, seen[a.CourierID], "courier %s assigned twice", a.CourierID)
			assert.False(t, a.CourierID.IsEqual(live[3]))
			seen[a.CourierID] = true
		}
	})
}

func TestOrderDispatcher_FindCourier(t *testing.T) {
	dispatcher := services.NewOrderDispatcher()
	x, y := kernel.NewUUID(), kernel.NewUUID()

	id, err := dispatcher.FindCourier([]kernel.UUID{{}, x, y}, map[kernel.UUID]struct{}{x: {}})
	require.NoError(t, err)
	assert.Equal(t, y, id)

	_, err = dispatcher.FindCourier([]kernel.UUID{x}, map[kernel.UUID]struct{}{x: {}})
	require.ErrorIs(t, err, services.ErrCourierNotFound)
}
