package order

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOrderIsNotAssignable is returned when a courier is assigned to an order that is
	// not Processed.
	ErrOrderIsNotAssignable = errors.New("order is not assignable")

	// ErrCourierAlreadyAssigned is returned when a courier is assigned to an order that
	// already holds one. The courier reference is set exactly once.
	ErrCourierAlreadyAssigned = errors.New("order already has a courier")
)

// Order represents a marketplace order as seen by the dispatch core. It is the aggregate
// root that owns the order lifecycle and its courier reference.
//
// Order follows these invariants:
//   - Must have a valid unique identifier
//   - Status is one of the defined statuses and only moves forward, or to Canceled
//   - courierID is non-nil only while the status is Processed, Collecting or Delivering,
//     and always non-nil in Collecting and Delivering
//   - cancellationReason is set if and only if the status is Canceled
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// courierID is the courier holding the order (nil if unassigned)
	courierID *kernel.UUID

	// status represents the current state in the order lifecycle
	status Status

	// cancellationReason explains a Canceled order
	cancellationReason string

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Idle order without a courier.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id kernel.UUID) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		status:        Idle,
		isConstructed: true,
	}, nil
}

// RestoreOrder rebuilds an order from persisted state, checking every invariant.
// Repositories use it to turn rows back into aggregates.
//
// Parameters:
//   - id: the order identifier
//   - status: the persisted status
//   - courierID: the courier holding the order, or nil
//   - cancellationReason: must be non-empty exactly when status is Canceled
func RestoreOrder(id kernel.UUID, status Status, courierID *kernel.UUID, cancellationReason string) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if courierID != nil {
		if err := courierID.Validate(); err != nil {
			return nil, err
		}
	}

	if err := status.ValidateCanHaveCourier(courierID != nil); err != nil {
		return nil, err
	}

	if status == Canceled && strings.TrimSpace(cancellationReason) == "" {
		return nil, errs.NewValueIsRequiredError("cancellation reason")
	}
	if status != Canceled && cancellationReason != "" {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"cancellation reason",
			fmt.Errorf("%s orders cannot carry a cancellation reason", status),
		)
	}

	var courier *kernel.UUID
	if courierID != nil {
		c := *courierID
		courier = &c
	}

	return &Order{
		id:                 id,
		courierID:          courier,
		status:             status,
		cancellationReason: cancellationReason,
		isConstructed:      true,
	}, nil
}

// Validate ensures the Order instance was constructed through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Courier returns the assigned courier's ID, or nil if no courier holds the order.
func (o *Order) Courier() *kernel.UUID {
	if o.courierID == nil {
		return nil
	}
	c := *o.courierID
	return &c
}

// CancellationReason returns the reason given when the order was canceled.
func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

// IsAssignable reports whether the order is Processed and waiting for a courier.
func (o *Order) IsAssignable() bool {
	return o.status == Processed && o.courierID == nil
}

// IsActive reports whether the order is held by a courier and not yet finished.
func (o *Order) IsActive() bool {
	return o.courierID != nil && o.status.IsActive()
}

// AssignCourier hands the order to a courier. The status is left unchanged.
//
// This method enforces the following business rules:
//   - The courier ID must be valid
//   - The order must not already hold a courier (set-once)
//   - The order must be Processed
//
// Returns:
//   - nil on successful assignment
//   - ErrCourierAlreadyAssigned, ErrOrderIsNotAssignable or a validation error otherwise
func (o *Order) AssignCourier(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.courierID != nil {
		return fmt.Errorf("%w: order %s is held by courier %s", ErrCourierAlreadyAssigned, o.id, o.courierID)
	}

	if o.status != Processed {
		return fmt.Errorf("%w: order %s is %s", ErrOrderIsNotAssignable, o.id, o.status)
	}

	o.courierID = &courierID
	return nil
}

// Advance moves the order to the next status of its lifecycle.
//
// This method enforces the following business rules:
//   - target must be the forward successor of the current status
//   - Collecting requires a courier to be assigned
//   - Delivered releases the courier
//
// Use Cancel to move an order to Canceled.
func (o *Order) Advance(target Status) error {
	if target == Canceled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			errors.New("use Cancel to cancel an order"),
		)
	}

	if err := o.status.ValidateTransition(target); err != nil {
		return err
	}

	if target == Delivered {
		o.courierID = nil
	}

	if err := target.ValidateCanHaveCourier(o.courierID != nil); err != nil {
		return err
	}

	o.status = target
	return nil
}

// Cancel moves a non-terminal order to Canceled, recording the reason and
// releasing its courier.
//
// Example:
//
//	if err := o.Cancel("vendor is out of stock"); err != nil {
//	    // Order was already Delivered or Canceled, or the reason is empty
//	}
func (o *Order) Cancel(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("cancellation reason")
	}

	if err := o.status.ValidateTransition(Canceled); err != nil {
		return err
	}

	o.status = Canceled
	o.courierID = nil
	o.cancellationReason = reason
	return nil
}
