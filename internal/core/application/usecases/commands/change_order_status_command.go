package commands

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand moves an order one step forward in its lifecycle,
// or cancels it with a reason.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand(orderID, order.Collecting, "")
//	cancel, err := NewChangeOrderStatusCommand(orderID, order.Canceled, "customer unreachable")
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	reason  string

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand validates its input:
//   - orderID must be a valid id
//   - target must be a defined status
//   - reason is required for Canceled and refused otherwise
func NewChangeOrderStatusCommand(orderID kernel.UUID, target order.Status, reason string) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target, reason),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to change.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

// Reason returns the cancellation reason, empty unless Target is Canceled.
func (c ChangeOrderStatusCommand) Reason() string {
	return c.reason
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setTarget(target order.Status, reason string) error {
	if err := target.Validate(); err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if target == order.Canceled && reason == "" {
		return errs.NewValueIsRequiredError("cancellation reason")
	}
	if target != order.Canceled && reason != "" {
		return errs.NewValueIsInvalidErrorWithCause(
			"cancellation reason",
			fmt.Errorf("a reason is only accepted when canceling, not for %s", target),
		)
	}

	c.target = target
	c.reason = reason
	return nil
}
