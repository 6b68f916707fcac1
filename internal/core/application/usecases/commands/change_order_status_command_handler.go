package commands

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// ChangeOrderStatusCommandHandler applies status changes reported by vendors and couriers.
// The order row is locked for the duration of the transaction, so a change cannot
// interleave with the scheduler writing a courier on the same order.
//
// Example:
//
//	cmd, _ := NewChangeOrderStatusCommand(orderID, order.Delivered, "")
//	switch err := handler.Handle(ctx, cmd); {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // unknown order
//	case errors.Is(err, errs.ErrValueIsInvalid):
//	    // transition not allowed from the current status
//	}
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewChangeOrderStatusCommandHandler creates a handler for order status changes.
func NewChangeOrderStatusCommandHandler(uowFactory OrderUoWFactory) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle loads the order, applies the transition and persists it in one transaction.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if cmd.Target() == order.Canceled {
		err = o.Cancel(cmd.Reason())
	} else {
		err = o.Advance(cmd.Target())
	}
	if err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
