package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// UndeliveredNotification is a NEW_ORDER message that did not reach its courier.
// Err is nil when the courier was no longer live.
type UndeliveredNotification struct {
	Assignment dispatch.Assignment
	Err        error
}

// AssignCouriersResult describes what one assignment phase did.
type AssignCouriersResult struct {
	// Assignable is the number of assignable orders fetched from the store.
	Assignable int

	// LiveCouriers is the size of the registry snapshot, 0 when it was not read.
	LiveCouriers int

	// Assigned lists the assignments that were committed.
	Assigned []dispatch.Assignment

	// Skipped lists planned assignments dropped because the order changed
	// between planning and persisting.
	Skipped []dispatch.Assignment

	// Undelivered lists the committed assignments whose NEW_ORDER message was not delivered.
	Undelivered []UndeliveredNotification
}

// Backlog is the number of assignable orders left without a courier.
func (r AssignCouriersResult) Backlog() int {
	return r.Assignable - len(r.Assigned)
}

// AssignCouriersCommandHandler runs the assignment phase of the dispatch scheduler.
//
// Flow:
//  1. fetch assignable orders; none ends the phase
//  2. snapshot live couriers; none ends the phase without any store write
//  3. fetch active orders and plan assignments with the OrderDispatcher
//  4. for each planned assignment, persist the courier in its own transaction and,
//     once committed, send NEW_ORDER to the courier
//
// A failed or undelivered NEW_ORDER is reported in the result and never retried: the
// re-announcement phase covers it once the courier is live. Any store error stops the
// phase and is returned together with the partial result.
//
// Example:
//
//	result, err := handler.Handle(ctx, commands.NewAssignCouriersCommand())
//	if err != nil {
//	    logger.ErrorContext(ctx, "assignment phase failed", "error", err)
//	}
//	for _, u := range result.Undelivered {
//	    logger.WarnContext(ctx, "courier not notified", "order_id", u.Assignment.OrderID)
//	}
type AssignCouriersCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.CourierNotifier
	dispatcher services.OrderDispatcher
}

// NewAssignCouriersCommandHandler creates the assignment phase handler.
func NewAssignCouriersCommandHandler(uowFactory OrderUoWFactory, notifier ports.CourierNotifier) AssignCouriersCommandHandler {
	return AssignCouriersCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		dispatcher: services.NewOrderDispatcher(),
	}
}

// Handle processes the assignment command.
func (h AssignCouriersCommandHandler) Handle(ctx context.Context, cmd AssignCouriersCommand) (AssignCouriersResult, error) {
	var result AssignCouriersResult

	if err := cmd.Validate(); err != nil {
		return result, err
	}

	orders := h.uowFactory.Create().OrderRepository()

	assignable, err := orders.Find(ctx, ports.AssignableOrders())
	if err != nil {
		return result, err
	}
	result.Assignable = len(assignable)
	if len(assignable) == 0 {
		return result, nil
	}

	live := h.notifier.LiveCourierIDs()
	result.LiveCouriers = len(live)
	if len(live) == 0 {
		return result, nil
	}

	active, err := orders.Find(ctx, ports.ActiveOrders())
	if err != nil {
		return result, err
	}

	plan, err := h.dispatcher.Dispatch(assignable, live, active)
	if err != nil {
		return result, err
	}

	for _, a := range plan {
		err = h.persist(ctx, a)
		if isStaleAssignment(err) {
			result.Skipped = append(result.Skipped, a)
			continue
		}
		if err != nil {
			return result, err
		}
		result.Assigned = append(result.Assigned, a)

		found, sendErr := h.notifier.SendTo(ctx, a.CourierID, dispatch.NewOrderMessage(a.OrderID))
		if !found || sendErr != nil {
			result.Undelivered = append(result.Undelivered, UndeliveredNotification{
				Assignment: a,
				Err:        sendErr,
			})
		}
	}

	return result, nil
}

// persist writes one assignment. The order is re-read under lock so that a
// concurrent cancellation or assignment is detected rather than overwritten.
func (h AssignCouriersCommandHandler) persist(ctx context.Context, a dispatch.Assignment) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, a.OrderID)
	if err != nil {
		return err
	}

	if err = o.AssignCourier(a.CourierID); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func isStaleAssignment(err error) bool {
	return errors.Is(err, order.ErrOrderIsNotAssignable) ||
		errors.Is(err, order.ErrCourierAlreadyAssigned) ||
		errors.Is(err, errs.ErrObjectNotFound)
}
