package commands

import (
	"context"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/ports"
)

// AnnounceActiveOrdersResult counts the CURRENT_ORDER messages of one re-announcement phase.
type AnnounceActiveOrdersResult struct {
	Active    int
	Delivered int
	Offline   int
	Failed    int
}

// AnnounceActiveOrdersCommandHandler runs the re-announcement phase of the dispatch
// scheduler. It only reads from the order store; running it any number of times has
// no effect besides the messages it sends.
type AnnounceActiveOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.CourierNotifier
}

// NewAnnounceActiveOrdersCommandHandler creates the re-announcement phase handler.
func NewAnnounceActiveOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.CourierNotifier,
) AnnounceActiveOrdersCommandHandler {
	return AnnounceActiveOrdersCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle sends CURRENT_ORDER for every active order to its courier.
// Offline couriers and broken channels are counted, not treated as errors.
// Only a store error is returned.
func (h AnnounceActiveOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd AnnounceActiveOrdersCommand,
) (AnnounceActiveOrdersResult, error) {
	var result AnnounceActiveOrdersResult

	if err := cmd.Validate(); err != nil {
		return result, err
	}

	active, err := h.uowFactory.Create().OrderRepository().Find(ctx, ports.ActiveOrders())
	if err != nil {
		return result, err
	}

	for _, o := range active {
		courierID := o.Courier()
		if courierID == nil {
			continue
		}
		result.Active++

		found, sendErr := h.notifier.SendTo(ctx, *courierID, dispatch.CurrentOrderMessage(o.ID()))
		switch {
		case !found:
			result.Offline++
		case sendErr != nil:
			result.Failed++
		default:
			result.Delivered++
		}
	}

	return result, nil
}
