package services

import (
	"errors"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// ErrCourierNotFound is returned by FindCourier when every live courier is either
// holding an active order or already claimed.
var ErrCourierNotFound = errors.New("courier not found")

// OrderDispatcher is a domain service that matches assignable orders with live couriers,
// one order per courier.
//
// Business rules:
//   - Only assignable orders (Processed, no courier) are considered
//   - A courier holding an active order is never picked
//   - A courier picked for one order is claimed and never picked again in the same pass
//   - Orders are served in the given order, couriers are scanned in the given order,
//     so ties are broken by the store's and the registry's natural ordering
//
// Example usage:
//
//	dispatcher := services.NewOrderDispatcher()
//	assignments, err := dispatcher.Dispatch(assignableOrders, liveCourierIDs, activeOrders)
//	if err != nil {
//	    return err
//	}
//	for _, a := range assignments {
//	    // persist a.CourierID on a.OrderID, then notify the courier
//	}
type OrderDispatcher struct{}

// NewOrderDispatcher creates a new OrderDispatcher instance.
func NewOrderDispatcher() OrderDispatcher {
	return OrderDispatcher{}
}

// Dispatch plans the assignments of one tick. It performs no I/O and does not modify
// the given orders; the caller persists each returned assignment.
//
// Parameters:
//   - assignable: candidate orders, in store order
//   - live: live courier ids, in registry order
//   - active: orders currently held by couriers; their couriers are busy
//
// Returns:
//   - the planned assignments, at most one per courier and one per order
//   - an error if any order was not properly constructed
func (d OrderDispatcher) Dispatch(
	assignable []*order.Order,
	live []kernel.UUID,
	active []*order.Order,
) ([]dispatch.Assignment, error) {
	claimed, err := d.busyCouriers(active)
	if err != nil {
		return nil, err
	}

	assignments := make([]dispatch.Assignment, 0, min(len(assignable), len(live)))
	planned := make(map[kernel.UUID]struct{}, len(assignable))

	for _, o := range assignable {
		if err = o.Validate(); err != nil {
			return nil, err
		}

		if !o.IsAssignable() {
			continue
		}
		if _, dup := planned[o.ID()]; dup {
			continue
		}

		courierID, findErr := d.FindCourier(live, claimed)
		if errors.Is(findErr, ErrCourierNotFound) {
			// Every remaining order would hit the same wall.
			break
		}

		claimed[courierID] = struct{}{}
		planned[o.ID()] = struct{}{}
		assignments = append(assignments, dispatch.Assignment{
			OrderID:   o.ID(),
			CourierID: courierID,
		})
	}

	return assignments, nil
}

// FindCourier returns the first live courier id that is not in claimed.
// Zero-value ids are skipped.
func (d OrderDispatcher) FindCourier(live []kernel.UUID, claimed map[kernel.UUID]struct{}) (kernel.UUID, error) {
	for _, id := range live {
		if id.Validate() != nil {
			continue
		}
		if _, taken := claimed[id]; taken {
			continue
		}
		return id, nil
	}

	return kernel.UUID{}, ErrCourierNotFound
}

// busyCouriers builds the claim set from the couriers already holding active orders.
func (d OrderDispatcher) busyCouriers(active []*order.Order) (map[kernel.UUID]struct{}, error) {
	busy := make(map[kernel.UUID]struct{}, len(active))
	for _, o := range active {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if !o.IsActive() {
			continue
		}
		busy[*o.Courier()] = struct{}{}
	}
	return busy, nil
}
