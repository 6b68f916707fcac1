// Package ports defines the contracts between the dispatch core and its collaborators:
// the order store, the live courier registry and the metrics sink.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// AssignmentFilter narrows a query on whether orders hold a courier.
type AssignmentFilter int

const (
	// AnyAssignment does not filter on the courier reference.
	AnyAssignment AssignmentFilter = iota
	// Unassigned keeps orders without a courier.
	Unassigned
	// Assigned keeps orders with a courier.
	Assigned
)

// OrderFilter selects orders from the store. Zero fields do not filter.
type OrderFilter struct {
	// Statuses keeps orders whose status is one of the listed values.
	Statuses []order.Status

	// Assignment filters on the presence of a courier.
	Assignment AssignmentFilter

	// CourierID keeps orders held by this courier. It implies Assigned.
	CourierID *kernel.UUID
}

// AssignableOrders selects Processed orders without a courier.
func AssignableOrders() OrderFilter {
	return OrderFilter{
		Statuses:   []order.Status{order.Processed},
		Assignment: Unassigned,
	}
}

// ActiveOrders selects orders held by a courier and not yet delivered or canceled.
func ActiveOrders() OrderFilter {
	return OrderFilter{
		Statuses:   order.ActiveStatuses(),
		Assignment: Assigned,
	}
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the courier, status and cancellation reason of an existing order.
	// Returns an errs.ObjectNotFoundError when no such order exists.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id. Inside a transaction the row stays locked
	// until commit or rollback.
	// Returns an errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Find returns the orders matching filter, oldest first. Ties are broken by id so
	// that successive calls return the same order.
	Find(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
