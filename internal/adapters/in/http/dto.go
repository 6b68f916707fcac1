package http

import "marketplace/internal/core/domain/model/kernel"

// Error is the body of every non-2xx JSON response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder is the body of POST /api/v1/orders. A missing id is generated.
type NewOrder struct {
	ID string `json:"id"`
}

// CreatedOrder is returned by POST /api/v1/orders.
type CreatedOrder struct {
	ID kernel.UUID `json:"id"`
}

// Order is one entry of GET /api/v1/orders/active.
type Order struct {
	ID        kernel.UUID  `json:"id"`
	Status    string       `json:"status"`
	CourierID *kernel.UUID `json:"courierId,omitempty"`
}

// OrderStatusChange is the body of POST /api/v1/orders/:orderId/status.
// Reason is required when Status is Canceled.
type OrderStatusChange struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// LiveCouriers is returned by GET /api/v1/couriers/live.
type LiveCouriers struct {
	CourierIDs []kernel.UUID `json:"courierIds"`
}
