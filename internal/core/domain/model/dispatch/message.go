// Package dispatch holds the value types exchanged between the dispatch scheduler,
// the order store and the couriers' live channels.
package dispatch

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// MessageType is the closed set of notifications pushed to couriers.
// Courier clients key their behavior off this value.
type MessageType string

const (
	// NewOrder tells a courier that an order was just assigned to them.
	NewOrder MessageType = "NEW_ORDER"

	// CurrentOrder reminds a courier of the order they are holding.
	CurrentOrder MessageType = "CURRENT_ORDER"
)

// Validate rejects anything outside of the closed enumeration.
func (t MessageType) Validate() error {
	switch t {
	case NewOrder, CurrentOrder:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("message type", fmt.Errorf("%q is not a known message type", string(t)))
	}
}

// Message is the payload written to a courier channel:
//
//	{"type":"NEW_ORDER","orderId":"550e8400-e29b-41d4-a716-446655440000"}
type Message struct {
	Type    MessageType `json:"type"`
	OrderID kernel.UUID `json:"orderId"`
}

// NewOrderMessage builds the notification sent right after an assignment is persisted.
func NewOrderMessage(orderID kernel.UUID) Message {
	return Message{Type: NewOrder, OrderID: orderID}
}

// CurrentOrderMessage builds the notification sent by the re-announcement sweep.
func CurrentOrderMessage(orderID kernel.UUID) Message {
	return Message{Type: CurrentOrder, OrderID: orderID}
}

// Validate checks the type and the order id.
func (m Message) Validate() error {
	if err := m.Type.Validate(); err != nil {
		return err
	}
	return m.OrderID.Validate()
}

// Assignment pairs an order with the courier chosen for it during one tick.
type Assignment struct {
	OrderID   kernel.UUID
	CourierID kernel.UUID
}
