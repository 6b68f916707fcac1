package order

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of a marketplace order.
// It implements a forward-only state machine with a single escape valve:
//
//	Idle ─> Processing ─> Processed ─> Collecting ─> Delivering ─> Delivered
//	  │         │             │             │             │
//	  └─────────┴─────────────┴─────────────┴─────────────┴──> Canceled
//
// Processed, Collecting and Delivering form the active set: an order in one of these
// statuses is the responsibility of a courier (Processed orders are waiting for one).
// Delivered and Canceled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Idle is the initial status of an order placed by a customer.
	Idle

	// Processing means the vendor is preparing the order.
	Processing

	// Processed means the order is ready for pick-up and can be assigned to a courier.
	Processed

	// Collecting means the courier is on the way to collect the order.
	Collecting

	// Delivering means the courier carries the order to the customer.
	Delivering

	// Delivered is the final, successful status.
	Delivered

	// Canceled is the final status of an order abandoned before delivery.
	Canceled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Idle:       "Idle",
		Processing: "Processing",
		Processed:  "Processed",
		Collecting: "Collecting",
		Delivering: "Delivering",
		Delivered:  "Delivered",
		Canceled:   "Canceled",
	}
}

// ActiveStatuses returns the statuses in which an order may hold a courier.
func ActiveStatuses() []Status {
	return []Status{Processed, Collecting, Delivering}
}

// ParseStatus converts a status name (case-insensitive) into a Status.
//
// Returns:
//   - the matching Status on success
//   - a ValueIsInvalidError for unknown names, including "Unknown"
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && strings.EqualFold(name, strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined statuses.
// Unknown (0) and out of range values are invalid.
func (s Status) Validate() error {
	if s <= Unknown || s > Canceled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// It is safe to call on invalid values, which render as "Unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsActive reports whether the status belongs to the active set
// (Processed, Collecting, Delivering).
func (s Status) IsActive() bool {
	return s == Processed || s == Collecting || s == Delivering
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Canceled
}

// Next returns the single forward successor of the status.
//
// Returns:
//   - (successor, nil) for Idle through Delivering
//   - (Unknown, error) for terminal and invalid statuses
//
// Example:
//
//	next, err := order.Collecting.Next() // Delivering, nil
func (s Status) Next() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is a terminal status", s),
		)
	}
	return s + 1, nil
}

// ValidateTransition checks that moving from s to target is allowed.
//
// Business Rules:
//   - target must be the forward successor of s, or
//   - target is Canceled and s is not terminal
func (s Status) ValidateTransition(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if target == Canceled {
		if s.IsTerminal() {
			return errs.NewValueIsInvalidErrorWithCause(
				"status is invalid",
				fmt.Errorf("%s is a terminal status and cannot be canceled", s),
			)
		}
		return nil
	}

	next, err := s.Next()
	if err != nil {
		return err
	}
	if next != target {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s cannot move to %s, next status is %s", s, target, next),
		)
	}
	return nil
}

// ValidateCanHaveCourier validates the consistency between order status and courier assignment.
//
// Business Rules:
//   - Only Processed, Collecting and Delivering orders may hold a courier
//   - Collecting and Delivering orders must hold a courier
//   - A Processed order without a courier is waiting for assignment
//
// Parameters:
//   - courier: whether the order has a courier assigned
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if courier && !s.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", s),
		)
	}

	if !courier && (s == Collecting || s == Delivering) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", s),
		)
	}

	return nil
}
