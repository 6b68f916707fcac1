// Package order provides the Order aggregate of the marketplace and its lifecycle.
//
// The package includes:
//   - Order: the aggregate root holding identity, status, courier reference and
//     cancellation reason
//   - Status: a forward-only state machine with Canceled as the only escape valve
//
// Key business rules:
//   - Orders move Idle -> Processing -> Processed -> Collecting -> Delivering -> Delivered
//   - Any non-terminal order may be Canceled, with a mandatory reason
//   - Only Processed orders without a courier are assignable
//   - A courier is set once by assignment and released on delivery or cancellation
package order
