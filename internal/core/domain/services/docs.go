// Package services provides domain services that work across several aggregates of the
// marketplace.
//
// The package includes:
//   - OrderDispatcher: the matching loop that pairs assignable orders with live couriers
//     without ever handing two orders to the same courier
package services
