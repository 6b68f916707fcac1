// Package kernel provides the shared domain primitives of the marketplace.
//
// The package includes:
//   - UUID: the identifier value object used for orders and couriers
//
// UUID is immutable and safe for concurrent use; its zero value is invalid and is
// rejected by Validate, so identifiers always come from one of the constructors.
package kernel
