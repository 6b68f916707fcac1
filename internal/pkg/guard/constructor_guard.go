// Package guard provides ConstructorGuard, a marker that lets commands, queries and
// value objects detect that they were built as a zero value instead of through their
// constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded into types that must only be created by their constructor.
// The zero value is "not constructed".
//
// Example usage:
//
//	var ErrAssignCouriersCommandIsNotConstructed = errors.New("...")
//
//	type AssignCouriersCommand struct {
//	    guard guard.ConstructorGuard
//	}
//
//	func NewAssignCouriersCommand() AssignCouriersCommand {
//	    return AssignCouriersCommand{guard: guard.NewConstructorGuard()}
//	}
//
//	func (c AssignCouriersCommand) Validate() error {
//	    return c.guard.Validate(ErrAssignCouriersCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
