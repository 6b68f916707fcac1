package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrAssignCouriersCommandIsNotConstructed = errors.New(
	"AssignCouriersCommand must be created via NewAssignCouriersCommand constructor",
)

// AssignCouriersCommand triggers the assignment phase of a dispatch tick: every
// Processed order without a courier is offered to the first live courier that is
// not already carrying an order.
type AssignCouriersCommand struct {
	guard guard.ConstructorGuard
}

// NewAssignCouriersCommand creates a new parameterless assignment command.
func NewAssignCouriersCommand() AssignCouriersCommand {
	return AssignCouriersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignCouriersCommandIsNotConstructed if validation fails.
func (c AssignCouriersCommand) Validate() error {
	return c.guard.Validate(ErrAssignCouriersCommandIsNotConstructed)
}
