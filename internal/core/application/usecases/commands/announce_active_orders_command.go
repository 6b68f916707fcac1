package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrAnnounceActiveOrdersCommandIsNotConstructed = errors.New(
	"AnnounceActiveOrdersCommand must be created via NewAnnounceActiveOrdersCommand constructor",
)

// AnnounceActiveOrdersCommand triggers the re-announcement phase of a dispatch tick:
// every courier holding an active order is reminded of it, so a courier that
// reconnected mid-delivery picks its order back up.
type AnnounceActiveOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewAnnounceActiveOrdersCommand creates a new parameterless re-announcement command.
func NewAnnounceActiveOrdersCommand() AnnounceActiveOrdersCommand {
	return AnnounceActiveOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c AnnounceActiveOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAnnounceActiveOrdersCommandIsNotConstructed)
}
