package commands

import (
	"errors"

	"orders/internal/pkg/guard"
)

var ErrAdvanceOrdersCommandIsNotConstructed = errors.New(
	"AdvanceOrdersCommand must be created via NewAdvanceOrdersCommand constructor",
)

// AdvanceOrdersCommand triggers one sweep over all non-terminal orders.
// It is parameterless; the periodic job issues a fresh one on every tick.
type AdvanceOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewAdvanceOrdersCommand() AdvanceOrdersCommand {
	return AdvanceOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *AdvanceOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrdersCommandIsNotConstructed)
}
