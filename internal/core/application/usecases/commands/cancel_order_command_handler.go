package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels a Pending order on behalf of its owner.
//
// Checks run in a fixed order and the first failure wins:
//  1. the order exists (errs.ObjectNotFoundError)
//  2. the caller owns it (errs.ForbiddenError), whatever its status
//  3. the lifecycle allows pending -> cancelled (errs.InvalidTransitionError)
//
// The write is guarded by the order version, so a sweep that advanced the order
// after it was read makes Handle fail with errs.ConflictError instead of
// overwriting the sweep.
//
// Example:
//
//	cmd, _ := NewCancelOrderCommand(orderID, callerID)
//	cancelled, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrForbidden):
//	    // someone else's order
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // already processing, completed or cancelled
//	}
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	target, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if !target.IsOwnedBy(cmd.OwnerID()) {
		return nil, errs.NewForbiddenError("order", cmd.OrderID())
	}

	if err = target.Cancel(h.clock.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return target, nil
}
