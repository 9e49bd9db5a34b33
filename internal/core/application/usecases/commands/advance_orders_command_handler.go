package commands

import (
	"context"
	"errors"
	"log/slog"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// AdvanceOrdersResult summarizes a single sweep.
type AdvanceOrdersResult struct {
	// Processing is the number of orders moved pending -> processing.
	Processing int
	// Completed is the number of orders moved processing -> completed.
	Completed int
	// Failed is the number of orders skipped because their write failed.
	Failed int
}

// Advanced returns the number of orders that changed status.
func (r AdvanceOrdersResult) Advanced() int {
	return r.Processing + r.Completed
}

// AdvanceOrdersCommandHandler moves every non-terminal order one step forward.
//
// Pending orders are advanced first, then processing ones. An order advanced in the
// pending pass is skipped in the processing pass, so a single sweep never moves an
// order more than one step. Each order is written in its own transaction: a
// persistence failure or a lost version race on one order is logged and counted,
// and the sweep continues. Any other error aborts the sweep.
//
// Example:
//
//	handler := NewAdvanceOrdersCommandHandler(uowFactory, clock.New(), logger)
//	result, err := handler.Handle(ctx, NewAdvanceOrdersCommand())
//	if err != nil {
//	    return fmt.Errorf("sweep aborted: %w", err)
//	}
//	logger.Info("sweep finished", "advanced", result.Advanced(), "failed", result.Failed)
type AdvanceOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
	logger     *slog.Logger
}

func NewAdvanceOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	clock ports.Clock,
	logger *slog.Logger,
) AdvanceOrdersCommandHandler {
	return AdvanceOrdersCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		logger:     logger.With("component", "AdvanceOrdersCommandHandler"),
	}
}

func (h AdvanceOrdersCommandHandler) Handle(ctx context.Context, cmd AdvanceOrdersCommand) (AdvanceOrdersResult, error) {
	var result AdvanceOrdersResult

	if err := cmd.Validate(); err != nil {
		return result, err
	}

	advanced := make(map[kernel.UUID]struct{})

	for _, status := range []order.Status{order.Pending, order.Processing} {
		batch, err := h.load(ctx, status)
		if err != nil {
			return result, err
		}

		for _, o := range batch {
			if err = ctx.Err(); err != nil {
				return result, err
			}

			if _, ok := advanced[o.ID()]; ok {
				continue
			}

			next, advanceErr := h.advance(ctx, o)
			switch {
			case advanceErr == nil:
				advanced[o.ID()] = struct{}{}
				result.record(next)
			case errors.Is(advanceErr, errs.ErrPersistence), errors.Is(advanceErr, errs.ErrConflict):
				result.Failed++
				h.logger.WarnContext(ctx, "failed to advance order",
					"order_id", o.ID().String(),
					"from", status.String(),
					"error", advanceErr)
			default:
				return result, advanceErr
			}
		}
	}

	return result, nil
}

// load reads every order in status inside a short read-only transaction.
func (h AdvanceOrdersCommandHandler) load(ctx context.Context, status order.Status) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetAllInStatus(ctx, status)
}

// advance moves a single order one step and persists it in its own transaction.
func (h AdvanceOrdersCommandHandler) advance(ctx context.Context, o *order.Order) (order.Status, error) {
	next, err := o.Advance(h.clock.Now())
	if err != nil {
		return o.Status(), err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return next, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return next, err
	}

	if err = uow.Commit(ctx); err != nil {
		return next, err
	}

	return next, nil
}

func (r *AdvanceOrdersResult) record(next order.Status) {
	switch next { //nolint:exhaustive // only automatic targets are reachable
	case order.Processing:
		r.Processing++
	case order.Completed:
		r.Completed++
	}
}
