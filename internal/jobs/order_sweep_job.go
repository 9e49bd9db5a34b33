package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/ports"
	"orders/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const DefaultSweepSchedule = "@every 2m"

// ErrSweepInProgress is returned by RunOnce when another tick holds the lock.
var ErrSweepInProgress = errors.New("order sweep is already running")

// AdvanceOrdersHandler runs a single sweep tick.
type AdvanceOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.AdvanceOrdersCommand) (commands.AdvanceOrdersResult, error)
}

// OrderSweepJob advances pending and processing orders on a schedule.
// Ticks never overlap: cron skips a tick while the previous one runs, and
// RunOnce refuses to start while another call holds the lock.
type OrderSweepJob struct {
	handler  AdvanceOrdersHandler
	schedule string
	metrics  *metrics.SweepMetrics
	clock    ports.Clock
	cron     *cron.Cron
	logger   *slog.Logger

	mu sync.Mutex
}

// NewOrderSweepJob creates the sweeper. An empty schedule falls back to
// DefaultSweepSchedule.
func NewOrderSweepJob(
	handler AdvanceOrdersHandler,
	schedule string,
	sweepMetrics *metrics.SweepMetrics,
	clock ports.Clock,
	logger *slog.Logger,
) *OrderSweepJob {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	logger = logger.With("component", "order_sweep_job")
	cronLogger := NewCronLogger(logger)

	return &OrderSweepJob{
		handler:  handler,
		schedule: schedule,
		metrics:  sweepMetrics,
		clock:    clock,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
	}
}

// Start registers the tick on the schedule and starts the scheduler.
func (j *OrderSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Order sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running tick to finish.
func (j *OrderSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Order sweep job stopped")
}

// RunOnce executes one sweep tick right away.
func (j *OrderSweepJob) RunOnce(ctx context.Context) (commands.AdvanceOrdersResult, error) {
	if !j.mu.TryLock() {
		j.metrics.ObserveSkippedTick()
		j.logger.WarnContext(ctx, "Order sweep skipped, previous tick still running")
		return commands.AdvanceOrdersResult{}, ErrSweepInProgress
	}
	defer j.mu.Unlock()

	started := j.clock.Now()
	result, err := j.handler.Handle(ctx, commands.NewAdvanceOrdersCommand())
	elapsed := j.clock.Now().Sub(started)

	j.metrics.ObserveTick(result.Processing, result.Completed, result.Failed, elapsed, err)

	if err != nil {
		j.logger.ErrorContext(ctx, "Order sweep aborted",
			"error", err,
			"processing", result.Processing,
			"completed", result.Completed,
			"failed", result.Failed,
		)
		return result, err
	}

	j.logger.InfoContext(ctx, "Order sweep finished",
		"processing", result.Processing,
		"completed", result.Completed,
		"failed", result.Failed,
		"duration", elapsed,
	)
	return result, nil
}
