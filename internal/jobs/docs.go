// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// OrderSweepJob - runs every two minutes by default and moves every pending
// order to processing and every processing order to completed. An order moves
// at most one step per tick, so a fresh order needs two ticks to complete.
//
// # Usage
//
//	sweepJob := jobs.NewOrderSweepJob(advanceHandler, "@every 2m", m.Sweep, clock.New(), logger)
//	jobManager := jobs.NewJobManager(sweepJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Orders that fail to save are logged and counted by the command handler and
// the tick goes on. Any other error aborts the tick; the job logs it and waits
// for the next one. Failed job starts stop any already running jobs.
package jobs
