package jobs

import (
	"fmt"
)

type scheduledJob interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  scheduledJob
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs []namedJob
}

// NewJobManager creates a job manager for the order sweeper.
func NewJobManager(orderSweepJob *OrderSweepJob) *JobManager {
	return &JobManager{
		jobs: []namedJob{
			{name: "order sweep", job: orderSweepJob},
		},
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start; jobs started before it are stopped.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.job.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", j.name, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully, in reverse start order.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].job.Stop()
	}
}
