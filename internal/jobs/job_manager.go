package jobs

import (
	"fmt"
	"log/slog"

	"washline/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	notificationSweepJob *NotificationSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	dispatcher commands.NotificationDispatcher,
	uowFactory commands.OrderUoWFactory,
	sweepSpec string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		notificationSweepJob: NewNotificationSweepJob(dispatcher, uowFactory, sweepSpec, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.notificationSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.notificationSweepJob.Stop()
}
