package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"drivequest-fleet/internal/config"
	"drivequest-fleet/internal/jobs"
	"drivequest-fleet/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler and registers every job of jobRunner.
// A malformed cron spec is returned as an error.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	// UTC with seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(jobRunner.Config().Scheduler); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs(cfg config.SchedulerConfig) error {
	entries := []struct {
		name string
		spec string
		run  func() error
	}{
		{jobs.JobSnapshotFleet, cfg.SnapshotFleet, s.jobs.SnapshotFleet},
		{jobs.JobReportOverdueRentals, cfg.ReportOverdueRentals, s.jobs.ReportOverdueRentals},
	}

	for _, e := range entries {
		run := e.run
		// Failures are logged by the job runner.
		if _, err := s.cron.AddFunc(e.spec, func() { _ = run() }); err != nil {
			logger.Error("Failed to register job", "job", e.name, "spec", e.spec, "error", err)
			return fmt.Errorf("register %s (%q): %w", e.name, e.spec, err)
		}
		logger.Debug("Registered job", "job", e.name, "spec", e.spec)
	}

	logger.Info("All cron jobs registered successfully", "count", len(entries))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
