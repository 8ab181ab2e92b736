package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"drivequest-fleet/internal/config"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/service"
)

// Job names accepted by RunOnce.
const (
	JobSnapshotFleet        = "snapshot-fleet"
	JobReportOverdueRentals = "report-overdue-rentals"
	JobAll                  = "all"
)

var ErrUnknownJob = errors.New("unknown job")

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	vehicles service.VehicleService
	fleet    service.FleetService
	recorder service.BookingRecorder
	config   *config.Config
	now      func() time.Time
	refresh  func(ctx context.Context) error
}

// NewJobRunner creates a new job runner. recorder may be nil.
func NewJobRunner(vehicles service.VehicleService, fleet service.FleetService, recorder service.BookingRecorder, cfg *config.Config) *JobRunner {
	return &JobRunner{
		vehicles: vehicles,
		fleet:    fleet,
		recorder: recorder,
		config:   cfg,
		now:      time.Now,
	}
}

// WithRefresh makes every job call refresh before it runs. The file-backed
// cron runner uses it to reload state other processes wrote, so a snapshot
// does not overwrite it.
func (jr *JobRunner) WithRefresh(refresh func(ctx context.Context) error) *JobRunner {
	jr.refresh = refresh
	return jr
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// JobNames lists the jobs RunOnce understands
func JobNames() []string {
	return []string{JobSnapshotFleet, JobReportOverdueRentals, JobAll}
}

// runWithRecovery wraps job execution with panic recovery. Each run gets its
// own ID so interleaved log lines of overlapping runs can be told apart.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context, log *slog.Logger) error) (err error) {
	log := logger.WithJob(jobName, uuid.NewString())
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
	}()

	log.Info("Starting job")
	ctx := context.Background()
	if jr.refresh != nil {
		if err = jr.refresh(ctx); err != nil {
			log.Error("Job refresh failed", "error", err)
			return fmt.Errorf("refresh before %s: %w", jobName, err)
		}
	}
	if err = jobFunc(ctx, log); err != nil {
		log.Error("Job failed", "error", err, "elapsed", time.Since(started))
		return err
	}
	log.Info("Job completed", "elapsed", time.Since(started))
	return nil
}

// RunOnce runs the named job (or all of them) and returns its error.
func (jr *JobRunner) RunOnce(jobName string) error {
	switch jobName {
	case JobSnapshotFleet:
		return jr.SnapshotFleet()
	case JobReportOverdueRentals:
		return jr.ReportOverdueRentals()
	case JobAll:
		return jr.RunAll()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, jobName)
	}
}

// RunAll runs every job, continuing past failures.
func (jr *JobRunner) RunAll() error {
	return errors.Join(
		jr.SnapshotFleet(),
		jr.ReportOverdueRentals(),
	)
}
