package jobs

import (
	"context"
	"log/slog"

	"drivequest-fleet/internal/domain"
)

// SnapshotFleet rewrites the vehicle store from the in-memory registry and
// refreshes the fleet gauges.
func (jr *JobRunner) SnapshotFleet() error {
	return jr.runWithRecovery(JobSnapshotFleet, func(ctx context.Context, log *slog.Logger) error {
		if err := jr.vehicles.SaveAll(ctx); err != nil {
			return err
		}

		stats := jr.vehicles.Stats(ctx)
		if jr.recorder != nil {
			jr.recorder.RecordFleet(stats)
		}
		log.Info("Fleet snapshot written", "vehicles", stats.Total, "rented", stats.RentedCount)
		return nil
	})
}

// ReportOverdueRentals logs every rented vehicle whose bookings all ended
// before today (UTC).
func (jr *JobRunner) ReportOverdueRentals() error {
	return jr.runWithRecovery(JobReportOverdueRentals, func(ctx context.Context, log *slog.Logger) error {
		today := domain.DateOf(jr.now().UTC())
		overdue := jr.fleet.OverdueVehicles(ctx, today)

		log.Info("Overdue rentals found", "count", len(overdue), "today", today.String())
		for _, o := range overdue {
			log.Warn("Rental overdue",
				"plate", o.Plate,
				"last_end", o.LastEnd.String(),
				"days_late", o.DaysLate)
		}
		return nil
	})
}
