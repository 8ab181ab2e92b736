package service

import (
	"context"
	"runtime"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"

	"golang.org/x/sync/errgroup"
)

// SkippedRecord is a stored vehicle that Load refused to register.
type SkippedRecord struct {
	Plate  string `json:"plate"`
	Reason string `json:"reason"`
}

// LoadReport summarizes one Load call.
type LoadReport struct {
	Loaded  int             `json:"loaded"`
	Skipped []SkippedRecord `json:"skipped,omitempty"`
}

// Load replaces the registry contents with the repository's records. Records
// are validated concurrently; invalid ones and later duplicates are skipped
// and reported rather than failing the whole load.
func (s *vehicleService) Load(ctx context.Context) (*LoadReport, error) {
	logger.EnterMethod("vehicleService.Load")

	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("vehicleService.Load", err)
		return nil, err
	}

	problems, err := validateRecords(ctx, records)
	if err != nil {
		logger.ExitMethodWithError("vehicleService.Load", err)
		return nil, err
	}

	report := &LoadReport{}
	byKey := make(map[string]*domain.Vehicle, len(records))
	order := make([]string, 0, len(records))
	for i := range records {
		v := records[i]
		v.Plate = domain.NormalizePlate(v.Plate)
		if problems[i] != nil {
			report.Skipped = append(report.Skipped, SkippedRecord{Plate: v.Plate, Reason: problems[i].Error()})
			continue
		}
		if _, dup := byKey[v.Plate]; dup {
			report.Skipped = append(report.Skipped, SkippedRecord{Plate: v.Plate, Reason: domain.ErrDuplicatePlate.Error()})
			continue
		}
		byKey[v.Plate] = &v
		order = append(order, v.Plate)
	}
	report.Loaded = len(order)

	s.mu.Lock()
	s.byKey = byKey
	s.order = order
	s.mu.Unlock()

	for _, skipped := range report.Skipped {
		logger.Warn("Skipped stored vehicle", "plate", skipped.Plate, "reason", skipped.Reason)
	}
	logger.ExitMethod("vehicleService.Load", "loaded", report.Loaded, "skipped", len(report.Skipped))
	return report, nil
}

// validateRecords returns one validation result per record, in input order.
// The returned error is only set when ctx is cancelled.
func validateRecords(ctx context.Context, records []domain.Vehicle) ([]error, error) {
	problems := make([]error, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			problems[i] = records[i].Validate()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return problems, nil
}
