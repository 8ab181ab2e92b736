package flatfile

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/repository"
)

type rentalPeriodRepository struct {
	path string
	mu   sync.Mutex
}

func NewRentalPeriodRepository(path string) repository.RentalPeriodRepository {
	return &rentalPeriodRepository{path: path}
}

func (r *rentalPeriodRepository) LoadAll(ctx context.Context) (map[string][]domain.RentalPeriod, error) {
	logger.StoreCall(backendName, "rental_periods.LoadAll", "path", r.path)
	r.mu.Lock()
	defer r.mu.Unlock()

	periods, err := r.readLocked()
	if err != nil {
		logger.StoreResult(backendName, "rental_periods.LoadAll", 0, err)
		return nil, err
	}
	byPlate := make(map[string][]domain.RentalPeriod)
	for _, p := range periods {
		byPlate[p.Plate] = append(byPlate[p.Plate], p)
	}
	logger.StoreResult(backendName, "rental_periods.LoadAll", int64(len(periods)), nil)
	return byPlate, nil
}

func (r *rentalPeriodRepository) Replace(ctx context.Context, plate string, periods []domain.RentalPeriod) error {
	logger.StoreCall(backendName, "rental_periods.Replace", "plate", plate, "count", len(periods))
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.replaceLocked(plate, periods)
	logger.StoreResult(backendName, "rental_periods.Replace", int64(len(periods)), err)
	return err
}

func (r *rentalPeriodRepository) DeleteByVehicle(ctx context.Context, plate string) error {
	logger.StoreCall(backendName, "rental_periods.DeleteByVehicle", "plate", plate)
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.replaceLocked(plate, nil)
	logger.StoreResult(backendName, "rental_periods.DeleteByVehicle", 0, err)
	return err
}

func (r *rentalPeriodRepository) replaceLocked(plate string, periods []domain.RentalPeriod) error {
	existing, err := r.readLocked()
	if err != nil {
		return err
	}
	kept := existing[:0]
	for _, p := range existing {
		if p.Plate != plate {
			kept = append(kept, p)
		}
	}
	for _, p := range periods {
		p.Plate = plate
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Plate != kept[j].Plate {
			return kept[i].Plate < kept[j].Plate
		}
		return kept[i].Start.Before(kept[j].Start)
	})

	lines := make([]string, 0, len(kept))
	for _, p := range kept {
		lines = append(lines, encodeRentalPeriod(p))
	}
	return writeLines(r.path, lines)
}

func (r *rentalPeriodRepository) readLocked() ([]domain.RentalPeriod, error) {
	lines, numbers, err := readLines(r.path)
	if err != nil {
		return nil, err
	}
	periods := make([]domain.RentalPeriod, 0, len(lines))
	for i, line := range lines {
		p, err := decodeRentalPeriod(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", domain.ErrPersistence, r.path, numbers[i], err)
		}
		periods = append(periods, p)
	}
	return periods, nil
}
