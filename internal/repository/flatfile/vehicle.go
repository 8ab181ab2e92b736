package flatfile

import (
	"context"
	"fmt"
	"sync"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/repository"
)

type vehicleRepository struct {
	path string
	mu   sync.Mutex
}

func NewVehicleRepository(path string) repository.VehicleRepository {
	return &vehicleRepository{path: path}
}

func (r *vehicleRepository) LoadAll(ctx context.Context) ([]domain.Vehicle, error) {
	logger.StoreCall(backendName, "vehicles.LoadAll", "path", r.path)
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicles, err := r.readLocked()
	logger.StoreResult(backendName, "vehicles.LoadAll", int64(len(vehicles)), err)
	return vehicles, err
}

func (r *vehicleRepository) SaveAll(ctx context.Context, vehicles []domain.Vehicle) error {
	logger.StoreCall(backendName, "vehicles.SaveAll", "path", r.path)
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.writeLocked(vehicles)
	logger.StoreResult(backendName, "vehicles.SaveAll", int64(len(vehicles)), err)
	return err
}

func (r *vehicleRepository) SaveOne(ctx context.Context, v *domain.Vehicle, appendRecord bool) error {
	logger.StoreCall(backendName, "vehicles.SaveOne", "plate", v.Plate, "append", appendRecord)
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if appendRecord {
		err = appendLine(r.path, encodeVehicle(v))
	} else {
		err = writeLines(r.path, []string{encodeVehicle(v)})
	}
	logger.StoreResult(backendName, "vehicles.SaveOne", 1, err)
	return err
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	logger.StoreCall(backendName, "vehicles.Update", "plate", v.Plate)
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.updateLocked(v)
	logger.StoreResult(backendName, "vehicles.Update", 1, err)
	return err
}

func (r *vehicleRepository) updateLocked(v *domain.Vehicle) error {
	vehicles, err := r.readLocked()
	if err != nil {
		return err
	}
	for i := range vehicles {
		if vehicles[i].Plate == v.Plate {
			vehicles[i] = *v
			return r.writeLocked(vehicles)
		}
	}
	return fmt.Errorf("update %s: %w", v.Plate, domain.ErrVehicleNotFound)
}

func (r *vehicleRepository) Delete(ctx context.Context, plate string) (bool, error) {
	logger.StoreCall(backendName, "vehicles.Delete", "plate", plate)
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicles, err := r.readLocked()
	if err != nil {
		logger.StoreResult(backendName, "vehicles.Delete", 0, err)
		return false, err
	}
	kept := vehicles[:0]
	for _, v := range vehicles {
		if v.Plate != plate {
			kept = append(kept, v)
		}
	}
	removed := len(vehicles) - len(kept)
	if removed == 0 {
		logger.StoreResult(backendName, "vehicles.Delete", 0, nil)
		return false, nil
	}
	err = r.writeLocked(kept)
	logger.StoreResult(backendName, "vehicles.Delete", int64(removed), err)
	return err == nil, err
}

func (r *vehicleRepository) readLocked() ([]domain.Vehicle, error) {
	lines, numbers, err := readLines(r.path)
	if err != nil {
		return nil, err
	}
	vehicles := make([]domain.Vehicle, 0, len(lines))
	for i, line := range lines {
		v, err := decodeVehicle(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", domain.ErrPersistence, r.path, numbers[i], err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func (r *vehicleRepository) writeLocked(vehicles []domain.Vehicle) error {
	lines := make([]string, 0, len(vehicles))
	for i := range vehicles {
		lines = append(lines, encodeVehicle(&vehicles[i]))
	}
	return writeLines(r.path, lines)
}
