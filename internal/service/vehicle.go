package service

import (
	"context"
	"fmt"
	"sync"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/repository"
)

type vehicleService struct {
	repo repository.VehicleRepository

	mu    sync.RWMutex
	byKey map[string]*domain.Vehicle
	order []string
}

func NewVehicleService(repo repository.VehicleRepository) VehicleService {
	return &vehicleService{
		repo:  repo,
		byKey: make(map[string]*domain.Vehicle),
	}
}

func (s *vehicleService) Add(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	v := *vehicle
	v.Plate = domain.NormalizePlate(v.Plate)
	v.Available = true
	logger.EnterMethod("vehicleService.Add", "plate", v.Plate)

	if err := v.Validate(); err != nil {
		logger.ExitMethodWithError("vehicleService.Add", err, "plate", v.Plate)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[v.Plate]; ok {
		err := fmt.Errorf("add %s: %w", v.Plate, domain.ErrDuplicatePlate)
		logger.ExitMethodWithError("vehicleService.Add", err, "plate", v.Plate)
		return nil, err
	}
	if err := s.repo.SaveOne(ctx, &v, true); err != nil {
		logger.ExitMethodWithError("vehicleService.Add", err, "plate", v.Plate)
		return nil, err
	}
	s.insertLocked(&v)

	logger.ExitMethod("vehicleService.Add", "plate", v.Plate)
	out := v
	return &out, nil
}

func (s *vehicleService) List(ctx context.Context) []domain.Vehicle {
	return s.filter(func(*domain.Vehicle) bool { return true })
}

func (s *vehicleService) ListLongTerm(ctx context.Context) []domain.Vehicle {
	return s.filter((*domain.Vehicle).IsLongTermRental)
}

func (s *vehicleService) Query(ctx context.Context, q domain.VehicleQuery) []domain.Vehicle {
	return s.filter(q.Matches)
}

func (s *vehicleService) filter(keep func(*domain.Vehicle) bool) []domain.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(keep)
}

// filterLocked requires s.mu to be held.
func (s *vehicleService) filterLocked(keep func(*domain.Vehicle) bool) []domain.Vehicle {
	out := make([]domain.Vehicle, 0, len(s.order))
	for _, plate := range s.order {
		if v := s.byKey[plate]; keep(v) {
			out = append(out, *v)
		}
	}
	return out
}

func (s *vehicleService) FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	plate = domain.NormalizePlate(plate)
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.byKey[plate]
	if !ok {
		return nil, fmt.Errorf("find %s: %w", plate, domain.ErrVehicleNotFound)
	}
	out := *v
	return &out, nil
}

func (s *vehicleService) Exists(ctx context.Context, plate string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byKey[domain.NormalizePlate(plate)]
	return ok
}

// Update replaces the stored record. Memory changes only after the
// repository accepted the write.
func (s *vehicleService) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	v := *vehicle
	v.Plate = domain.NormalizePlate(v.Plate)
	logger.EnterMethod("vehicleService.Update", "plate", v.Plate)

	if err := v.Validate(); err != nil {
		logger.ExitMethodWithError("vehicleService.Update", err, "plate", v.Plate)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byKey[v.Plate]
	if !ok {
		err := fmt.Errorf("update %s: %w", v.Plate, domain.ErrVehicleNotFound)
		logger.ExitMethodWithError("vehicleService.Update", err, "plate", v.Plate)
		return err
	}
	if err := s.repo.Update(ctx, &v); err != nil {
		logger.ExitMethodWithError("vehicleService.Update", err, "plate", v.Plate)
		return err
	}
	*current = v

	logger.ExitMethod("vehicleService.Update", "plate", v.Plate, "available", v.Available, "rentalDays", v.RentalDays)
	return nil
}

func (s *vehicleService) Remove(ctx context.Context, plate string) (bool, error) {
	plate = domain.NormalizePlate(plate)
	logger.EnterMethod("vehicleService.Remove", "plate", plate)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[plate]; !ok {
		logger.ExitMethod("vehicleService.Remove", "plate", plate, "removed", false)
		return false, nil
	}
	if _, err := s.repo.Delete(ctx, plate); err != nil {
		logger.ExitMethodWithError("vehicleService.Remove", err, "plate", plate)
		return false, err
	}
	delete(s.byKey, plate)
	for i, p := range s.order {
		if p == plate {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	logger.ExitMethod("vehicleService.Remove", "plate", plate, "removed", true)
	return true, nil
}

func (s *vehicleService) Stats(ctx context.Context) domain.FleetStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.FleetStats{
		ByType: make(map[domain.VehicleType]int),
		ByYear: make(map[int]int),
	}
	for i, plate := range s.order {
		v := s.byKey[plate]
		stats.Total++
		stats.SumPrice += v.DailyPrice
		if i == 0 || v.DailyPrice < stats.MinPrice {
			stats.MinPrice = v.DailyPrice
		}
		if v.DailyPrice > stats.MaxPrice {
			stats.MaxPrice = v.DailyPrice
		}
		if v.IsLongTermRental() {
			stats.LongTermCount++
		}
		if !v.Available {
			stats.RentedCount++
		}
		stats.ByType[v.Type()]++
		stats.ByYear[v.Year]++
	}
	if stats.Total > 0 {
		stats.AvgPrice = stats.SumPrice / float64(stats.Total)
	}
	return stats
}

// SaveAll writes the whole registry back to the repository. The read lock is
// held across the write so an Update cannot land between the copy and the
// rewrite and then be overwritten by the older record.
func (s *vehicleService) SaveAll(ctx context.Context) error {
	logger.EnterMethod("vehicleService.SaveAll")
	s.mu.RLock()
	defer s.mu.RUnlock()

	vehicles := s.filterLocked(func(*domain.Vehicle) bool { return true })
	if err := s.repo.SaveAll(ctx, vehicles); err != nil {
		logger.ExitMethodWithError("vehicleService.SaveAll", err)
		return err
	}
	logger.ExitMethod("vehicleService.SaveAll", "count", len(vehicles))
	return nil
}

func (s *vehicleService) insertLocked(v *domain.Vehicle) {
	s.byKey[v.Plate] = v
	s.order = append(s.order, v.Plate)
}
