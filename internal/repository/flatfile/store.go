package flatfile

import (
	"drivequest-fleet/internal/repository"
)

// Store keeps vehicles and rental periods in two sibling files.
type Store struct {
	vehicles repository.VehicleRepository
	periods  repository.RentalPeriodRepository
}

func NewStore(vehiclesPath, rentalsPath string) *Store {
	return &Store{
		vehicles: NewVehicleRepository(vehiclesPath),
		periods:  NewRentalPeriodRepository(rentalsPath),
	}
}

func (s *Store) Vehicles() repository.VehicleRepository {
	return s.vehicles
}

func (s *Store) RentalPeriods() repository.RentalPeriodRepository {
	return s.periods
}

// Close is a no-op; files are opened per operation.
func (s *Store) Close() error {
	return nil
}
