package repository

import (
	"context"

	"drivequest-fleet/internal/domain"
)

type VehicleRepository interface {
	LoadAll(ctx context.Context) ([]domain.Vehicle, error)
	// SaveAll replaces the stored fleet with vehicles.
	SaveAll(ctx context.Context, vehicles []domain.Vehicle) error
	// SaveOne writes a single record. With appendRecord false the stored fleet is
	// replaced by this one vehicle.
	SaveOne(ctx context.Context, vehicle *domain.Vehicle, appendRecord bool) error
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	Delete(ctx context.Context, plate string) (bool, error)
}

type RentalPeriodRepository interface {
	LoadAll(ctx context.Context) (map[string][]domain.RentalPeriod, error)
	// Replace stores periods as the complete set for plate.
	Replace(ctx context.Context, plate string, periods []domain.RentalPeriod) error
	DeleteByVehicle(ctx context.Context, plate string) error
}

// Store groups the repositories a backend provides.
type Store interface {
	Vehicles() VehicleRepository
	RentalPeriods() RentalPeriodRepository
	Close() error
}
