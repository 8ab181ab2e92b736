package service

import (
	"context"

	"drivequest-fleet/internal/domain"
)

// VehicleService is the vehicle registry. Plates are normalized on the way in
// and every returned vehicle is a copy.
type VehicleService interface {
	Add(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	List(ctx context.Context) []domain.Vehicle
	ListLongTerm(ctx context.Context) []domain.Vehicle
	FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	Remove(ctx context.Context, plate string) (bool, error)
	Query(ctx context.Context, q domain.VehicleQuery) []domain.Vehicle
	Exists(ctx context.Context, plate string) bool
	Stats(ctx context.Context) domain.FleetStats
	Load(ctx context.Context) (*LoadReport, error)
	SaveAll(ctx context.Context) error
}

// FleetService keeps each vehicle's rental days and availability flag in
// step with its booked rental periods. A false result with a nil error means
// the dates were not available.
type FleetService interface {
	IsVehicleAvailable(ctx context.Context, plate string, start, end domain.Date) bool
	RentVehicle(ctx context.Context, plate string, start, end domain.Date) (bool, error)
	RentVehicleUntil(ctx context.Context, plate string, until domain.Date) (bool, error)
	RentVehicleFrom(ctx context.Context, plate string, from domain.Date, durationDays int) (bool, error)
	ExtendRental(ctx context.Context, plate string, originalEnd, newEnd domain.Date) (bool, error)
	FinishRental(ctx context.Context, plate string, start domain.Date) (bool, error)
	VehicleRentalPeriods(ctx context.Context, plate string) map[domain.Date]domain.Date
	UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	RemoveVehicle(ctx context.Context, plate string) (bool, error)
	RestorePeriods(ctx context.Context) error
	OverdueVehicles(ctx context.Context, today domain.Date) []domain.OverdueRental
}

type InvoiceService interface {
	Invoice(ctx context.Context, plate string) (*domain.Invoice, error)
	Summary(ctx context.Context, plate string) (string, error)
	Compare(ctx context.Context, firstPlate, secondPlate string) (*domain.CostComparison, error)
	AverageDailyCost(ctx context.Context, plate string) (float64, error)
}

// BookingRecorder receives booking outcomes and fleet totals. The Prometheus
// recorder in internal/metrics satisfies it.
type BookingRecorder interface {
	RecordBooking(operation, outcome string)
	RecordFleet(stats domain.FleetStats)
}
