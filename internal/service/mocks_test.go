package service

import (
	"context"

	"drivequest-fleet/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) LoadAll(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) SaveAll(ctx context.Context, vehicles []domain.Vehicle) error {
	args := m.Called(ctx, vehicles)
	return args.Error(0)
}
func (m *MockVehicleRepo) SaveOne(ctx context.Context, vehicle *domain.Vehicle, appendRecord bool) error {
	args := m.Called(ctx, vehicle, appendRecord)
	return args.Error(0)
}
func (m *MockVehicleRepo) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) Delete(ctx context.Context, plate string) (bool, error) {
	args := m.Called(ctx, plate)
	return args.Bool(0), args.Error(1)
}

// MockRentalPeriodRepo
type MockRentalPeriodRepo struct {
	mock.Mock
}

func (m *MockRentalPeriodRepo) LoadAll(ctx context.Context) (map[string][]domain.RentalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.RentalPeriod), args.Error(1)
}
func (m *MockRentalPeriodRepo) Replace(ctx context.Context, plate string, periods []domain.RentalPeriod) error {
	args := m.Called(ctx, plate, periods)
	return args.Error(0)
}
func (m *MockRentalPeriodRepo) DeleteByVehicle(ctx context.Context, plate string) error {
	args := m.Called(ctx, plate)
	return args.Error(0)
}

// MockRecorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordBooking(operation, outcome string) {
	m.Called(operation, outcome)
}
func (m *MockRecorder) RecordFleet(stats domain.FleetStats) {
	m.Called(stats)
}
