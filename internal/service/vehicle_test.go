package service

import (
	"context"
	"fmt"
	"testing"

	"drivequest-fleet/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cargoVehicle(plate string, price float64, days int) *domain.Vehicle {
	return &domain.Vehicle{
		Plate:      plate,
		Model:      "Volvo FH",
		Year:       2020,
		DailyPrice: price,
		RentalDays: days,
		Available:  true,
		Kind:       domain.Cargo{LoadCapacityKg: 8000},
	}
}

func passengerVehicle(plate string, price float64, days, seats int) *domain.Vehicle {
	return &domain.Vehicle{
		Plate:      plate,
		Model:      "Sprinter",
		Year:       2018,
		DailyPrice: price,
		RentalDays: days,
		Available:  true,
		Kind:       domain.Passenger{PassengerCapacity: seats},
	}
}

func TestVehicleService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("Success normalizes plate", func(t *testing.T) {
		repo := new(MockVehicleRepo)
		svc := NewVehicleService(repo)

		input := cargoVehicle(" abcd12", 10000, 1)
		input.Available = false
		repo.On("SaveOne", ctx, mock.MatchedBy(func(v *domain.Vehicle) bool {
			return v.Plate == "ABCD12" && v.Available
		}), true).Return(nil)

		added, err := svc.Add(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "ABCD12", added.Plate)
		assert.True(t, added.Available)
		assert.True(t, svc.Exists(ctx, "abcd12"))
		repo.AssertExpectations(t)
	})

	t.Run("Duplicate plate", func(t *testing.T) {
		repo := new(MockVehicleRepo)
		svc := NewVehicleService(repo)
		repo.On("SaveOne", ctx, mock.Anything, true).Return(nil).Once()

		_, err := svc.Add(ctx, cargoVehicle("ABCD12", 10000, 1))
		require.NoError(t, err)
		_, err = svc.Add(ctx, cargoVehicle("abcd12", 20000, 2))
		assert.ErrorIs(t, err, domain.ErrDuplicatePlate)
		repo.AssertNumberOfCalls(t, "SaveOne", 1)
	})

	t.Run("Invalid vehicle never reaches the repository", func(t *testing.T) {
		repo := new(MockVehicleRepo)
		svc := NewVehicleService(repo)

		_, err := svc.Add(ctx, cargoVehicle("ABCD12", -1, 1))
		assert.ErrorIs(t, err, domain.ErrInvalidVehicle)
		repo.AssertNotCalled(t, "SaveOne", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Persistence failure leaves registry untouched", func(t *testing.T) {
		repo := new(MockVehicleRepo)
		svc := NewVehicleService(repo)
		repo.On("SaveOne", ctx, mock.Anything, true).Return(fmt.Errorf("%w: disk full", domain.ErrPersistence))

		_, err := svc.Add(ctx, cargoVehicle("ABCD12", 10000, 1))
		assert.ErrorIs(t, err, domain.ErrPersistence)
		assert.False(t, svc.Exists(ctx, "ABCD12"))
	})
}

func TestVehicleService_FindByPlateReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := new(MockVehicleRepo)
	svc := NewVehicleService(repo)
	repo.On("SaveOne", ctx, mock.Anything, true).Return(nil)

	_, err := svc.Add(ctx, cargoVehicle("ABCD12", 10000, 1))
	require.NoError(t, err)

	v, err := svc.FindByPlate(ctx, "abcd12")
	require.NoError(t, err)
	v.DailyPrice = 1

	again, err := svc.FindByPlate(ctx, "ABCD12")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, again.DailyPrice)

	_, err = svc.FindByPlate(ctx, "ZZZZ99")
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
}

func TestVehicleService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockVehicleRepo)
	svc := NewVehicleService(repo)
	repo.On("SaveOne", ctx, mock.Anything, true).Return(nil)
	_, err := svc.Add(ctx, cargoVehicle("ABCD12", 10000, 1))
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		repo.On("Update", ctx, mock.Anything).Return(nil).Once()

		updated := cargoVehicle("abcd12", 15000, 3)
		require.NoError(t, svc.Update(ctx, updated))

		v, _ := svc.FindByPlate(ctx, "ABCD12")
		assert.Equal(t, 15000.0, v.DailyPrice)
		assert.Equal(t, 3, v.RentalDays)
	})

	t.Run("Not found", func(t *testing.T) {
		err := svc.Update(ctx, cargoVehicle("ZZZZ99", 1000, 1))
		assert.ErrorIs(t, err, domain.ErrVehicleNotFound)
	})

	t.Run("Persistence failure keeps previous record", func(t *testing.T) {
		repo.On("Update", ctx, mock.Anything).Return(fmt.Errorf("%w: locked", domain.ErrPersistence)).Once()

		err := svc.Update(ctx, cargoVehicle("ABCD12", 99999, 9))
		assert.ErrorIs(t, err, domain.ErrPersistence)

		v, _ := svc.FindByPlate(ctx, "ABCD12")
		assert.Equal(t, 15000.0, v.DailyPrice)
	})

	t.Run("Invalid update", func(t *testing.T) {
		err := svc.Update(ctx, cargoVehicle("ABCD12", 10000, 0))
		assert.ErrorIs(t, err, domain.ErrInvalidVehicle)
	})
}

func TestVehicleService_Remove(t *testing.T) {
	ctx := context.Background()
	repo := new(MockVehicleRepo)
	svc := NewVehicleService(repo)
	repo.On("SaveOne", ctx, mock.Anything, true).Return(nil)
	repo.On("Delete", ctx, "EFGH34").Return(true, nil)

	for _, plate := range []string{"ABCD12", "EFGH34", "IJKL56"} {
		_, err := svc.Add(ctx, cargoVehicle(plate, 10000, 1))
		require.NoError(t, err)
	}

	removed, err := svc.Remove(ctx, "efgh34")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove(ctx, "EFGH34")
	require.NoError(t, err)
	assert.False(t, removed)

	var plates []string
	for _, v := range svc.List(ctx) {
		plates = append(plates, v.Plate)
	}
	assert.Equal(t, []string{"ABCD12", "IJKL56"}, plates)
	repo.AssertNumberOfCalls(t, "Delete", 1)
}

func TestVehicleService_QueriesAndStats(t *testing.T) {
	ctx := context.Background()
	repo := new(MockVehicleRepo)
	svc := NewVehicleService(repo)
	repo.On("SaveOne", ctx, mock.Anything, true).Return(nil)

	vehicles := []*domain.Vehicle{
		cargoVehicle("ABCD12", 10000, 1),
		cargoVehicle("EFGH34", 30000, 10),
		passengerVehicle("IJKL56", 20000, 7, 12),
	}
	for _, v := range vehicles {
		_, err := svc.Add(ctx, v)
		require.NoError(t, err)
	}

	t.Run("Long term", func(t *testing.T) {
		long := svc.ListLongTerm(ctx)
		require.Len(t, long, 2)
		assert.Equal(t, "EFGH34", long[0].Plate)
	})

	t.Run("Query", func(t *testing.T) {
		assert.Len(t, svc.Query(ctx, domain.VehicleQuery{Type: domain.VehicleTypeCargo}), 2)
		assert.Len(t, svc.Query(ctx, domain.VehicleQuery{MinPrice: 15000, MaxPrice: 25000}), 1)
		assert.Len(t, svc.Query(ctx, domain.VehicleQuery{Year: 2018}), 1)
		assert.Empty(t, svc.Query(ctx, domain.VehicleQuery{Year: 1999}))
	})

	t.Run("Stats", func(t *testing.T) {
		stats := svc.Stats(ctx)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 2, stats.LongTermCount)
		assert.Equal(t, 0, stats.RentedCount)
		assert.Equal(t, 10000.0, stats.MinPrice)
		assert.Equal(t, 30000.0, stats.MaxPrice)
		assert.Equal(t, 60000.0, stats.SumPrice)
		assert.Equal(t, 20000.0, stats.AvgPrice)
		assert.Equal(t, 2, stats.ByType[domain.VehicleTypeCargo])
		assert.Equal(t, 1, stats.ByType[domain.VehicleTypePassenger])
		assert.Equal(t, 2, stats.ByYear[2020])
	})

	t.Run("Empty stats", func(t *testing.T) {
		stats := NewVehicleService(new(MockVehicleRepo)).Stats(ctx)
		assert.Zero(t, stats.Total)
		assert.Zero(t, stats.AvgPrice)
	})
}

func TestVehicleService_Load(t *testing.T) {
	ctx := context.Background()
	repo := new(MockVehicleRepo)
	svc := NewVehicleService(repo)

	invalid := *cargoVehicle("EFGH34", 0, 1)
	records := []domain.Vehicle{
		*cargoVehicle("abcd12", 10000, 1),
		invalid,
		*passengerVehicle("IJKL56", 20000, 2, 9),
		*cargoVehicle("ABCD12", 5000, 1),
	}
	repo.On("LoadAll", ctx).Return(records, nil)

	report, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Loaded)
	require.Len(t, report.Skipped, 2)
	assert.Equal(t, "EFGH34", report.Skipped[0].Plate)
	assert.Contains(t, report.Skipped[0].Reason, "daily_price")
	assert.Equal(t, "ABCD12", report.Skipped[1].Plate)
	assert.Contains(t, report.Skipped[1].Reason, "duplicate")

	v, err := svc.FindByPlate(ctx, "ABCD12")
	require.NoError(t, err)
	assert.Equal(t, 10000.0, v.DailyPrice)

	t.Run("Repository failure", func(t *testing.T) {
		failing := new(MockVehicleRepo)
		failing.On("LoadAll", ctx).Return(nil, fmt.Errorf("%w: unreadable", domain.ErrPersistence))
		_, err := NewVehicleService(failing).Load(ctx)
		assert.ErrorIs(t, err, domain.ErrPersistence)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		failing := new(MockVehicleRepo)
		failing.On("LoadAll", cctx).Return(records, nil)
		_, err := NewVehicleService(failing).Load(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestVehicleService_SaveAll(t *testing.T) {
	ctx := context.Background()
	repo := new(MockVehicleRepo)
	svc := NewVehicleService(repo)
	repo.On("SaveOne", ctx, mock.Anything, true).Return(nil)
	_, err := svc.Add(ctx, cargoVehicle("ABCD12", 10000, 1))
	require.NoError(t, err)

	repo.On("SaveAll", ctx, mock.MatchedBy(func(vs []domain.Vehicle) bool {
		return len(vs) == 1 && vs[0].Plate == "ABCD12"
	})).Return(nil)

	assert.NoError(t, svc.SaveAll(ctx))
	repo.AssertExpectations(t)
}
