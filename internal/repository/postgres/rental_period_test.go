package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func march(day int) domain.Date {
	return domain.NewDate(2024, time.March, day)
}

func TestRentalPeriodRepository_LoadAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalPeriodRepository(db)

	mock.ExpectQuery("SELECT plate, start_date, end_date FROM rental_periods").
		WillReturnRows(sqlmock.NewRows([]string{"plate", "start_date", "end_date"}).
			AddRow("ABCD12", march(1).Time(), march(5).Time()).
			AddRow("ABCD12", march(10).Time(), march(12).Time()).
			AddRow("EFGH34", march(2).Time(), march(2).Time()))

	byPlate, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, byPlate["ABCD12"], 2)
	assert.Equal(t, domain.RentalPeriod{Plate: "EFGH34", Start: march(2), End: march(2)}, byPlate["EFGH34"][0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalPeriodRepository_Replace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalPeriodRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM rental_periods WHERE plate = \\$1").
			WithArgs("ABCD12").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO rental_periods").
			WithArgs("ABCD12", march(1).Time(), march(9).Time()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Replace(ctx, "ABCD12", []domain.RentalPeriod{{Start: march(1), End: march(9)}})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM rental_periods").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO rental_periods").WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		err := repo.Replace(ctx, "ABCD12", []domain.RentalPeriod{{Start: march(1), End: march(9)}})
		assert.ErrorIs(t, err, domain.ErrPersistence)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalPeriodRepository_DeleteByVehicle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalPeriodRepository(db)

	mock.ExpectExec("DELETE FROM rental_periods WHERE plate = \\$1").
		WithArgs("ABCD12").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteByVehicle(context.Background(), "ABCD12"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
