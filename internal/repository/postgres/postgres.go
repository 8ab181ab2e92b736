package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/repository"

	_ "github.com/lib/pq"
)

const backendName = "postgres"

type Store struct {
	db       *sql.DB
	vehicles repository.VehicleRepository
	periods  repository.RentalPeriodRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		vehicles: NewVehicleRepository(db),
		periods:  NewRentalPeriodRepository(db),
	}
}

// Open connects with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", domain.ErrPersistence, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", domain.ErrPersistence, err)
	}
	return NewStore(db), nil
}

func (s *Store) Vehicles() repository.VehicleRepository {
	return s.vehicles
}

func (s *Store) RentalPeriods() repository.RentalPeriodRepository {
	return s.periods
}

func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
	plate       TEXT PRIMARY KEY,
	kind        TEXT NOT NULL CHECK (kind IN ('CARGO', 'PASSENGER')),
	model       TEXT NOT NULL,
	year        INTEGER NOT NULL,
	daily_price DOUBLE PRECISION NOT NULL,
	rental_days INTEGER NOT NULL,
	capacity    INTEGER NOT NULL,
	available   BOOLEAN NOT NULL DEFAULT TRUE,
	created_on  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS rental_periods (
	plate      TEXT NOT NULL REFERENCES vehicles (plate) ON DELETE CASCADE,
	start_date DATE NOT NULL,
	end_date   DATE NOT NULL CHECK (end_date >= start_date),
	PRIMARY KEY (plate, start_date)
);`

// Migrate creates the tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	logger.StoreCall(backendName, "Migrate")
	_, err := s.db.ExecContext(ctx, schema)
	logger.StoreResult(backendName, "Migrate", 0, err)
	if err != nil {
		return fmt.Errorf("%w: migrate: %v", domain.ErrPersistence, err)
	}
	return nil
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}
