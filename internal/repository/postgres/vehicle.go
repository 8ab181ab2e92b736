package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/repository"

	"github.com/lib/pq"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

const upsertVehicleQuery = `INSERT INTO vehicles (plate, kind, model, year, daily_price, rental_days, capacity, available)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (plate) DO UPDATE SET kind = EXCLUDED.kind, model = EXCLUDED.model, year = EXCLUDED.year,
	daily_price = EXCLUDED.daily_price, rental_days = EXCLUDED.rental_days, capacity = EXCLUDED.capacity, available = EXCLUDED.available`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertVehicle(ctx context.Context, ex execer, v *domain.Vehicle) error {
	_, err := ex.ExecContext(ctx, upsertVehicleQuery, v.Plate, string(v.Type()), v.Model, v.Year, v.DailyPrice, v.RentalDays, v.Kind.Capacity(), v.Available)
	return err
}

func (r *vehicleRepository) LoadAll(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT plate, kind, model, year, daily_price, rental_days, capacity, available FROM vehicles ORDER BY created_on, plate`
	logger.StoreCall(backendName, "vehicles.LoadAll", "query", query)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.StoreResult(backendName, "vehicles.LoadAll", 0, err)
		return nil, persistenceError("load vehicles", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var (
			v        domain.Vehicle
			kind     string
			capacity int
		)
		if err := rows.Scan(&v.Plate, &kind, &v.Model, &v.Year, &v.DailyPrice, &v.RentalDays, &capacity, &v.Available); err != nil {
			return nil, persistenceError("scan vehicle", err)
		}
		k, ok := domain.KindOf(domain.VehicleType(kind), capacity)
		if !ok {
			return nil, persistenceError("scan vehicle", fmt.Errorf("plate %s has unknown kind %q", v.Plate, kind))
		}
		v.Kind = k
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("load vehicles", err)
	}
	logger.StoreResult(backendName, "vehicles.LoadAll", int64(len(vehicles)), nil)
	return vehicles, nil
}

func (r *vehicleRepository) SaveAll(ctx context.Context, vehicles []domain.Vehicle) error {
	logger.StoreCall(backendName, "vehicles.SaveAll", "count", len(vehicles))
	err := r.saveAll(ctx, vehicles)
	logger.StoreResult(backendName, "vehicles.SaveAll", int64(len(vehicles)), err)
	return err
}

func (r *vehicleRepository) saveAll(ctx context.Context, vehicles []domain.Vehicle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceError("begin save all", err)
	}
	defer tx.Rollback()

	plates := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		plates = append(plates, v.Plate)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vehicles WHERE NOT (plate = ANY($1))`, pq.Array(plates)); err != nil {
		return persistenceError("prune vehicles", err)
	}
	for i := range vehicles {
		if err := upsertVehicle(ctx, tx, &vehicles[i]); err != nil {
			return persistenceError("save vehicle "+vehicles[i].Plate, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return persistenceError("commit save all", err)
	}
	return nil
}

func (r *vehicleRepository) SaveOne(ctx context.Context, v *domain.Vehicle, appendRecord bool) error {
	logger.StoreCall(backendName, "vehicles.SaveOne", "plate", v.Plate, "append", appendRecord)
	var err error
	if appendRecord {
		if err = upsertVehicle(ctx, r.db, v); err != nil {
			err = persistenceError("save vehicle "+v.Plate, err)
		}
	} else {
		err = r.saveAll(ctx, []domain.Vehicle{*v})
	}
	logger.StoreResult(backendName, "vehicles.SaveOne", 1, err)
	return err
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles SET kind=$1, model=$2, year=$3, daily_price=$4, rental_days=$5, capacity=$6, available=$7 WHERE plate=$8`
	logger.StoreCall(backendName, "vehicles.Update", "plate", v.Plate)

	res, err := r.db.ExecContext(ctx, query, string(v.Type()), v.Model, v.Year, v.DailyPrice, v.RentalDays, v.Kind.Capacity(), v.Available, v.Plate)
	if err != nil {
		logger.StoreResult(backendName, "vehicles.Update", 0, err)
		return persistenceError("update vehicle "+v.Plate, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistenceError("update vehicle "+v.Plate, err)
	}
	logger.StoreResult(backendName, "vehicles.Update", n, nil)
	if n == 0 {
		return fmt.Errorf("update %s: %w", v.Plate, domain.ErrVehicleNotFound)
	}
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, plate string) (bool, error) {
	query := `DELETE FROM vehicles WHERE plate = $1`
	logger.StoreCall(backendName, "vehicles.Delete", "plate", plate)

	res, err := r.db.ExecContext(ctx, query, plate)
	if err != nil {
		logger.StoreResult(backendName, "vehicles.Delete", 0, err)
		return false, persistenceError("delete vehicle "+plate, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, persistenceError("delete vehicle "+plate, err)
	}
	logger.StoreResult(backendName, "vehicles.Delete", n, nil)
	return n > 0, nil
}
