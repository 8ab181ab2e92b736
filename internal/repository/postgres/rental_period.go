package postgres

import (
	"context"
	"database/sql"
	"time"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/repository"
)

type rentalPeriodRepository struct {
	db *sql.DB
}

func NewRentalPeriodRepository(db *sql.DB) repository.RentalPeriodRepository {
	return &rentalPeriodRepository{db: db}
}

func (r *rentalPeriodRepository) LoadAll(ctx context.Context) (map[string][]domain.RentalPeriod, error) {
	query := `SELECT plate, start_date, end_date FROM rental_periods ORDER BY plate, start_date`
	logger.StoreCall(backendName, "rental_periods.LoadAll", "query", query)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.StoreResult(backendName, "rental_periods.LoadAll", 0, err)
		return nil, persistenceError("load rental periods", err)
	}
	defer rows.Close()

	byPlate := make(map[string][]domain.RentalPeriod)
	var count int64
	for rows.Next() {
		var (
			plate      string
			start, end time.Time
		)
		if err := rows.Scan(&plate, &start, &end); err != nil {
			return nil, persistenceError("scan rental period", err)
		}
		byPlate[plate] = append(byPlate[plate], domain.RentalPeriod{
			Plate: plate,
			Start: domain.DateOf(start),
			End:   domain.DateOf(end),
		})
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("load rental periods", err)
	}
	logger.StoreResult(backendName, "rental_periods.LoadAll", count, nil)
	return byPlate, nil
}

func (r *rentalPeriodRepository) Replace(ctx context.Context, plate string, periods []domain.RentalPeriod) error {
	logger.StoreCall(backendName, "rental_periods.Replace", "plate", plate, "count", len(periods))
	err := r.replace(ctx, plate, periods)
	logger.StoreResult(backendName, "rental_periods.Replace", int64(len(periods)), err)
	return err
}

func (r *rentalPeriodRepository) replace(ctx context.Context, plate string, periods []domain.RentalPeriod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceError("begin replace rental periods", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rental_periods WHERE plate = $1`, plate); err != nil {
		return persistenceError("clear rental periods of "+plate, err)
	}
	for _, p := range periods {
		_, err := tx.ExecContext(ctx, `INSERT INTO rental_periods (plate, start_date, end_date) VALUES ($1, $2, $3)`,
			plate, p.Start.Time(), p.End.Time())
		if err != nil {
			return persistenceError("insert rental period of "+plate, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return persistenceError("commit rental periods of "+plate, err)
	}
	return nil
}

func (r *rentalPeriodRepository) DeleteByVehicle(ctx context.Context, plate string) error {
	query := `DELETE FROM rental_periods WHERE plate = $1`
	logger.StoreCall(backendName, "rental_periods.DeleteByVehicle", "plate", plate)

	res, err := r.db.ExecContext(ctx, query, plate)
	if err != nil {
		logger.StoreResult(backendName, "rental_periods.DeleteByVehicle", 0, err)
		return persistenceError("delete rental periods of "+plate, err)
	}
	n, _ := res.RowsAffected()
	logger.StoreResult(backendName, "rental_periods.DeleteByVehicle", n, nil)
	return nil
}
