// Package app assembles the fleet services from configuration. The server,
// the cron runner and the CLI all start from here.
package app

import (
	"context"
	"errors"
	"fmt"

	"drivequest-fleet/internal/config"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/rentalperiod"
	"drivequest-fleet/internal/repository"
	"drivequest-fleet/internal/repository/flatfile"
	"drivequest-fleet/internal/repository/postgres"
	"drivequest-fleet/internal/service"
)

type App struct {
	Config   *config.Config
	Store    repository.Store
	Tracker  *rentalperiod.Tracker
	Vehicles service.VehicleService
	Fleet    service.FleetService
	Invoices service.InvoiceService
}

// OpenStore returns the storage backend named by cfg.Storage.Type. The
// Postgres schema is created if missing.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Storage.Type {
	case config.StorageTypeFile:
		logger.Info("Using flat-file storage", "vehicles", cfg.VehiclesPath(), "rentals", cfg.RentalsPath())
		return flatfile.NewStore(cfg.VehiclesPath(), cfg.RentalsPath()), nil
	case config.StorageTypePostgres:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		store, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			return nil, errors.Join(err, store.Close())
		}
		logger.Info("Database connection established")
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
}

// New opens the store, loads the registry and restores booked periods.
// recorder may be nil.
func New(ctx context.Context, cfg *config.Config, recorder service.BookingRecorder) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a, err := build(ctx, cfg, store, recorder)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, store repository.Store, recorder service.BookingRecorder) (*App, error) {
	vehicles := service.NewVehicleService(store.Vehicles())
	report, err := vehicles.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vehicles: %w", err)
	}
	logger.Info("Fleet loaded", "vehicles", report.Loaded, "skipped", len(report.Skipped))

	tracker := rentalperiod.NewTracker()
	fleet := service.NewFleetService(vehicles, tracker, store.RentalPeriods(), recorder)
	if err := fleet.RestorePeriods(ctx); err != nil {
		return nil, fmt.Errorf("restore rental periods: %w", err)
	}

	return &App{
		Config:   cfg,
		Store:    store,
		Tracker:  tracker,
		Vehicles: vehicles,
		Fleet:    fleet,
		Invoices: service.NewInvoiceService(vehicles, cfg.Rates()),
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}
