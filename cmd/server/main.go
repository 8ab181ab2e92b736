package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "drivequest-fleet/internal/api/http"
	"drivequest-fleet/internal/app"
	"drivequest-fleet/internal/config"
	"drivequest-fleet/internal/jobs"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/metrics"
	"drivequest-fleet/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	envFile := flag.String("env-file", ".env", "Optional .env file with overrides")
	withScheduler := flag.Bool("scheduler", true, "Run the cron jobs inside the server process")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadWithEnvFile(*configPath, *envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DriveQuest fleet server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "storage", cfg.Storage.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, err := metrics.NewPromRecorder(nil)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	fleet, err := app.New(ctx, cfg, recorder)
	if err != nil {
		logger.Error("Failed to initialize fleet", "error", err)
		log.Fatalf("Failed to initialize fleet: %v", err)
	}
	defer fleet.Close()
	recorder.RecordFleet(fleet.Vehicles.Stats(ctx))

	var cronScheduler *scheduler.Scheduler
	if *withScheduler {
		runner := jobs.NewJobRunner(fleet.Vehicles, fleet.Fleet, recorder, cfg)
		if cronScheduler, err = scheduler.NewScheduler(runner); err != nil {
			log.Fatalf("Failed to schedule jobs: %v", err)
		}
		cronScheduler.Start()
	}

	handler := httpapi.NewHandler(fleet.Vehicles, fleet.Fleet, fleet.Invoices)
	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(handler, recorder, metrics.Handler(nil)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error("HTTP server failed", "error", err)
		}
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	if err := fleet.Vehicles.SaveAll(shutdownCtx); err != nil {
		logger.Error("Final fleet snapshot failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
