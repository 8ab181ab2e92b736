package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

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
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ("+strings.Join(jobs.JobNames(), ", ")+")")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DriveQuest cronjob runner...", "log_level", cfg.Log.Level)

	recorder, err := metrics.NewPromRecorder(nil)
	if err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	fleet, err := app.New(context.Background(), cfg, recorder)
	if err != nil {
		logger.Error("Failed to initialize fleet", "error", err)
		log.Fatalf("Failed to initialize fleet: %v", err)
	}
	defer fleet.Close()

	jobRunner := jobs.NewJobRunner(fleet.Vehicles, fleet.Fleet, recorder, cfg)
	if cfg.Storage.Type == config.StorageTypeFile {
		// The server or fleetctl owns the flat files; reload them so a
		// snapshot never writes back the registry as it was at start-up.
		jobRunner.WithRefresh(func(ctx context.Context) error {
			if _, err := fleet.Vehicles.Load(ctx); err != nil {
				return err
			}
			return fleet.Fleet.RestorePeriods(ctx)
		})
	}

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.RunOnce(*runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			fmt.Fprintf(os.Stderr, "Available jobs: %s\n", strings.Join(jobs.JobNames(), ", "))
			fleet.Close()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to schedule jobs: %v", err)
	}
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}
