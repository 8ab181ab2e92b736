package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"drivequest-fleet/internal/app"
	"drivequest-fleet/internal/config"
	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"
)

type rootOptions struct {
	configPath string
	dataDir    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Manage the DriveQuest vehicle fleet and its rentals",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (defaults apply when empty)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding the fleet data files")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(
		newVehiclesCmd(opts),
		newRentCmd(opts),
		newExtendCmd(opts),
		newFinishCmd(opts),
		newPeriodsCmd(opts),
		newStatsCmd(opts),
	)
	return cmd
}

// open loads configuration and the fleet. Logs go to stderr so command output
// stays parseable.
func (o *rootOptions) open(cmd *cobra.Command) (*app.App, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dataDir != "" {
		cfg.Storage.DataDir = o.dataDir
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger.InitializeWithWriter(level, "text", cmd.ErrOrStderr())

	return app.New(cmd.Context(), cfg, nil)
}

func closeApp(cmd *cobra.Command, a *app.App) {
	if err := a.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error while closing store: %v\n", err)
	}
}

func parseDateArg(name, value string) (domain.Date, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

