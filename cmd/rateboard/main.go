package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vbonduro/rateboard/internal/config"
	"github.com/vbonduro/rateboard/internal/logging"
)

// app holds what every subcommand needs once the root has initialised it.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	cleanup func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{cleanup: func() {}}

	root := &cobra.Command{
		Use:           "rateboard",
		Short:         "Gold and silver rate display board",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, cleanup, err := logging.New(logging.Options{
				Level:      cfg.LogLevel,
				File:       cfg.LogFile,
				MaxSizeMB:  cfg.LogMaxSizeMB,
				MaxBackups: cfg.LogMaxBackups,
				MaxAgeDays: cfg.LogMaxAgeDays,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg, a.logger, a.cleanup = cfg, logger, cleanup
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.cleanup()
		},
	}

	root.AddCommand(
		newServeCommand(a),
		newDisplayCommand(a),
		newMigrateCommand(a),
	)
	return root
}
