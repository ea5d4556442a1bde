package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/rateboard/internal/display"
	"github.com/vbonduro/rateboard/internal/rotation"
)

func newDisplayCommand(a *app) *cobra.Command {
	var serverURL string

	c := &cobra.Command{
		Use:   "display",
		Short: "Run the board display against a server",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if serverURL == "" {
				serverURL = a.cfg.DisplayServerURL
			}
			a.logger.Info("starting display", "server", serverURL, "poll_interval", a.cfg.DisplayPollInterval)
			display.Run(c.Context(), display.NewClient(serverURL), rotation.RealClock{}, a.cfg.DisplayPollInterval, os.Stdout, a.logger)
			return nil
		},
	}
	c.Flags().StringVar(&serverURL, "server", "", "server base URL (defaults to DISPLAY_SERVER_URL)")
	return c
}
