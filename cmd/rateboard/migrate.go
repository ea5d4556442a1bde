package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/rateboard/internal/db"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			database, err := db.Open(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			version, dirty, err := db.Version(database)
			if err != nil {
				return err
			}
			a.logger.Info("database migrated", "path", a.cfg.DBPath, "version", version, "dirty", dirty)
			_, err = fmt.Fprintf(c.OutOrStdout(), "schema version %d\n", version)
			return err
		},
	}
}
