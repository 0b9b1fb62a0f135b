package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/hiring-portal/internal/config"
	"github.com/example/hiring-portal/internal/persistence/sqlite"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}

			if cfg.Storage != config.StorageSQLite {
				return fmt.Errorf("migrate requires %s storage, got %s", config.StorageSQLite, cfg.Storage)
			}

			storage, err := sqlite.Open(cfg.SQLiteDSN)
			if err != nil {
				return err
			}
			defer storage.Close()

			if err := storage.Migrate(cmd.Context()); err != nil {
				logger.Error("failed to apply migrations", "error", err)
				return err
			}

			applied, err := storage.AppliedMigrations(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("database migrations completed", "applied", len(applied))
			for _, version := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			}
			return nil
		},
	}
}
