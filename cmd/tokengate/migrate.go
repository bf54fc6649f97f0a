package main

import (
	"context"

	"tokengate/config"
	"tokengate/internal/domain/lifecycle"
	"tokengate/internal/errors"
	logs "tokengate/internal/infra/log"
	"tokengate/internal/infra/persistence/postgres"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Long:  `migrate applies the embedded SQL migrations to the configured PostgreSQL primary. "serve" runs the same migrations on startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}

			return runMigrate(cmd.Context(), cfg)
		},
	}
}

func runMigrate(ctx context.Context, cfg *config.Config) error {
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return errors.Errorf("migrate needs the postgres storage driver, got %q", cfg.Storage.Driver)
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	if err := postgres.Migrate(ctx, sqlDB); err != nil {
		return err
	}

	logger.Info("Migrations applied")

	return nil
}
