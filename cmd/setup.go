package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/kedoo/internal/shared"
)

// SetupDatabase writes the example config when none exists, then opens the configured store.
//
// Opening a sqlite store runs pending migrations; a file store is created empty.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if config, err := shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load created config, using defaults", "error", err)
		} else {
			r.config = config
		}
	}

	r.logger.Info("initializing store", "driver", r.config.Store.Driver, "path", r.config.Store.Path)
	if err := r.connect(ctx); err != nil {
		return err
	}

	r.logger.Infof("setup complete for store: %v", r.config.Store.Path)
	return r.writePlain("%s store ready at %s\n", r.palette.Success("✓"), r.config.Store.Path)
}

// SetupStatus lists applied migrations of the sqlite store.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := shared.AppliedMigrations(ctx, db)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		return r.writePlain("No migrations applied\n")
	}
	for _, m := range applied {
		r.writePlain("%04d  applied %s\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// SetupRollback reverts the most recent migration of the sqlite store.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RollbackMigration(ctx, db); err != nil {
		return err
	}
	r.logger.Warn("rolled back migration", "path", r.config.Store.Path)
	return r.writePlain("%s rolled back the latest migration\n", r.palette.Success("✓"))
}

func (r *Runner) openDatabase() (*sql.DB, error) {
	if r.config.Store.Driver != shared.StoreDriverSQLite {
		return nil, fmt.Errorf("%w: migrations only apply to the sqlite store, got %q", shared.ErrInvalidConfig, r.config.Store.Driver)
	}
	return shared.NewDatabase(r.config.Store.Path)
}
