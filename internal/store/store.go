// package store provides the key-value store every collection is persisted in.
//
// Each key holds one JSON document. Mutations go through [Store.Update], which reads the current value,
// applies a function and writes the result back as one atomic step.
package store

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/kedoo/internal/shared"
)

// UpdateFunc receives the current value of a key (nil when absent) and returns its replacement.
//
// Returning a nil value removes the key. Returning an error aborts the update and leaves the store unchanged.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is a durable key-value store.
type Store interface {
	// Get returns the value at key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value at key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Absent keys are not an error.
	Delete(ctx context.Context, key string) error
	// Update performs an atomic read-modify-write of key.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}

// Open builds the [Store] selected by cfg.Driver.
//
// The sqlite driver runs pending migrations before returning.
func Open(ctx context.Context, cfg shared.StoreConfig, logger *log.Logger) (Store, error) {
	switch cfg.Driver {
	case shared.StoreDriverSQLite:
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, err
		}
		shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

		if err := shared.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		logger.Debug("opened sqlite store", "path", cfg.Path)
		return NewSQLiteStore(db), nil
	case shared.StoreDriverFile:
		s, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.Debug("opened file store", "path", cfg.Path)
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", shared.ErrInvalidConfig, cfg.Driver)
	}
}
