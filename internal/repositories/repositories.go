package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/store"
)

// Store keys of the persisted collections.
const (
	KeyAccounts      = "accounts"
	KeyActiveSession = "active_session"
	KeyReleases      = "releases"
	KeyTickets       = "tickets"
	KeyUITheme       = "ui_theme"
)

// Collection implements [models.Repository] for records stored as one JSON array under key.
type Collection[T models.Record] struct {
	store    store.Store
	key      string
	name     string
	validate func(T) error
}

var (
	_ models.Repository[models.Account] = (*Collection[models.Account])(nil)
	_ models.Repository[models.Release] = (*Collection[models.Release])(nil)
	_ models.Repository[models.Ticket]  = (*Collection[models.Ticket])(nil)
)

// NewCollection creates a new [Collection] over key. name is used in error messages.
func NewCollection[T models.Record](s store.Store, key, name string) *Collection[T] {
	return &Collection[T]{store: s, key: key, name: name}
}

// Validated makes every record written through Append and Modify pass fn first.
func (c *Collection[T]) Validated(fn func(T) error) *Collection[T] {
	c.validate = fn
	return c
}

// List returns every record in insertion order
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	data, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	return c.decode(data)
}

// Get returns the record with key
func (c *Collection[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T

	records, err := c.List(ctx)
	if err != nil {
		return zero, err
	}

	idx := index(records, key)
	if idx < 0 {
		return zero, c.notFound(key)
	}
	return records[idx], nil
}

// Append adds model at the end of the collection, failing when its key is taken
func (c *Collection[T]) Append(ctx context.Context, model T) error {
	if err := c.check(model); err != nil {
		return err
	}
	return c.Mutate(ctx, func(records []T) ([]T, error) {
		if index(records, model.Key()) >= 0 {
			return nil, fmt.Errorf("%w: %s %s", shared.ErrDuplicate, c.name, model.Key())
		}
		return append(records, model), nil
	})
}

// Replace swaps the record sharing model's key, keeping its position
func (c *Collection[T]) Replace(ctx context.Context, model T) error {
	return c.Modify(ctx, model.Key(), func(T) (T, error) { return model, nil })
}

// RemoveByKey deletes exactly the record with key
func (c *Collection[T]) RemoveByKey(ctx context.Context, key string) error {
	return c.RemoveIf(ctx, key, func(T) error { return nil })
}

// Modify applies fn to the record with key and stores the result in its place.
//
// The lookup, fn and the write happen in one atomic update; an error from fn leaves the collection unchanged.
func (c *Collection[T]) Modify(ctx context.Context, key string, fn func(T) (T, error)) error {
	return c.Mutate(ctx, func(records []T) ([]T, error) {
		idx := index(records, key)
		if idx < 0 {
			return nil, c.notFound(key)
		}

		next, err := fn(records[idx])
		if err != nil {
			return nil, err
		}
		if next.Key() != key {
			return nil, fmt.Errorf("%w: %s key cannot change from %s to %s", shared.ErrValidation, c.name, key, next.Key())
		}
		if err := c.check(next); err != nil {
			return nil, err
		}

		records[idx] = next
		return records, nil
	})
}

// RemoveIf deletes the record with key when check accepts it.
func (c *Collection[T]) RemoveIf(ctx context.Context, key string, check func(T) error) error {
	return c.Mutate(ctx, func(records []T) ([]T, error) {
		idx := index(records, key)
		if idx < 0 {
			return nil, c.notFound(key)
		}
		if err := check(records[idx]); err != nil {
			return nil, err
		}
		return slices.Delete(records, idx, idx+1), nil
	})
}

// Mutate runs fn over the whole collection as one atomic read-modify-write.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	return c.store.Update(ctx, c.key, func(current []byte) ([]byte, error) {
		records, err := c.decode(current)
		if err != nil {
			return nil, err
		}

		next, err := fn(records)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}

		data, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s collection: %w", c.name, err)
		}
		return data, nil
	})
}

// Filter returns the records matching keep, in insertion order.
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	records, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(records, func(r T) bool { return !keep(r) }), nil
}

func (c *Collection[T]) decode(data []byte) ([]T, error) {
	records := []T{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s collection: %w", c.name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T]) check(model T) error {
	if c.validate == nil {
		return nil
	}
	if err := c.validate(model); err != nil {
		return fmt.Errorf("refusing to store %s %s: %w", c.name, model.Key(), err)
	}
	return nil
}

func (c *Collection[T]) notFound(key string) error {
	return fmt.Errorf("%w: %s %s", shared.ErrNotFound, c.name, key)
}

func index[T models.Record](records []T, key string) int {
	return slices.IndexFunc(records, func(r T) bool { return r.Key() == key })
}
