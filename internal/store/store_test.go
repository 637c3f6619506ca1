package store

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/desertthunder/kedoo/internal/shared"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	s := NewSQLiteStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func newFileStore(t *testing.T) *FileStore {
	t.Helper()

	s, err := NewFileStore(filepath.Join(t.TempDir(), "data", "kedoo.json"))
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// backends runs fn against every Store implementation.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteStore(t)) })
	t.Run("file", func(t *testing.T) { fn(t, newFileStore(t)) })
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Get missing key", func(t *testing.T) {
		backends(t, func(t *testing.T, s Store) {
			value, err := s.Get(ctx, "releases")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if value != nil {
				t.Errorf("expected nil value, got %s", value)
			}
		})
	})

	t.Run("Set then Get", func(t *testing.T) {
		backends(t, func(t *testing.T, s Store) {
			if err := s.Set(ctx, "ui_theme", []byte(`"light"`)); err != nil {
				t.Fatalf("failed to set: %v", err)
			}
			if err := s.Set(ctx, "ui_theme", []byte(`"dark"`)); err != nil {
				t.Fatalf("failed to overwrite: %v", err)
			}

			value, err := s.Get(ctx, "ui_theme")
			if err != nil {
				t.Fatalf("failed to get: %v", err)
			}
			if string(value) != `"dark"` {
				t.Errorf("expected \"dark\", got %s", value)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		backends(t, func(t *testing.T, s Store) {
			if err := s.Set(ctx, "active_session", []byte(`{"email":"a@x.com"}`)); err != nil {
				t.Fatalf("failed to set: %v", err)
			}
			if err := s.Delete(ctx, "active_session"); err != nil {
				t.Fatalf("failed to delete: %v", err)
			}
			if err := s.Delete(ctx, "active_session"); err != nil {
				t.Fatalf("deleting an absent key should succeed: %v", err)
			}

			value, _ := s.Get(ctx, "active_session")
			if value != nil {
				t.Errorf("expected key to be gone, got %s", value)
			}
		})
	})

	t.Run("Update error leaves value unchanged", func(t *testing.T) {
		backends(t, func(t *testing.T, s Store) {
			if err := s.Set(ctx, "tickets", []byte(`[]`)); err != nil {
				t.Fatalf("failed to set: %v", err)
			}

			boom := errors.New("boom")
			err := s.Update(ctx, "tickets", func([]byte) ([]byte, error) { return nil, boom })
			if !errors.Is(err, boom) {
				t.Fatalf("expected update error to be returned, got %v", err)
			}

			value, _ := s.Get(ctx, "tickets")
			if string(value) != `[]` {
				t.Errorf("expected value to be unchanged, got %s", value)
			}
		})
	})

	t.Run("Update sees current value", func(t *testing.T) {
		backends(t, func(t *testing.T, s Store) {
			var seen []byte
			err := s.Update(ctx, "accounts", func(current []byte) ([]byte, error) {
				seen = current
				return []byte(`[{"email":"a@x.com","password":"pw"}]`), nil
			})
			if err != nil {
				t.Fatalf("failed to update: %v", err)
			}
			if seen != nil {
				t.Errorf("expected nil current value on first update, got %s", seen)
			}

			err = s.Update(ctx, "accounts", func(current []byte) ([]byte, error) {
				seen = current
				return current, nil
			})
			if err != nil {
				t.Fatalf("failed to update: %v", err)
			}
			if len(seen) == 0 {
				t.Error("expected second update to see the stored value")
			}
		})
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		backends(t, func(t *testing.T, s Store) {
			const writers = 20

			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for range writers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- s.Update(ctx, "counter", func(current []byte) ([]byte, error) {
						return append(append([]byte{}, current...), '1'), nil
					})
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				if err != nil {
					t.Fatalf("update failed: %v", err)
				}
			}

			value, err := s.Get(ctx, "counter")
			if err != nil {
				t.Fatalf("failed to get: %v", err)
			}
			if len(value) != writers {
				t.Errorf("expected %d writes, got %d (%s)", writers, len(value), value)
			}
		})
	})
}

func TestSQLiteStoreRevision(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	if rev, err := s.Revision(ctx, "releases"); err != nil || rev != 0 {
		t.Fatalf("expected revision 0 for absent key, got %d/%v", rev, err)
	}

	for range 3 {
		if err := s.Set(ctx, "releases", []byte(`[]`)); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
	}

	rev, err := s.Revision(ctx, "releases")
	if err != nil {
		t.Fatalf("failed to read revision: %v", err)
	}
	if rev != 3 {
		t.Errorf("expected revision 3, got %d", rev)
	}
}

func TestFileStoreRejectsInvalidJSON(t *testing.T) {
	s := newFileStore(t)

	if err := s.Set(context.Background(), "releases", []byte("not json")); err == nil {
		t.Error("expected invalid JSON to be rejected")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(io.Discard)

	t.Run("sqlite", func(t *testing.T) {
		cfg := shared.StoreConfig{Driver: shared.StoreDriverSQLite, Path: ":memory:"}
		s, err := Open(ctx, cfg, logger)
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		defer s.Close()

		if _, ok := s.(*SQLiteStore); !ok {
			t.Errorf("expected *SQLiteStore, got %T", s)
		}
	})

	t.Run("file", func(t *testing.T) {
		cfg := shared.StoreConfig{Driver: shared.StoreDriverFile, Path: filepath.Join(t.TempDir(), "kedoo.json")}
		s, err := Open(ctx, cfg, logger)
		if err != nil {
			t.Fatalf("failed to open: %v", err)
		}
		defer s.Close()

		if _, ok := s.(*FileStore); !ok {
			t.Errorf("expected *FileStore, got %T", s)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, shared.StoreConfig{Driver: "redis", Path: "x"}, logger)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected invalid config error, got %v", err)
		}
	})
}
