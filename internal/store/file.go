package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// FileStore implements [Store] as a single JSON object on disk, one member per key.
//
// Writers in the same process are serialized by a mutex; writers in other processes by an exclusive
// lock on a sibling ".lock" file. Files are replaced by rename so readers never see a partial write.
type FileStore struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// NewFileStore creates a new [FileStore] at path, creating its parent directory when needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &FileStore{path: path, lock: flock.New(path + ".lock")}, nil
}

// Get reads the value stored at key
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.locked(ctx, func(doc map[string]json.RawMessage) (bool, error) {
		value = doc[key]
		return false, nil
	})
	return value, err
}

// Set replaces the value at key
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	return s.Update(ctx, key, func([]byte) ([]byte, error) { return value, nil })
}

// Delete removes key
func (s *FileStore) Delete(ctx context.Context, key string) error {
	return s.Update(ctx, key, func([]byte) ([]byte, error) { return nil, nil })
}

// Update applies fn to the value at key while holding both locks.
func (s *FileStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return s.locked(ctx, func(doc map[string]json.RawMessage) (bool, error) {
		next, err := fn(doc[key])
		if err != nil {
			return false, err
		}
		if next == nil {
			delete(doc, key)
			return true, nil
		}
		if !json.Valid(next) {
			return false, fmt.Errorf("value for key %s is not valid JSON", key)
		}
		doc[key] = json.RawMessage(next)
		return true, nil
	})
}

// Close releases the lock file handle.
func (s *FileStore) Close() error {
	return s.lock.Unlock()
}

// locked loads the document under both locks, calls fn and writes the document back when fn reports a change.
func (s *FileStore) locked(ctx context.Context, fn func(map[string]json.RawMessage) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire store lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to acquire store lock: %s", s.lock.Path())
	}
	defer s.lock.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	changed, err := fn(doc)
	if err != nil || !changed {
		return err
	}
	return s.write(doc)
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
