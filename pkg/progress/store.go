// Package progress persists the single "last active screen" marker.
//
// The marker lives in a small key-value store owned by the current user.
// Three backends exist: a JSON file, a SQLite database and an in-memory map.
// Callers treat every store error as non-fatal and keep running in memory.
package progress

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Key is the fixed key under which the current screen identifier is stored.
const Key = "valentine-progress"

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrUnavailable is returned by stores that cannot reach their storage.
var ErrUnavailable = errors.New("progress storage unavailable")

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set stores value under key.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	Close() error
}

// Open returns the store for backend rooted at dir. If the backend cannot be
// opened, Open returns a MemoryStore together with the error so the caller
// can log it and carry on.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		s, err := NewFileStore(filepath.Join(dir, "progress.json"))
		if err != nil {
			return NewMemoryStore(), err
		}
		return s, nil
	case BackendSQLite:
		s, err := NewSQLiteStore(filepath.Join(dir, "progress.db"))
		if err != nil {
			return NewMemoryStore(), err
		}
		return s, nil
	default:
		return NewMemoryStore(), fmt.Errorf("unknown progress backend %q", backend)
	}
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// MemoryStore keeps values in process memory only.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// UnavailableStore fails every operation, modelling storage that is switched
// off or full.
type UnavailableStore struct{}

func (UnavailableStore) Get(string) (string, bool, error) { return "", false, ErrUnavailable }
func (UnavailableStore) Set(string, string) error         { return ErrUnavailable }
func (UnavailableStore) Delete(string) error              { return ErrUnavailable }
func (UnavailableStore) Close() error                     { return nil }
