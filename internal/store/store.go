// Package store provides a generic in-memory key-value store mirrored to
// a durable on-disk snapshot. Every put rewrites the whole map; the file
// is the unit of persistence, there is no incremental format.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	apperrors "parking-status-backend/internal/errors"
)

// Store is a persistent map from K to V. Reads may run concurrently;
// writes hold an exclusive lock across the mutate-serialize-rename
// sequence so a torn snapshot can never reach disk.
type Store[K comparable, V any] struct {
	mu     sync.RWMutex
	path   string
	logger *zap.Logger
	data   map[K]V
}

// Open loads a previously persisted map from path. A missing or unreadable
// file is a cold start, not an error: the store begins empty and the
// constructor never fails.
func Open[K comparable, V any](path string, logger *zap.Logger) *Store[K, V] {
	s := &Store[K, V]{path: path, logger: logger, data: make(map[K]V)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("snapshot unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s
	}
	var loaded map[K]V
	if err := json.Unmarshal(raw, &loaded); err != nil {
		logger.Warn("snapshot corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		return s
	}
	if loaded != nil {
		s.data = loaded
	}
	logger.Info("snapshot loaded", zap.String("path", path), zap.Int("entries", len(s.data)))
	return s
}

// Get returns the value stored under key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Put stores value under key, overwriting any previous value, and rewrites
// the on-disk snapshot before returning. A failed write is surfaced as a
// *errors.StorageError; the in-memory value is kept either way.
func (s *Store[K, V]) Put(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.persistLocked()
}

// Update applies fn to the value stored under key and writes the result
// back, all under the write lock, then rewrites the on-disk snapshot.
// fn receives the zero value and ok=false when the key is absent.
// Folding through Update keeps concurrent readers from ever observing a
// half-applied mutation of a stored value.
func (s *Store[K, V]) Update(key K, fn func(v V, ok bool) V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	s.data[key] = fn(v, ok)
	return s.persistLocked()
}

// Keys returns all stored keys.
func (s *Store[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// Values returns all stored values.
func (s *Store[K, V]) Values() []V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	values := make([]V, 0, len(s.data))
	for _, v := range s.data {
		values = append(values, v)
	}
	return values
}

// Len returns the number of stored entries.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// persistLocked serializes the full map and replaces the snapshot file
// atomically. Callers must hold the write lock.
func (s *Store[K, V]) persistLocked() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return &apperrors.StorageError{Op: "encode", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &apperrors.StorageError{Op: "write", Path: s.path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &apperrors.StorageError{Op: "write", Path: s.path, Err: err}
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &apperrors.StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &apperrors.StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return &apperrors.StorageError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}
