package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// FileVouchStore keeps the vouch counters in memory and rewrites the whole
// JSON snapshot on every mutation. Counters never go negative.
type FileVouchStore struct {
	path string

	mu     sync.RWMutex
	counts map[string]int
}

// NewFileVouchStore loads the snapshot at path, creating the parent directory
// if needed. A missing file starts an empty counter map.
func NewFileVouchStore(path string) (*FileVouchStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrPersistence, err)
	}

	s := &FileVouchStore{
		path:   path,
		counts: make(map[string]int),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: read vouch file: %v", ErrPersistence, err)
		}
	} else if len(data) > 0 {
		if err := json.Unmarshal(data, &s.counts); err != nil {
			return nil, fmt.Errorf("%w: parse vouch file: %v", ErrPersistence, err)
		}
	}

	log.Printf("[FileVouchStore] Loaded %d vouch counters from %s", len(s.counts), path)
	return s, nil
}

// flush rewrites the full snapshot atomically. Caller holds the write lock.
func (s *FileVouchStore) flush() error {
	data, err := json.MarshalIndent(s.counts, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encode vouch snapshot: %v", ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "vouches.*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp vouch file: %v", ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write vouch snapshot: %v", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close vouch snapshot: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace vouch snapshot: %v", ErrPersistence, err)
	}
	return nil
}

// Get returns the stored count, or 0 for an unknown user.
func (s *FileVouchStore) Get(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.counts[userID], nil
}

// Increment adds delta and returns the new count.
func (s *FileVouchStore) Increment(ctx context.Context, userID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[userID] += delta
	if err := s.flush(); err != nil {
		return 0, err
	}
	return s.counts[userID], nil
}

// Decrement subtracts delta, clamping at zero. A user already at zero is
// rejected outright, even for delta 0.
func (s *FileVouchStore) Decrement(ctx context.Context, userID string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.counts[userID]
	if current <= 0 {
		return 0, ErrNoBalance
	}

	next := current - delta
	if next < 0 {
		next = 0
	}
	s.counts[userID] = next

	if err := s.flush(); err != nil {
		return 0, err
	}
	return next, nil
}

// Ensure FileVouchStore implements VouchStore
var _ VouchStore = (*FileVouchStore)(nil)
