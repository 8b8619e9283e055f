package storage

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]Slot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]Slot)}
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[key]
	if !ok {
		return Slot{}, ErrNotFound
	}
	return slot, nil
}

func (s *MemoryStore) Put(_ context.Context, key, value string, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots[key].Version != expectedVersion {
		return 0, ErrVersionConflict
	}
	next := Slot{Key: key, Value: value, Version: expectedVersion + 1, UpdatedAt: time.Now().UTC()}
	s.slots[key] = next
	return next.Version, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[key]; !ok {
		return ErrNotFound
	}
	delete(s.slots, key)
	return nil
}
