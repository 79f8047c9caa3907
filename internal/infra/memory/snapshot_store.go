package memory

import (
	"context"
	"sync"

	"ethmumbai-maxi/internal/domain"
)

// SnapshotStore is an in-process key-value store for client state.
type SnapshotStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{values: make(map[string]string)}
}

func (s *SnapshotStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (s *SnapshotStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *SnapshotStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}
