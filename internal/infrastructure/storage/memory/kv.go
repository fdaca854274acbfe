package memory

import (
	"context"
	"sync"

	"github.com/mrops-br/chaverito-api/internal/domain"
)

// KeyValueStore is an in-memory implementation of domain.KeyValueStore
type KeyValueStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewKeyValueStore creates an empty in-memory store
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{
		entries: make(map[string]string),
	}
}

// Get returns the value stored under key
func (s *KeyValueStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.entries[key]
	if !exists {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

// Set stores value under key, replacing any previous value
func (s *KeyValueStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}
