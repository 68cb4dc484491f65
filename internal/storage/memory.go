package storage

import (
	"context"
	"sync"
)

// MemoryRepository keeps session values in process memory only
type MemoryRepository struct {
	mu     sync.RWMutex
	values map[Key]string
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: make(map[Key]string)}
}

func (m *MemoryRepository) Get(_ context.Context, key Key) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryRepository) Set(_ context.Context, key Key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryRepository) Clear(_ context.Context, keys ...Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}
