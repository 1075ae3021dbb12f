package storage

import (
	"fmt"
	"slices"
	"sync"
)

// MemBlobs is an in-memory Blobs, its content is lost on exit.
type MemBlobs struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMem returns an empty MemBlobs.
func NewMem() *MemBlobs {
	return &MemBlobs{
		data: make(map[string][]byte),
	}
}

func (m *MemBlobs) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = slices.Clone(value)
	return nil
}

func (m *MemBlobs) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	return slices.Clone(value), nil
}

// Close does nothing.
func (m *MemBlobs) Close() error { return nil }
