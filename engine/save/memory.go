package save

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

var _ Store = (*MemoryStore)(nil)

// Load returns a copy of the snapshot under key.
func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, notFound(key)
	}
	return append([]byte(nil), data...), nil
}

// Save stores a copy of data under key.
func (m *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	if err := requireKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes the snapshot under key. Deleting a missing key is not an error.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
