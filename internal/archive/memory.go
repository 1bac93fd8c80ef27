package archive

import (
	"context"
	"fmt"
	"sync"
)

// MemoryProvider stores snapshots in a map. Used in tests.
type MemoryProvider struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{objects: make(map[string][]byte)}
}

func (m *MemoryProvider) Put(_ context.Context, key string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = buf
	return fmt.Sprintf("mem://%s", key), nil
}

func (m *MemoryProvider) Close() error { return nil }

// Get retrieves a stored snapshot, reporting whether it exists.
func (m *MemoryProvider) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}
