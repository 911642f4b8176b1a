package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
	size   int
	quota  int
	closed bool
}

// NewMemoryBackend creates a memory backend. A positive quota bounds the
// total size of keys plus values in bytes.
func NewMemoryBackend(quota int) *MemoryBackend {
	return &MemoryBackend{
		values: make(map[string][]byte),
		quota:  quota,
	}
}

// Name returns "memory".
func (m *MemoryBackend) Name() string { return "memory" }

// Get returns a copy of the value for key.
func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores value under key.
func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	size := m.size + len(key) + len(value)
	if old, ok := m.values[key]; ok {
		size -= len(key) + len(old)
	}
	if m.quota > 0 && size > m.quota {
		return ErrQuotaExceeded
	}
	m.values[key] = append([]byte(nil), value...)
	m.size = size
	return nil
}

// Delete removes key.
func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if old, ok := m.values[key]; ok {
		m.size -= len(key) + len(old)
		delete(m.values, key)
	}
	return nil
}

// Keys returns the keys starting with prefix, sorted.
func (m *MemoryBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	var keys []string
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Size returns the bytes currently used.
func (m *MemoryBackend) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

// Close drops all values.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = nil
	m.size = 0
	m.closed = true
	return nil
}
