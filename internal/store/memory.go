package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryEntry struct {
	value   []byte
	version int64
}

// MemoryBackend keeps values in an in-process map.
//
// Thread-safety: All methods are safe for concurrent use.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string]memoryEntry

	// FailPuts, when set, is returned by every Put. Used to simulate an
	// unavailable backend.
	FailPuts error
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]memoryEntry)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[key]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return append([]byte(nil), e.value...), e.version, nil
}

func (m *MemoryBackend) Put(_ context.Context, key string, value []byte, expected int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPuts != nil {
		return 0, m.FailPuts
	}
	current := m.data[key].version
	if expected != AnyVersion && expected != current {
		return 0, ErrConflict
	}
	next := current + 1
	m.data[key] = memoryEntry{value: append([]byte(nil), value...), version: next}
	return next, nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

// Keys returns the stored keys with the given prefix, sorted.
func (m *MemoryBackend) Keys(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
