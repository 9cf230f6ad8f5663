package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process store with an optional byte quota, the closest
// thing to a browser's localStorage.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
	size  int
	quota int
}

// NewMemory creates a memory store. A quota <= 0 means unlimited.
func NewMemory(quota int) *Memory {
	return &Memory{
		items: make(map[string]string),
		quota: quota,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	newSize := m.size + len(key) + len(value)
	if old, ok := m.items[key]; ok {
		newSize -= len(key) + len(old)
	}

	if m.quota > 0 && newSize > m.quota {
		return fmt.Errorf("setting %s (%d bytes, quota %d): %w", key, len(value), m.quota, ErrQuotaExceeded)
	}

	m.items[key] = value
	m.size = newSize
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.items[key]; ok {
		m.size -= len(key) + len(old)
		delete(m.items, key)
	}
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Size returns the number of bytes used by keys and values
func (m *Memory) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

func (m *Memory) Close() error {
	return nil
}
