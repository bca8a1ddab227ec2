// Package settings persists per-image calibration and measurements in a
// flat string key-value store.
package settings

import "sync"

// Store is a string key-value mapping that is loaded from and persisted to
// a single backing location as a whole.
type Store interface {
	// Get returns the value for key and whether it exists
	Get(key string) (string, bool)
	// Set stores value under key
	Set(key, value string)
	// Delete removes key if present
	Delete(key string)
	// Load replaces the in-memory contents with the persisted contents
	Load() error
	// Persist writes the in-memory contents to the backing location
	Persist() error
}

// MemoryStore is a Store without a backing file. Load and Persist are no-ops.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value for key
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key
func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

// Delete removes key
func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

// Load does nothing for an in-memory store
func (m *MemoryStore) Load() error { return nil }

// Persist does nothing for an in-memory store
func (m *MemoryStore) Persist() error { return nil }

// Len returns the number of stored keys
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
