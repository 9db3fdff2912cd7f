// Package storage provides tubetracker's persistence layer: a durable string
// key-value store with schema-versioned, migratable JSON datasets layered on
// top.
//
// The KV contract is deliberately infallible: implementations swallow and log
// I/O errors, and corruption surfaces as a failed JSON parse when a dataset
// is loaded, never as a storage error. All schema-version handling lives in
// Dataset, not in callers.
package storage

import (
	"errors"
	"sync"
)

// ErrLockTimeout indicates a timeout acquiring the store's file lock.
var ErrLockTimeout = errors.New("storage: lock acquisition timeout")

// KV is a durable string-to-string map. Get reports whether the key exists;
// Set and Remove never fail from the caller's point of view.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemKV is an in-memory KV for tests and ephemeral runs.
type MemKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemKV creates an empty in-memory store.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (m *MemKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *MemKV) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}
