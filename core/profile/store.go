// Package profile resolves and caches the visitor's linked student profile
// (grade level + email). The source of truth is the remote API; the local
// cache is a write-through, read-first optimization with an explicit bypass.
package profile

import "sync"

// Cache keys, kept byte-compatible with what the old web client wrote so an
// upgraded deployment keeps existing visitors' values.
const (
	KeyClassStd = "bb_class_std"
	KeyEmail    = "bb_profile_email"
	KeySidebar  = "bb_sidebar_collapsed"
)

// Store abstracts the browser-persisted key/value cache. The portal backs it
// with cookies; tests use MemStore.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Clear(key string)
}

// MemStore is an in-memory Store, used in tests and by the admin CLI.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
