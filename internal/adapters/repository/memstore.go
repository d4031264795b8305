package repository

import (
	"context"
	"sync"

	"github.com/volunteerhub/matchd/internal/domain/distcache"
)

// MemStore is a plain locked-map store with no expiry of its own. Rows
// live until the distance cache evicts them, which keeps behavior easy to
// reason about in tests and small deployments.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]distcache.Entry
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]distcache.Entry)}
}

// Load returns the entry stored under key.
func (s *MemStore) Load(_ context.Context, key string) (distcache.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok, nil
}

// Save upserts the entry under key.
func (s *MemStore) Save(_ context.Context, key string, entry distcache.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

// Remove deletes the entry under key.
func (s *MemStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Entries snapshots the stored rows.
func (s *MemStore) Entries(_ context.Context) ([]distcache.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]distcache.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry)
	}
	return out, nil
}

// Len returns the number of stored rows.
func (s *MemStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close is a no-op.
func (s *MemStore) Close(_ context.Context) error { return nil }
