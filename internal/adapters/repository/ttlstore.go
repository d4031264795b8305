// Package repository provides storage backends for the distance cache.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/volunteerhub/matchd/internal/domain/distcache"
	"github.com/volunteerhub/matchd/pkg/metrics"
)

// TTLStore keeps entries in a ttlcache with per-item expiry. The backing
// cache drops stale rows on its own as housekeeping; freshness on reads is
// still decided by the distance cache, so the two TTLs should match.
type TTLStore struct {
	cache *ttlcache.Cache[string, distcache.Entry]

	ttl      time.Duration
	capacity uint64

	unsubscribe func()
	stopChan    chan struct{}
	closeOnce   sync.Once
}

// NewTTLStore constructs a TTL store and starts its background expirer.
// The expirer stops when ctx is cancelled or Close is called.
func NewTTLStore(ctx context.Context, opts ...Option) *TTLStore {
	s := &TTLStore{
		ttl:      distcache.DefaultTTL,
		stopChan: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	copts := []ttlcache.Option[string, distcache.Entry]{
		ttlcache.WithTTL[string, distcache.Entry](s.ttl),
		ttlcache.WithDisableTouchOnHit[string, distcache.Entry](),
	}
	if s.capacity > 0 {
		copts = append(copts, ttlcache.WithCapacity[string, distcache.Entry](s.capacity))
	}
	s.cache = ttlcache.New(copts...)

	// Count rows the expirer dropped before anyone read them again. The
	// callback runs under the cache lock, so it must not call back into
	// the cache.
	s.unsubscribe = s.cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, _ *ttlcache.Item[string, distcache.Entry]) {
		if reason == ttlcache.EvictionReasonExpired {
			metrics.RecordCacheExpired()
		}
	})

	go s.cache.Start()
	go func() {
		select {
		case <-ctx.Done():
			s.close()
		case <-s.stopChan:
		}
	}()

	return s
}

// Load returns the entry stored under key, if present and not expired.
func (s *TTLStore) Load(_ context.Context, key string) (distcache.Entry, bool, error) {
	item := s.cache.Get(key)
	if item == nil || item.IsExpired() {
		return distcache.Entry{}, false, nil
	}
	return item.Value(), true, nil
}

// Save upserts the entry under key with a fresh TTL.
func (s *TTLStore) Save(_ context.Context, key string, entry distcache.Entry) error {
	s.cache.Set(key, entry, ttlcache.DefaultTTL)
	return nil
}

// Remove deletes the entry under key.
func (s *TTLStore) Remove(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Entries snapshots the live rows.
func (s *TTLStore) Entries(_ context.Context) ([]distcache.Entry, error) {
	items := s.cache.Items()
	out := make([]distcache.Entry, 0, len(items))
	for _, item := range items {
		if item == nil || item.IsExpired() {
			continue
		}
		out = append(out, item.Value())
	}
	return out, nil
}

// Len returns the number of stored rows.
func (s *TTLStore) Len(_ context.Context) int {
	return s.cache.Len()
}

// Close stops the background expirer. Safe to call more than once.
func (s *TTLStore) Close(_ context.Context) error {
	s.close()
	return nil
}

func (s *TTLStore) close() {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.unsubscribe()
		s.cache.Stop()
	})
}
