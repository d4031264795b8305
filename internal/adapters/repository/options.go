package repository

import "time"

// Option applies a configuration option to the TTLStore.
type Option func(*TTLStore)

// WithTTL sets the per-item expiry. Should match the distance cache TTL.
// Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *TTLStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithCapacity bounds the number of stored rows. Zero means unbounded.
func WithCapacity(capacity uint64) Option {
	return func(s *TTLStore) {
		s.capacity = capacity
	}
}
