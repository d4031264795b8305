package distcache

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/volunteerhub/matchd/pkg/logger"
)

// Option configures the cache.
type Option func(*Cache)

// WithTTL sets the freshness window for entries. Non-positive values are
// ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the clock used for expiry decisions. Useful in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}
