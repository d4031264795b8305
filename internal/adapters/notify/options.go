package notify

import (
	"github.com/jonboulle/clockwork"
	"github.com/volunteerhub/matchd/internal/domain/dedupe"
	"github.com/volunteerhub/matchd/pkg/logger"
)

// Option applies a configuration option to the InMemory notifier.
type Option func(*InMemory)

// WithDeduper sets the deduper used to suppress repeat notifications.
func WithDeduper(d dedupe.Deduper) Option {
	return func(n *InMemory) {
		if d != nil {
			n.deduper = d
		}
	}
}

// WithClock sets the clock used for notification timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(n *InMemory) {
		if clock != nil {
			n.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(n *InMemory) {
		if l != nil {
			n.logger = l
		}
	}
}
