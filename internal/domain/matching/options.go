package matching

import "github.com/volunteerhub/matchd/pkg/logger"

// Option applies a configuration option to the Coordinator.
type Option func(*Coordinator)

// WithFallbackPolicy sets how unresolved distances are handled.
func WithFallbackPolicy(policy FallbackPolicy) Option {
	return func(c *Coordinator) {
		c.policy = policy
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}
