// Package worker defines worker contracts for asynchronous batch matching.
package worker

import (
	"github.com/volunteerhub/matchd/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithNotifyLimit caps how many top matches per job may produce
// notifications. Zero or negative means no cap.
func WithNotifyLimit(limit int) Option {
	return func(w *InMemoryWorker) {
		w.notifyLimit = limit
	}
}

// WithNotifyThreshold sets the minimum score a match must exceed to
// produce a notification.
func WithNotifyThreshold(threshold float64) Option {
	return func(w *InMemoryWorker) {
		if threshold >= 0 {
			w.notifyThreshold = threshold
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
