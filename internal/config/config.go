// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep defaults in New and let Load layer file and env values on top.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's sentinel errors.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoder: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SkillWeight, DistanceWeight and UrgencyWeight set the default
	// match score blend. Requests may override them per call.
	SkillWeight    float64 `koanf:"skill_weight"`
	DistanceWeight float64 `koanf:"distance_weight"`
	UrgencyWeight  float64 `koanf:"urgency_weight"`

	// MaxDistanceMiles is the default candidate radius for matching.
	MaxDistanceMiles float64 `koanf:"max_distance_miles"`

	// CacheTTLHours sets how long cached distances stay fresh.
	CacheTTLHours int `koanf:"cache_ttl_hours"`

	// MapsAPIKey authenticates against the distance provider. Empty
	// means the service runs on deterministic fallback distances.
	MapsAPIKey string `koanf:"maps_api_key"`

	// MapsBaseURL points at the distance provider endpoint.
	MapsBaseURL string `koanf:"maps_base_url"`

	// ResolveTimeoutMS bounds a single provider round trip.
	ResolveTimeoutMS int `koanf:"resolve_timeout_ms"`

	// WorkerCount sets the number of batch matching workers.
	WorkerCount int `koanf:"worker_count"`

	// BatchQueueSize bounds the in-memory batch job queue.
	BatchQueueSize int `koanf:"batch_queue_size"`

	// NotifyThreshold is the minimum score that triggers a notification.
	NotifyThreshold float64 `koanf:"notify_threshold"`

	// NotifyTopN caps how many matches per volunteer get notified.
	NotifyTopN int `koanf:"notify_top_n"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8080",
		SkillWeight:      0.5,
		DistanceWeight:   0.2,
		UrgencyWeight:    0.3,
		MaxDistanceMiles: 50,
		CacheTTLHours:    24,
		MapsAPIKey:       "",
		MapsBaseURL:      "https://maps.googleapis.com",
		ResolveTimeoutMS: 5000,
		WorkerCount:      runtime.NumCPU() * 2,
		BatchQueueSize:   1024,
		NotifyThreshold:  50,
		NotifyTopN:       3,
	}
	return c
}
