package geo

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/volunteerhub/matchd/pkg/logger"
)

// MapsOption applies a configuration option to the MapsClient.
type MapsOption func(*MapsClient)

// WithBaseURL points the client at a different API host, mainly for tests.
func WithBaseURL(baseURL string) MapsOption {
	return func(c *MapsClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) MapsOption {
	return func(c *MapsClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds a single provider round trip.
func WithTimeout(timeout time.Duration) MapsOption {
	return func(c *MapsClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithClock injects the time source, mainly for tests.
func WithClock(clock clockwork.Clock) MapsOption {
	return func(c *MapsClient) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger for the maps client.
func WithLogger(l logger.Logger) MapsOption {
	return func(c *MapsClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// FallbackOption applies a configuration option to the FallbackResolver.
type FallbackOption func(*FallbackResolver)

// WithFallbackClock injects the time source, mainly for tests.
func WithFallbackClock(clock clockwork.Clock) FallbackOption {
	return func(f *FallbackResolver) {
		if clock != nil {
			f.clock = clock
		}
	}
}

// WithFallbackLogger sets the logger for the fallback resolver.
func WithFallbackLogger(l logger.Logger) FallbackOption {
	return func(f *FallbackResolver) {
		if l != nil {
			f.logger = l
		}
	}
}
