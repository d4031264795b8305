package geo

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/jonboulle/clockwork"
	model "github.com/volunteerhub/matchd/internal/domain/model"
	"github.com/volunteerhub/matchd/pkg/logger"
)

// Fallback configuration constants.
const (
	fallbackMileSpread = 25 // deterministic distances land in 1..25 miles
	fallbackAverageMPH = 30.0
)

// FallbackResolver answers distance lookups without provider credentials.
// The distance for a pair of addresses is derived from a stable hash, so
// identical inputs always produce identical results across runs and hosts.
type FallbackResolver struct {
	clock  clockwork.Clock
	logger logger.Logger
}

// NewFallbackResolver creates a credential-less resolver.
func NewFallbackResolver(opts ...FallbackOption) *FallbackResolver {
	f := &FallbackResolver{
		clock:  clockwork.NewRealClock(),
		logger: logger.Get().Named("geo.fallback"),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Name identifies the resolver in logs and metrics.
func (f *FallbackResolver) Name() string { return "fallback" }

// Geocode always fails; there is no provider to ask.
func (f *FallbackResolver) Geocode(_ context.Context, _ string) (Location, error) {
	return Location{}, fmt.Errorf("%w: no provider credentials", ErrUnavailable)
}

// ResolveDistance produces a deterministic distance for the address pair.
func (f *FallbackResolver) ResolveDistance(ctx context.Context, origin, destination string) (model.DistanceResult, error) {
	miles := DeterministicMiles(origin, destination)
	minutes := int(math.Round(miles / fallbackAverageMPH * 60))

	f.logger.Debug(ctx, "deterministic distance",
		logger.String("origin", origin),
		logger.String("destination", destination),
		logger.Float64("miles", miles))

	return model.DistanceResult{
		Origin:       origin,
		Destination:  destination,
		Miles:        miles,
		DistanceText: fmt.Sprintf("%.1f mi", miles),
		DurationText: fmt.Sprintf("%d mins", minutes),
		Source:       model.SourceFallback,
		ComputedAt:   f.clock.Now().UTC(),
	}, nil
}

// DeterministicMiles hashes the normalized address pair into the 1..25 mile
// band. The pair is order sensitive: swapping origin and destination may
// change the result.
func DeterministicMiles(origin, destination string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(normalizeAddress(origin)))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(normalizeAddress(destination)))
	return float64(h.Sum64()%fallbackMileSpread + 1)
}

func normalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
