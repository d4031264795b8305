// Package geo resolves travel distances between street addresses.
package geo

import (
	"context"

	model "github.com/volunteerhub/matchd/internal/domain/model"
)

// Location is a geocoded point.
type Location struct {
	Lat float64
	Lng float64
}

// Resolver turns addresses into coordinates and address pairs into travel
// distances. Implementations must be safe for concurrent use.
type Resolver interface {
	// Name identifies the resolver in logs and metrics.
	Name() string

	// Geocode resolves an address to coordinates. Returns ErrNotFound
	// when the provider has no result for the address and ErrUnavailable
	// when the provider cannot answer at all.
	Geocode(ctx context.Context, address string) (Location, error)

	// ResolveDistance computes the travel distance from origin to
	// destination. Returns ErrNotFound when either address is unknown to
	// the provider and ErrUnavailable on transport or provider failures.
	ResolveDistance(ctx context.Context, origin, destination string) (model.DistanceResult, error)
}
