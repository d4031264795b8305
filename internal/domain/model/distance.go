package model

import "time"

// MetersPerMile converts provider meters into statute miles.
const MetersPerMile = 1609.34

// Sources for a resolved distance.
const (
	SourceLive     = "live"     // answered by the maps provider
	SourceFallback = "fallback" // deterministic estimate, provider unavailable
	SourceCache    = "cache"    // served from the distance cache
)

// DistanceResult is a resolved distance between an origin and a target
// address.
type DistanceResult struct {
	Origin       string    // origin address as understood by the resolver
	Destination  string    // target address as understood by the resolver
	Miles        float64   // distance in statute miles
	Meters       float64   // raw provider distance, zero for fallbacks
	DistanceText string    // human readable distance, e.g. "12.4 mi"
	DurationText string    // human readable travel time, e.g. "25 mins"
	Source       string    // one of the Source constants
	ComputedAt   time.Time // when the value was produced
}

// MilesFromMeters converts a provider meter value into miles.
func MilesFromMeters(meters float64) float64 {
	return meters / MetersPerMile
}

// NearbyEvent is an event within a volunteer's search radius, annotated
// with the resolved travel distance.
type NearbyEvent struct {
	EventID       string    // event identifier
	EventName     string    // display name
	Location      string    // event address
	Urgency       string    // event urgency as stored
	Date          time.Time // when the event takes place
	DistanceMiles float64   // resolved distance in miles
	Meters        float64   // resolved distance in meters
	Source        string    // one of the Source constants
	Cached        bool      // true when served from the distance cache
}
