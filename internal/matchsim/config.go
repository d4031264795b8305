package matchsim

import (
	"time"

	"github.com/volunteerhub/matchd/internal/domain/types"
)

// Config holds configuration for the matching simulation
type Config struct {
	BaseURL    string        // Base URL of the service
	NumPairs   int           // Number of address pairs to resolve
	Volunteers []string      // Volunteer IDs to run matches for
	Limit      int           // Cap on candidates per match request, 0 = all
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for resolved pairs
	LogFile    string        // Log file for simulation output
	Verbose    bool          // Enable verbose logging
}

// Pair is one synthetic address pair submitted for resolution.
type Pair struct {
	ID          string `json:"id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

// Resolved couples a pair with the distance the service reported for it.
type Resolved struct {
	Pair
	Miles  float64 `json:"miles"`
	Source string  `json:"source"`
}

// Response envelopes returned by the service. Rows decode with the
// shared wire shapes.
type matchResponse struct {
	VolunteerID string                 `json:"volunteer_id"`
	Matches     []types.MatchCandidate `json:"matches"`
	Count       int                    `json:"count"`
	Note        string                 `json:"note"`
}

type nearbyResponse struct {
	VolunteerID string              `json:"volunteer_id"`
	Events      []types.NearbyEvent `json:"events"`
	Count       int                 `json:"count"`
}

type notificationsResponse struct {
	VolunteerID   string                   `json:"volunteer_id"`
	Notifications []types.NotificationInfo `json:"notifications"`
	Count         int                      `json:"count"`
}

type batchResponse struct {
	Volunteers    int    `json:"volunteers"`
	Matches       int    `json:"matches"`
	Notifications int    `json:"notifications"`
	Errors        int    `json:"errors"`
	Message       string `json:"message"`
}

// Stats holds simulation statistics
type Stats struct {
	PairsGenerated     int
	PairsSubmitted     int
	ResolvedLive       int
	ResolvedFallback   int
	ResolveFailed      int
	VolunteersMatched  int
	CandidatesRanked   int
	NearbyListed       int
	BatchNotifications int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
