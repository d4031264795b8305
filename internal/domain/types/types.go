// Package types contains common wire types used across the application
package types

import "time"

// MatchCandidate is one ranked event in a match response.
type MatchCandidate struct {
	EventID           string   `json:"event_id"`
	EventName         string   `json:"event_name"`
	MatchScore        float64  `json:"match_score"`
	SkillMatchPercent float64  `json:"skill_match_percentage"`
	DistanceMiles     float64  `json:"distance_miles"`
	UrgencyLevel      string   `json:"urgency_level"`
	Reasons           []string `json:"reasons"`
}

// DistanceInfo describes one resolved distance between two addresses.
type DistanceInfo struct {
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	Miles        float64   `json:"miles"`
	Meters       float64   `json:"meters"`
	DistanceText string    `json:"distance_text"`
	DurationText string    `json:"duration_text"`
	Source       string    `json:"source"`
	ComputedAt   time.Time `json:"computed_at"`
}

// NearbyEvent is one event in a proximity listing.
type NearbyEvent struct {
	EventID       string    `json:"event_id"`
	EventName     string    `json:"event_name"`
	Location      string    `json:"location"`
	Urgency       string    `json:"urgency"`
	Date          time.Time `json:"date"`
	DistanceMiles float64   `json:"distance_miles"`
	Meters        float64   `json:"meters"`
	Source        string    `json:"source"`
	Cached        bool      `json:"cached"`
}

// CachedDistance is one distance cache entry in enumeration responses.
type CachedDistance struct {
	VolunteerID  string    `json:"volunteer_id"`
	EventID      string    `json:"event_id"`
	Key          string    `json:"key"`
	Miles        float64   `json:"miles"`
	DistanceText string    `json:"distance_text"`
	DurationText string    `json:"duration_text"`
	Source       string    `json:"source"`
	ComputedAt   time.Time `json:"computed_at"`
}

// NotificationInfo is one recorded match notification.
type NotificationInfo struct {
	ID          string    `json:"id"`
	VolunteerID string    `json:"volunteer_id"`
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
