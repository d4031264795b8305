package model

import "time"

// MatchResult scores a single volunteer against a single event.
type MatchResult struct {
	VolunteerID   string   // volunteer being matched
	EventID       string   // candidate event
	EventName     string   // candidate event title
	Score         float64  // 0..100, rounded to two decimals
	SkillPercent  float64  // share of required skills covered, 0..100
	DistanceMiles float64  // resolved distance volunteer -> event
	Urgency       string   // event urgency as stored
	Reasons       []string // human readable match justifications
}

// BatchSummary reports the outcome of one batch matching run.
type BatchSummary struct {
	Volunteers    int // jobs submitted to the pool
	Matches       int // ranked results produced across all jobs
	Notifications int // notifications recorded across all jobs
	Errors        int // jobs that failed or could not be enqueued
}

// Notification types.
const (
	NotificationTypeMatch = "match"
)

// Notification records a message produced for a volunteer, typically after
// a batch matching run.
type Notification struct {
	ID        string    // unique notification id
	UserID    string    // receiving volunteer
	EventID   string    // event the notification refers to
	Type      string    // notification type, e.g. "match"
	Message   string    // rendered message text
	Read      bool      // whether the volunteer has seen it
	CreatedAt time.Time // creation time
}
