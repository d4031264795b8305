package model

import "time"

// EventRecord represents an event in need of volunteers.
type EventRecord struct {
	ID             string    // unique event id
	Name           string    // short title
	Description    string    // long form description
	Location       string    // free-form venue address, used as the trip target
	RequiredSkills []string  // skills the event asks for
	Urgency        string    // high, medium or low in any letter case
	Date           time.Time // scheduled day of the event
	CreatedAt      time.Time // record creation time
}
