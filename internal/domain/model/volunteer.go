// Package model contains domain models passed between layers.
package model

import "strings"

// Address holds the postal fields captured on a volunteer profile.
type Address struct {
	Line1 string // street address, required
	Line2 string // apartment or suite, optional
	City  string // required
	State string // required
	Zip   string // optional
}

// Full renders the address as a single comma separated line, e.g.
// "123 Main Street, Apt 4B, Houston, TX, 77001". It reports false when a
// required component is missing.
func (a Address) Full() (string, bool) {
	line1 := strings.TrimSpace(a.Line1)
	city := strings.TrimSpace(a.City)
	state := strings.TrimSpace(a.State)
	if line1 == "" || city == "" || state == "" {
		return "", false
	}

	parts := []string{line1}
	if line2 := strings.TrimSpace(a.Line2); line2 != "" {
		parts = append(parts, line2)
	}
	parts = append(parts, city+", "+state)
	if zip := strings.TrimSpace(a.Zip); zip != "" {
		parts = append(parts, zip)
	}
	return strings.Join(parts, ", "), true
}

// VolunteerProfile represents a volunteer available for matching.
type VolunteerProfile struct {
	ID           string   // stable volunteer identifier
	FullName     string   // display name
	Address      Address  // home address used as the trip origin
	Skills       []string // free-form skill names
	Preferences  string   // free-form scheduling preferences
	Availability string   // earliest availability, informational only
}
