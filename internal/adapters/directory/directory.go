// Package directory provides read access to volunteer profiles and events.
package directory

import (
	"context"
	"fmt"
	"sort"

	"github.com/volunteerhub/matchd/internal/domain/model"
)

// ProfileReader looks up volunteer profiles.
type ProfileReader interface {
	// Profile returns the profile for a volunteer.
	// Returns ErrProfileNotFound if the volunteer is unknown.
	Profile(ctx context.Context, volunteerID string) (model.VolunteerProfile, error)

	// Profiles returns every known profile ordered by volunteer id.
	Profiles(ctx context.Context) ([]model.VolunteerProfile, error)
}

// EventReader looks up events.
type EventReader interface {
	// Event returns the event record for an id.
	// Returns ErrEventNotFound if the event is unknown.
	Event(ctx context.Context, eventID string) (model.EventRecord, error)

	// Events returns every known event ordered by event id.
	Events(ctx context.Context) ([]model.EventRecord, error)
}

// Directory combines profile and event lookups.
type Directory interface {
	ProfileReader
	EventReader
}

// InMemoryDirectory serves profiles and events from maps built at
// construction time. It is read-only afterwards, so lookups need no
// locking.
type InMemoryDirectory struct {
	profiles map[string]model.VolunteerProfile
	events   map[string]model.EventRecord
}

// NewInMemory constructs a directory from the given options.
func NewInMemory(opts ...Option) *InMemoryDirectory {
	d := &InMemoryDirectory{
		profiles: make(map[string]model.VolunteerProfile),
		events:   make(map[string]model.EventRecord),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Profile returns the profile for a volunteer.
func (d *InMemoryDirectory) Profile(_ context.Context, volunteerID string) (model.VolunteerProfile, error) {
	profile, ok := d.profiles[volunteerID]
	if !ok {
		return model.VolunteerProfile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, volunteerID)
	}
	return profile, nil
}

// Profiles returns every known profile ordered by volunteer id.
func (d *InMemoryDirectory) Profiles(_ context.Context) ([]model.VolunteerProfile, error) {
	out := make([]model.VolunteerProfile, 0, len(d.profiles))
	for _, profile := range d.profiles {
		out = append(out, profile)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Event returns the event record for an id.
func (d *InMemoryDirectory) Event(_ context.Context, eventID string) (model.EventRecord, error) {
	event, ok := d.events[eventID]
	if !ok {
		return model.EventRecord{}, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	return event, nil
}

// Events returns every known event ordered by event id.
func (d *InMemoryDirectory) Events(_ context.Context) ([]model.EventRecord, error) {
	out := make([]model.EventRecord, 0, len(d.events))
	for _, event := range d.events {
		out = append(out, event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
