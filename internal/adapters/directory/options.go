package directory

import "github.com/volunteerhub/matchd/internal/domain/model"

// Option applies a configuration option to the InMemoryDirectory.
type Option func(*InMemoryDirectory)

// WithProfiles loads the given profiles. Later entries win on id clashes.
func WithProfiles(profiles []model.VolunteerProfile) Option {
	return func(d *InMemoryDirectory) {
		for _, profile := range profiles {
			if profile.ID == "" {
				continue
			}
			d.profiles[profile.ID] = profile
		}
	}
}

// WithEvents loads the given events. Later entries win on id clashes.
func WithEvents(events []model.EventRecord) Option {
	return func(d *InMemoryDirectory) {
		for _, event := range events {
			if event.ID == "" {
				continue
			}
			d.events[event.ID] = event
		}
	}
}
