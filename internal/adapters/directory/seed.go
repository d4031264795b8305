package directory

import (
	"time"

	"github.com/volunteerhub/matchd/internal/domain/model"
)

// NewSeeded constructs a directory preloaded with the demo dataset. Extra
// options may add to or override the seed.
func NewSeeded(opts ...Option) *InMemoryDirectory {
	seeded := []Option{
		WithProfiles(SeedProfiles()),
		WithEvents(SeedEvents()),
	}
	return NewInMemory(append(seeded, opts...)...)
}

// SeedProfiles returns the demo volunteer profiles. Callers get a fresh
// slice on every call.
func SeedProfiles() []model.VolunteerProfile {
	return []model.VolunteerProfile{
		{
			ID:       "volunteer-001",
			FullName: "John Doe",
			Address: model.Address{
				Line1: "123 Main Street",
				Line2: "Apt 4B",
				City:  "Houston",
				State: "TX",
				Zip:   "77001",
			},
			Skills:       []string{"Environmental Cleanup", "Event Planning", "Teaching"},
			Preferences:  "Weekend events preferred, outdoor activities",
			Availability: "2024-12-01",
		},
		{
			ID:       "volunteer-002",
			FullName: "Sarah Smith",
			Address: model.Address{
				Line1: "456 Oak Avenue",
				City:  "Austin",
				State: "TX",
				Zip:   "78701",
			},
			Skills:       []string{"Customer Service", "Organization", "Food Service"},
			Preferences:  "Indoor activities, flexible schedule",
			Availability: "2024-11-15",
		},
	}
}

// SeedEvents returns the demo events. Callers get a fresh slice on every
// call.
func SeedEvents() []model.EventRecord {
	return []model.EventRecord{
		{
			ID:             "event-001",
			Name:           "Beach Cleanup Drive",
			Description:    "Join us for a community beach cleanup to protect our marine environment and keep our beaches beautiful.",
			Location:       "Galveston Beach State Park, TX",
			RequiredSkills: []string{"Environmental Cleanup", "Physical Work"},
			Urgency:        "High",
			Date:           time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
			CreatedAt:      time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:             "event-002",
			Name:           "Food Bank Volunteer Day",
			Description:    "Help sort, pack, and distribute food to families in need in our community.",
			Location:       "Houston Food Bank, 535 Portwall St, Houston, TX",
			RequiredSkills: []string{"Organization", "Customer Service", "Food Service"},
			Urgency:        "Medium",
			Date:           time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
			CreatedAt:      time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:             "event-003",
			Name:           "Community Teaching Workshop",
			Description:    "Teach basic computer skills to seniors in our community center.",
			Location:       "Community Center, 789 Elm St, Houston, TX",
			RequiredSkills: []string{"Teaching", "Technology", "Patience"},
			Urgency:        "Low",
			Date:           time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
			CreatedAt:      time.Date(2024, 11, 10, 0, 0, 0, 0, time.UTC),
		},
	}
}
