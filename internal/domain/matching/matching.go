// Package matching ranks events for a volunteer by blending skill overlap,
// travel distance and event urgency.
package matching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/volunteerhub/matchd/internal/domain/model"
	"github.com/volunteerhub/matchd/internal/domain/scoring"
	"github.com/volunteerhub/matchd/pkg/logger"
	"github.com/volunteerhub/matchd/pkg/metrics"
)

// Reason thresholds. A reason string is attached when the corresponding
// component clears its threshold.
const (
	strongSkillThreshold   = 50.0
	closeLocationThreshold = 10.0
)

// DistanceProvider yields the travel distance from a volunteer's address
// to an event's location.
type DistanceProvider interface {
	Distance(ctx context.Context, volunteer model.VolunteerProfile, event model.EventRecord) (model.DistanceResult, error)
}

// ProfileReader is the slice of the directory the coordinator needs for
// origin lookups.
type ProfileReader interface {
	Profile(ctx context.Context, volunteerID string) (model.VolunteerProfile, error)
}

// EventLister is the slice of the directory the coordinator needs for
// candidate enumeration.
type EventLister interface {
	Events(ctx context.Context) ([]model.EventRecord, error)
}

// FallbackPolicy decides what happens to a candidate event when its
// distance cannot be resolved.
type FallbackPolicy int

const (
	// UseFallbackDistance scores the candidate with the flat fallback
	// distance.
	UseFallbackDistance FallbackPolicy = iota

	// ExcludeCandidate drops the candidate from the results.
	ExcludeCandidate
)

// FallbackDistanceMiles is the flat distance assumed when resolution fails
// and the policy keeps the candidate.
const FallbackDistanceMiles = 15.0

// Request describes one matching run.
type Request struct {
	VolunteerID      string          // volunteer to match, required
	MaxDistanceMiles float64         // radius filter; non-positive uses the default
	Weights          scoring.Weights // score blend; zero value uses the defaults
	Limit            int             // cap on returned results; 0 returns all
}

func (r Request) withDefaults() Request {
	if r.MaxDistanceMiles <= 0 {
		r.MaxDistanceMiles = scoring.DefaultMaxDistanceMiles
	}
	if r.Weights == (scoring.Weights{}) {
		r.Weights = scoring.DefaultWeights()
	}
	return r
}

// Coordinator runs matching requests against the directory.
type Coordinator struct {
	profiles ProfileReader
	events   EventLister
	distance DistanceProvider
	policy   FallbackPolicy
	logger   logger.Logger
}

// New constructs a coordinator. The directory readers and the distance
// provider are required.
func New(profiles ProfileReader, events EventLister, distance DistanceProvider, opts ...Option) *Coordinator {
	c := &Coordinator{
		profiles: profiles,
		events:   events,
		distance: distance,
		policy:   UseFallbackDistance,
		logger:   logger.Get().Named("matching"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Match scores every event in range for the requested volunteer and
// returns the results ordered best first. Ties keep event listing order.
func (c *Coordinator) Match(ctx context.Context, req Request) ([]model.MatchResult, error) {
	start := time.Now()
	metrics.RecordMatchRequest()
	defer func() {
		metrics.RecordMatchLatency(float64(time.Since(start).Milliseconds()))
	}()

	req = req.withDefaults()
	if err := req.Weights.Validate(); err != nil {
		return nil, err
	}

	profile, err := c.profiles.Profile(ctx, req.VolunteerID)
	if err != nil {
		return nil, err
	}
	if _, ok := profile.Address.Full(); !ok {
		return nil, fmt.Errorf("%w: volunteer %s", ErrNoAddress, req.VolunteerID)
	}

	events, err := c.events.Events(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]model.MatchResult, 0, len(events))
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		miles, ok := c.resolveMiles(ctx, profile, event)
		if !ok {
			metrics.RecordCandidateExcluded()
			continue
		}
		if miles > req.MaxDistanceMiles {
			metrics.RecordCandidateExcluded()
			continue
		}

		skill := scoring.SkillMatchPercent(profile.Skills, event.RequiredSkills)
		score := scoring.MatchScore(skill, miles, event.Urgency, req.MaxDistanceMiles, req.Weights)

		results = append(results, model.MatchResult{
			VolunteerID:   req.VolunteerID,
			EventID:       event.ID,
			EventName:     event.Name,
			Score:         score,
			SkillPercent:  skill,
			DistanceMiles: miles,
			Urgency:       event.Urgency,
			Reasons:       buildReasons(skill, miles, event.Urgency),
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}

	metrics.RecordMatchesComputed(len(results))
	c.logger.Debug(ctx, "matching run finished",
		logger.String("volunteer", req.VolunteerID),
		logger.Int("candidates", len(events)),
		logger.Int("matches", len(results)))
	return results, nil
}

// resolveMiles returns the travel distance for a candidate, applying the
// fallback policy when resolution fails. The boolean reports whether the
// candidate stays in the run.
func (c *Coordinator) resolveMiles(ctx context.Context, profile model.VolunteerProfile, event model.EventRecord) (float64, bool) {
	result, err := c.distance.Distance(ctx, profile, event)
	if err == nil {
		return result.Miles, true
	}

	if c.policy == ExcludeCandidate {
		c.logger.Warn(ctx, "candidate dropped, distance unresolved",
			logger.String("volunteer", profile.ID),
			logger.String("event", event.ID),
			logger.Error(err))
		return 0, false
	}

	metrics.RecordResolverFallback()
	c.logger.Warn(ctx, "distance unresolved, using fallback",
		logger.String("volunteer", profile.ID),
		logger.String("event", event.ID),
		logger.Error(err))
	return FallbackDistanceMiles, true
}

func buildReasons(skillPercent, miles float64, urgency string) []string {
	reasons := make([]string, 0, 3)
	if skillPercent > strongSkillThreshold {
		reasons = append(reasons, fmt.Sprintf("Strong skill match (%.1f%%)", skillPercent))
	}
	if miles < closeLocationThreshold {
		reasons = append(reasons, fmt.Sprintf("Close location (%.1f miles)", miles))
	}
	if scoring.IsHighUrgency(urgency) {
		reasons = append(reasons, "High priority event")
	}
	return reasons
}
