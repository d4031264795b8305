// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/volunteerhub/matchd/internal/adapters/directory"
	"github.com/volunteerhub/matchd/internal/adapters/geo"
	"github.com/volunteerhub/matchd/internal/domain/distcache"
	"github.com/volunteerhub/matchd/internal/domain/model"
	"github.com/volunteerhub/matchd/internal/domain/scoring"
	"github.com/volunteerhub/matchd/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	DistanceDependencies
	EventsDependencies
	VolunteerDependencies
	CacheDependencies
	NotificationDependencies
}

// Wire shapes shared with API clients.
type (
	MatchCandidate   = types.MatchCandidate
	DistanceInfo     = types.DistanceInfo
	NearbyEvent      = types.NearbyEvent
	CachedDistance   = types.CachedDistance
	NotificationInfo = types.NotificationInfo
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	matchHandler         *MatchHandler
	distanceHandler      *DistanceHandler
	eventsHandler        *EventsHandler
	volunteersHandler    *VolunteersHandler
	cacheHandler         *CacheHandler
	notificationsHandler *NotificationsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		matchHandler:         NewMatchHandler(deps),
		distanceHandler:      NewDistanceHandler(deps),
		eventsHandler:        NewEventsHandler(deps),
		volunteersHandler:    NewVolunteersHandler(deps),
		cacheHandler:         NewCacheHandler(deps),
		notificationsHandler: NewNotificationsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/match", MetricsMiddleware(s.matchHandler.HandleMatch, "match"))
	mux.HandleFunc("/match/batch", MetricsMiddleware(s.matchHandler.HandleMatchBatch, "match_batch"))
	mux.HandleFunc("/distance", MetricsMiddleware(s.distanceHandler.HandleResolveDistance, "distance"))
	mux.HandleFunc("/events/nearby", MetricsMiddleware(s.eventsHandler.HandleNearbyEvents, "events_nearby"))
	mux.HandleFunc("/events/", MetricsMiddleware(s.eventsHandler.HandleEventDistances, "event_distances"))
	mux.HandleFunc("/volunteers/", MetricsMiddleware(s.volunteersHandler.HandleVolunteerDistances, "volunteer_distances"))
	mux.HandleFunc("/cache", MetricsMiddleware(s.cacheHandler.HandleCleanupCache, "cache_cleanup"))
	mux.HandleFunc("/notifications", MetricsMiddleware(s.notificationsHandler.HandleListNotifications, "notifications"))
}

// matchRequest mirrors the OpenAPI schema for POST /match. The weight
// fields are pointers so an absent weight falls back to the defaults.
type matchRequest struct {
	VolunteerID    string   `json:"volunteer_id"`
	MaxDistance    float64  `json:"max_distance"`
	SkillWeight    *float64 `json:"skill_weight"`
	DistanceWeight *float64 `json:"distance_weight"`
	UrgencyWeight  *float64 `json:"urgency_weight"`
	Limit          int      `json:"limit"`
}

func (m matchRequest) validate() error {
	switch {
	case strings.TrimSpace(m.VolunteerID) == "":
		return errors.New("missing volunteer_id")
	case m.MaxDistance < 0:
		return errors.New("max_distance must not be negative")
	case m.Limit < 0:
		return errors.New("limit must not be negative")
	}
	return nil
}

// weights builds the score blend for the request. Any weight present
// overrides its default; the blend is validated downstream.
func (m matchRequest) weights() scoring.Weights {
	if m.SkillWeight == nil && m.DistanceWeight == nil && m.UrgencyWeight == nil {
		return scoring.Weights{}
	}
	w := scoring.DefaultWeights()
	if m.SkillWeight != nil {
		w.Skill = *m.SkillWeight
	}
	if m.DistanceWeight != nil {
		w.Distance = *m.DistanceWeight
	}
	if m.UrgencyWeight != nil {
		w.Urgency = *m.UrgencyWeight
	}
	return w
}

type matchResponse struct {
	VolunteerID string           `json:"volunteer_id"`
	Matches     []MatchCandidate `json:"matches"`
	Count       int              `json:"count"`
	Note        string           `json:"note,omitempty"`
}

func toMatchRows(results []model.MatchResult) []MatchCandidate {
	rows := make([]MatchCandidate, 0, len(results))
	for _, res := range results {
		rows = append(rows, MatchCandidate{
			EventID:           res.EventID,
			EventName:         res.EventName,
			MatchScore:        res.Score,
			SkillMatchPercent: res.SkillPercent,
			DistanceMiles:     res.DistanceMiles,
			UrgencyLevel:      res.Urgency,
			Reasons:           res.Reasons,
		})
	}
	return rows
}

type cacheListResponse struct {
	VolunteerID string           `json:"volunteer_id,omitempty"`
	EventID     string           `json:"event_id,omitempty"`
	Distances   []CachedDistance `json:"distances"`
	Count       int              `json:"count"`
}

func toCacheRows(entries []distcache.Entry) []CachedDistance {
	rows := make([]CachedDistance, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, CachedDistance{
			VolunteerID:  entry.SubjectID,
			EventID:      entry.TargetID,
			Key:          entry.Key,
			Miles:        entry.Result.Miles,
			DistanceText: entry.Result.DistanceText,
			DurationText: entry.Result.DurationText,
			Source:       entry.Result.Source,
			ComputedAt:   entry.ComputedAt,
		})
	}
	return rows
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, directory.ErrProfileNotFound) ||
		errors.Is(err, directory.ErrEventNotFound) ||
		errors.Is(err, geo.ErrNotFound)
}
