// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/volunteerhub/matchd/internal/domain/distcache"
	"github.com/volunteerhub/matchd/internal/domain/matching"
	"github.com/volunteerhub/matchd/internal/domain/model"
)

// EventsDependencies defines the interface for event distance queries.
type EventsDependencies interface {
	NearbyEvents(ctx context.Context, volunteerID string, maxDistanceMiles float64) ([]model.NearbyEvent, error)
	ListCacheForEvent(ctx context.Context, eventID string) ([]distcache.Entry, error)
}

// EventsHandler handles event distance queries.
type EventsHandler struct {
	deps EventsDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventsDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

type nearbyResponse struct {
	VolunteerID string        `json:"volunteer_id"`
	Events      []NearbyEvent `json:"events"`
	Count       int           `json:"count"`
}

// HandleNearbyEvents handles GET /events/nearby?volunteer_id=X&max_distance=N
// requests. Events come back closest first.
func (h *EventsHandler) HandleNearbyEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.nearby_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	volunteerID := strings.TrimSpace(r.URL.Query().Get("volunteer_id"))
	if volunteerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: missing volunteer_id", op))
		return
	}

	maxDistance := 0.0
	if raw := r.URL.Query().Get("max_distance"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: invalid max_distance", op))
			return
		}
		maxDistance = parsed
	}

	nearby, err := h.deps.NearbyEvents(r.Context(), volunteerID, maxDistance)
	if err != nil {
		switch {
		case errors.Is(err, matching.ErrNoAddress):
			writeError(w, http.StatusBadRequest, "no_address", err)
		case isNotFound(err):
			writeError(w, http.StatusNotFound, "not_found", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}

	rows := make([]NearbyEvent, 0, len(nearby))
	for _, ev := range nearby {
		rows = append(rows, NearbyEvent{
			EventID:       ev.EventID,
			EventName:     ev.EventName,
			Location:      ev.Location,
			Urgency:       ev.Urgency,
			Date:          ev.Date,
			DistanceMiles: ev.DistanceMiles,
			Meters:        ev.Meters,
			Source:        ev.Source,
			Cached:        ev.Cached,
		})
	}
	writeJSON(w, http.StatusOK, nearbyResponse{
		VolunteerID: volunteerID,
		Events:      rows,
		Count:       len(rows),
	})
}

// HandleEventDistances handles GET /events/{event_id}/distances requests,
// enumerating the cached distances that target one event.
func (h *EventsHandler) HandleEventDistances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter between /events/ and /distances
	path := strings.TrimPrefix(r.URL.Path, "/events/")
	eventID, ok := strings.CutSuffix(path, "/distances")
	if !ok || eventID == "" || strings.Contains(eventID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	entries, err := h.deps.ListCacheForEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	rows := toCacheRows(entries)
	writeJSON(w, http.StatusOK, cacheListResponse{
		EventID:   eventID,
		Distances: rows,
		Count:     len(rows),
	})
}
