// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/volunteerhub/matchd/internal/domain/distcache"
)

// VolunteerDependencies defines the interface for volunteer distance queries.
type VolunteerDependencies interface {
	ListCacheForVolunteer(ctx context.Context, volunteerID string) ([]distcache.Entry, error)
}

// VolunteersHandler handles volunteer distance queries.
type VolunteersHandler struct {
	deps VolunteerDependencies
}

// NewVolunteersHandler creates a new volunteers handler.
func NewVolunteersHandler(deps VolunteerDependencies) *VolunteersHandler {
	return &VolunteersHandler{deps: deps}
}

// HandleVolunteerDistances handles GET /volunteers/{volunteer_id}/distances
// requests, enumerating the cached distances for one volunteer.
func (h *VolunteersHandler) HandleVolunteerDistances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter between /volunteers/ and /distances
	path := strings.TrimPrefix(r.URL.Path, "/volunteers/")
	volunteerID, ok := strings.CutSuffix(path, "/distances")
	if !ok || volunteerID == "" || strings.Contains(volunteerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	entries, err := h.deps.ListCacheForVolunteer(r.Context(), volunteerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	rows := toCacheRows(entries)
	writeJSON(w, http.StatusOK, cacheListResponse{
		VolunteerID: volunteerID,
		Distances:   rows,
		Count:       len(rows),
	})
}
