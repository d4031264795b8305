// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// defaultCleanupAgeHours matches the default cache TTL.
const defaultCleanupAgeHours = 24.0

// CacheDependencies defines the interface for cache maintenance.
type CacheDependencies interface {
	CleanupCache(ctx context.Context, maxAge time.Duration) (int, error)
}

// CacheHandler handles cache maintenance requests.
type CacheHandler struct {
	deps CacheDependencies
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(deps CacheDependencies) *CacheHandler {
	return &CacheHandler{deps: deps}
}

type cleanupResponse struct {
	Removed     int     `json:"removed"`
	MaxAgeHours float64 `json:"max_age_hours"`
}

// HandleCleanupCache handles DELETE /cache?max_age_hours=N requests,
// dropping cached distances older than the given age.
func (h *CacheHandler) HandleCleanupCache(w http.ResponseWriter, r *http.Request) {
	const op = "api.cleanup_cache"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	maxAgeHours := defaultCleanupAgeHours
	if raw := r.URL.Query().Get("max_age_hours"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: invalid max_age_hours", op))
			return
		}
		maxAgeHours = parsed
	}

	removed, err := h.deps.CleanupCache(r.Context(), time.Duration(maxAgeHours*float64(time.Hour)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, cleanupResponse{Removed: removed, MaxAgeHours: maxAgeHours})
}
