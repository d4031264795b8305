// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/volunteerhub/matchd/internal/domain/matching"
	"github.com/volunteerhub/matchd/internal/domain/model"
	"github.com/volunteerhub/matchd/internal/domain/scoring"
)

// MatchDependencies defines the interface for matching operations.
type MatchDependencies interface {
	Match(ctx context.Context, req matching.Request) ([]model.MatchResult, error)
	MatchAll(ctx context.Context) (model.BatchSummary, error)
}

// MatchHandler handles match requests.
type MatchHandler struct {
	deps MatchDependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// HandleMatch handles POST /match requests.
func (h *MatchHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}

	results, err := h.deps.Match(r.Context(), matching.Request{
		VolunteerID:      req.VolunteerID,
		MaxDistanceMiles: req.MaxDistance,
		Weights:          req.weights(),
		Limit:            req.Limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrInvalidWeights):
			writeError(w, http.StatusBadRequest, "invalid_weights", err)
		case errors.Is(err, matching.ErrNoAddress):
			// An incomplete address is not a failure; there is just
			// nothing to rank against.
			writeJSON(w, http.StatusOK, matchResponse{
				VolunteerID: req.VolunteerID,
				Matches:     []MatchCandidate{},
				Note:        "volunteer address incomplete; no matches computed",
			})
		case isNotFound(err):
			writeJSON(w, http.StatusOK, matchResponse{
				VolunteerID: req.VolunteerID,
				Matches:     []MatchCandidate{},
				Note:        "volunteer profile not found",
			})
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}

	rows := toMatchRows(results)
	writeJSON(w, http.StatusOK, matchResponse{
		VolunteerID: req.VolunteerID,
		Matches:     rows,
		Count:       len(rows),
	})
}

type batchResponse struct {
	Volunteers    int    `json:"volunteers"`
	Matches       int    `json:"matches"`
	Notifications int    `json:"notifications"`
	Errors        int    `json:"errors"`
	Message       string `json:"message"`
}

// HandleMatchBatch handles POST /match/batch requests.
func (h *MatchHandler) HandleMatchBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	summary, err := h.deps.MatchAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{
		Volunteers:    summary.Volunteers,
		Matches:       summary.Matches,
		Notifications: summary.Notifications,
		Errors:        summary.Errors,
		Message:       fmt.Sprintf("batch matching completed for %d volunteers", summary.Volunteers),
	})
}
