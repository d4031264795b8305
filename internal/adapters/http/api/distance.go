// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/volunteerhub/matchd/internal/adapters/geo"
	"github.com/volunteerhub/matchd/internal/domain/model"
)

// DistanceDependencies defines the interface for direct distance resolution.
type DistanceDependencies interface {
	ResolveDirect(ctx context.Context, origin, destination string) (model.DistanceResult, error)
}

// DistanceHandler handles direct distance requests.
type DistanceHandler struct {
	deps DistanceDependencies
}

// NewDistanceHandler creates a new distance handler.
func NewDistanceHandler(deps DistanceDependencies) *DistanceHandler {
	return &DistanceHandler{deps: deps}
}

// distanceRequest mirrors the OpenAPI schema for POST /distance.
type distanceRequest struct {
	OriginAddress      string `json:"origin_address"`
	DestinationAddress string `json:"destination_address"`
}

func (d distanceRequest) validate() error {
	switch {
	case strings.TrimSpace(d.OriginAddress) == "":
		return errors.New("missing origin_address")
	case strings.TrimSpace(d.DestinationAddress) == "":
		return errors.New("missing destination_address")
	}
	return nil
}

// HandleResolveDistance handles POST /distance requests. The resolver is
// called directly, bypassing the distance cache.
func (h *DistanceHandler) HandleResolveDistance(w http.ResponseWriter, r *http.Request) {
	const op = "api.resolve_distance"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req distanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
		return
	}

	res, err := h.deps.ResolveDirect(r.Context(), req.OriginAddress, req.DestinationAddress)
	if err != nil {
		switch {
		case errors.Is(err, geo.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, geo.ErrUnavailable):
			writeError(w, http.StatusBadGateway, "provider_unavailable", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, DistanceInfo{
		Origin:       res.Origin,
		Destination:  res.Destination,
		Miles:        res.Miles,
		Meters:       res.Meters,
		DistanceText: res.DistanceText,
		DurationText: res.DurationText,
		Source:       res.Source,
		ComputedAt:   res.ComputedAt,
	})
}
