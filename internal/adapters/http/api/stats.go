// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// ResolverProber is implemented by stats providers that can run one live
// lookup against the distance resolver to verify it answers.
type ResolverProber interface {
	ProbeResolver(ctx context.Context) error
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests. With ?probe=true the resolver
// is checked with a live lookup and the outcome is reported under
// resolverHealthy.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := h.statsProvider.GetStats()
	if prober, ok := h.statsProvider.(ResolverProber); ok && r.URL.Query().Get("probe") == "true" {
		if err := prober.ProbeResolver(r.Context()); err != nil {
			stats["resolverHealthy"] = false
			stats["resolverError"] = err.Error()
		} else {
			stats["resolverHealthy"] = true
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(stats)
}
