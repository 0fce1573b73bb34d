// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bekjonalijonov/365-kun-bot/internal/domain/stats"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	stats := h.statsProvider.GetStats()
	_ = json.NewEncoder(w).Encode(stats)
}

// DailyStatsDependencies defines the interface for per-day statistics.
type DailyStatsDependencies interface {
	DailyStats(ctx context.Context, day int) (stats.DailyStats, error)
}

// DailyStatsHandler handles per-day engagement statistics requests.
type DailyStatsHandler struct {
	deps DailyStatsDependencies
}

// NewDailyStatsHandler creates a new daily stats handler.
func NewDailyStatsHandler(deps DailyStatsDependencies) *DailyStatsHandler {
	return &DailyStatsHandler{deps: deps}
}

// HandleGetDailyStats handles GET /stats/daily?day=D requests.
func (h *DailyStatsHandler) HandleGetDailyStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_daily_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	dayStr := r.URL.Query().Get("day")
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	daily, err := h.deps.DailyStats(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, daily)
}
