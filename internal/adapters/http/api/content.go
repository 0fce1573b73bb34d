// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	service "github.com/bekjonalijonov/365-kun-bot/internal/app"
)

// ContentDependencies defines the interface for content lookups.
type ContentDependencies interface {
	TodayPost(ctx context.Context, now time.Time) (service.DailyPost, error)
}

// ContentHandler handles current-day content requests.
type ContentHandler struct {
	deps ContentDependencies
}

// NewContentHandler creates a new content handler.
func NewContentHandler(deps ContentDependencies) *ContentHandler {
	return &ContentHandler{deps: deps}
}

// HandleGetToday handles GET /content/today requests. The payload is the
// same plain-data post the scheduled dispatch publishes, with counters as
// of now.
func (h *ContentHandler) HandleGetToday(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_today"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	post, err := h.deps.TodayPost(r.Context(), time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, post)
}
