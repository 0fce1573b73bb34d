// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	service "github.com/bekjonalijonov/365-kun-bot/internal/app"
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/stats"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Vote(ctx context.Context, req service.VoteRequest) (service.VoteResponse, error)
	TodayPost(ctx context.Context, now time.Time) (service.DailyPost, error)
	DailyStats(ctx context.Context, day int) (stats.DailyStats, error)
	Leaderboard(ctx context.Context, topN int) ([]stats.Entry, error)
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = stats.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	votesHandler       *VotesHandler
	leaderboardHandler *LeaderboardHandler
	dailyStatsHandler  *DailyStatsHandler
	contentHandler     *ContentHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		votesHandler:       NewVotesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		dailyStatsHandler:  NewDailyStatsHandler(deps),
		contentHandler:     NewContentHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/stats/daily", MetricsMiddleware(s.dailyStatsHandler.HandleGetDailyStats, "stats_daily"))
	mux.HandleFunc("/votes", MetricsMiddleware(s.votesHandler.HandlePostVote, "votes"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/content/today", MetricsMiddleware(s.contentHandler.HandleGetToday, "content_today"))
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
