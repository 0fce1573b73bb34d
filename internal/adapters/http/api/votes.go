// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/bekjonalijonov/365-kun-bot/internal/app"
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
)

// VoteDependencies defines the interface for vote processing dependencies.
type VoteDependencies interface {
	Vote(ctx context.Context, req service.VoteRequest) (service.VoteResponse, error)
}

// VotesHandler handles vote requests.
type VotesHandler struct {
	deps VoteDependencies
}

// NewVotesHandler creates a new votes handler.
func NewVotesHandler(deps VoteDependencies) *VotesHandler {
	return &VotesHandler{deps: deps}
}

// voteRequest mirrors the wire schema for POST /votes. A missing
// task_index means a content read acknowledgement.
type voteRequest struct {
	UserID    string `json:"user_id"`
	Day       int    `json:"day"`
	TaskIndex *int   `json:"task_index,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

type voteResponse struct {
	Accepted    bool        `json:"accepted"`
	AlreadyDone bool        `json:"already_done"`
	Count       int         `json:"count"`
	Day         int         `json:"day"`
	TaskIndex   *int        `json:"task_index,omitempty"`
	TaskCounts  map[int]int `json:"task_counts,omitempty"`
}

// HandlePostVote handles POST /votes requests.
func (h *VotesHandler) HandlePostVote(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_vote"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	taskIndex := model.NoTask
	if req.TaskIndex != nil {
		taskIndex = *req.TaskIndex
	}
	resp, err := h.deps.Vote(r.Context(), service.VoteRequest{
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Day:       req.Day,
		TaskIndex: taskIndex,
	})
	if err != nil {
		if isClientError(err) {
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	out := voteResponse{
		Accepted:    resp.Result.Accepted,
		AlreadyDone: resp.Result.AlreadyDone,
		Count:       resp.Result.NewCount,
		Day:         resp.Day,
		TaskIndex:   req.TaskIndex,
		TaskCounts:  resp.TaskCounts,
	}
	status := http.StatusCreated
	if resp.Result.AlreadyDone {
		status = http.StatusOK
	}
	writeJSON(w, status, out)
}

// isClientError reports whether err is a validation failure the caller
// can fix, as opposed to a ledger fault.
func isClientError(err error) bool {
	return errors.Is(err, service.ErrBadIdentity) ||
		errors.Is(err, service.ErrDayOutOfRange) ||
		errors.Is(err, service.ErrTaskOutOfRange)
}
