// Package voting applies engagement events with at-most-once semantics.
//
// The engine is stateless: uniqueness and atomicity live in the ledger it
// delegates to. Its job is to translate the ledger outcome into the
// user-visible contract, where a repeated click is a silent idempotent
// no-op ("already done") rather than an error, and the caller always gets
// a counter consistent with stored state.
package voting

import (
	"context"
	"fmt"
	"time"

	"github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
	"github.com/bekjonalijonov/365-kun-bot/pkg/metrics"
)

// Ledger abstracts the atomic insert-if-absent operations the engine needs.
type Ledger interface {
	RecordRead(ctx context.Context, userID string, day int) (accepted bool, newCount int, err error)
	RecordTaskDone(ctx context.Context, userID string, day, taskIndex int) (accepted bool, newCount int, err error)
}

// Engine validates and applies a single engagement event.
type Engine struct {
	ledger Ledger
}

// New creates an Engine over the given ledger.
func New(ledger Ledger) *Engine {
	return &Engine{ledger: ledger}
}

// Apply records the event. On a duplicate it returns AlreadyDone=true with
// the current count unchanged. A non-nil error means the write did not
// happen and must not be surfaced as accepted; it is safe to retry since
// the ledger's uniqueness check makes the operation idempotent.
func (e *Engine) Apply(ctx context.Context, ev model.Event) (model.VoteResult, error) {
	start := time.Now()

	var (
		accepted bool
		newCount int
		err      error
	)
	switch ev.Kind {
	case model.KindRead:
		accepted, newCount, err = e.ledger.RecordRead(ctx, ev.UserID, ev.Day)
	case model.KindTaskDone:
		accepted, newCount, err = e.ledger.RecordTaskDone(ctx, ev.UserID, ev.Day, ev.TaskIndex)
	default:
		return model.VoteResult{}, fmt.Errorf("%w: %q", ErrUnknownKind, ev.Kind)
	}
	if err != nil {
		return model.VoteResult{}, fmt.Errorf("apply vote: %w", err)
	}

	metrics.RecordVoteLatency(float64(time.Since(start).Microseconds()) / 1000.0)
	if accepted {
		metrics.RecordVoteAccepted(string(ev.Kind))
	} else {
		metrics.RecordVoteDuplicate(string(ev.Kind))
	}

	return model.VoteResult{
		Accepted:    accepted,
		AlreadyDone: !accepted,
		NewCount:    newCount,
	}, nil
}
