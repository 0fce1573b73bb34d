// Package repository defines the engagement ledger contract and its
// storage backends.
//
// The ledger is the system of record for all counters: every mutation goes
// through the atomic insert-if-absent Record* operations, and uniqueness is
// enforced at the storage layer rather than checked-then-written in
// application code. Two concurrent votes for the same key always resolve to
// exactly one acceptance.
package repository

import (
	"context"

	"github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
)

// Store is the append-only engagement ledger.
//
// Record* calls are atomic with respect to the uniqueness check: among
// concurrent calls with the same key exactly one returns accepted=true,
// and every returned newCount is consistent with the final stored state.
type Store interface {
	// RecordRead appends a read event for (userID, day), unless one exists.
	// newCount is the read counter for day as of the stored state this
	// attempt resolved to.
	RecordRead(ctx context.Context, userID string, day int) (accepted bool, newCount int, err error)

	// RecordTaskDone appends a completion event for (userID, day, taskIndex),
	// unless one exists. taskIndex range-validation is the caller's job; the
	// ledger stores whatever index it is handed.
	RecordTaskDone(ctx context.Context, userID string, day, taskIndex int) (accepted bool, newCount int, err error)

	// CountReads returns the number of distinct users who read day.
	CountReads(ctx context.Context, day int) (int, error)

	// CountTaskDone returns the number of distinct users who completed
	// (day, taskIndex).
	CountTaskDone(ctx context.Context, day, taskIndex int) (int, error)

	// TaskCounts returns completion counts for every task index with at
	// least one event on day. Indices with zero events are absent.
	TaskCounts(ctx context.Context, day int) (map[int]int, error)

	// Events visits every accepted event in the ledger. It reflects state
	// at call time and may be re-invoked at any point; used by the
	// aggregator. Iteration stops on the first error from fn.
	Events(ctx context.Context, fn func(model.Event) error) error

	// UpsertProfile creates or refreshes a user profile. The user id is
	// immutable; name fields are last-write-wins.
	UpsertProfile(ctx context.Context, p model.Profile) error

	// Profiles returns all known user profiles keyed by user id.
	Profiles(ctx context.Context) (map[string]model.Profile, error)

	// Close releases backend resources.
	Close() error
}
