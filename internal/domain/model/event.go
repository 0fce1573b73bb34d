// Package model contains domain models passed between layers.
package model

import "time"

// EventKind discriminates the two engagement event variants.
type EventKind string

// Engagement event kinds.
const (
	KindRead     EventKind = "read"
	KindTaskDone EventKind = "task_done"
)

// NoTask is the TaskIndex value carried by read events.
const NoTask = -1

// Event is a single engagement event: a user acknowledging the daily
// content (KindRead) or completing one of its micro-tasks (KindTaskDone).
// Events are append-only: once accepted by the ledger they are never
// updated or deleted.
type Event struct {
	Kind      EventKind // read or task_done
	UserID    string    // stable external identity of the voter
	Day       int       // cyclical day index, 1..cycle length
	TaskIndex int       // zero-based task position; NoTask for reads
	TS        time.Time // observation time, informational only
}

// NewRead builds a read event for (userID, day).
func NewRead(userID string, day int) Event {
	return Event{Kind: KindRead, UserID: userID, Day: day, TaskIndex: NoTask, TS: time.Now()}
}

// NewTaskDone builds a task-completion event for (userID, day, taskIndex).
func NewTaskDone(userID string, day, taskIndex int) Event {
	return Event{Kind: KindTaskDone, UserID: userID, Day: day, TaskIndex: taskIndex, TS: time.Now()}
}

// Key returns the uniqueness key of the event: (userID, day) for reads,
// (userID, day, taskIndex) for task completions. Two events with equal
// keys are duplicates of each other.
func (e Event) Key() Key {
	k := Key{Kind: e.Kind, UserID: e.UserID, Day: e.Day, TaskIndex: NoTask}
	if e.Kind == KindTaskDone {
		k.TaskIndex = e.TaskIndex
	}
	return k
}

// Key identifies an event for at-most-once acceptance.
type Key struct {
	Kind      EventKind
	UserID    string
	Day       int
	TaskIndex int
}

// VoteResult reports the outcome of applying one engagement event.
// A duplicate attempt is a normal outcome, not a failure: AlreadyDone is
// set and NewCount still carries the current counter so the caller can
// re-render up-to-date state.
type VoteResult struct {
	Accepted    bool
	AlreadyDone bool
	NewCount    int
}

// Profile is a user profile upserted on every observed interaction.
// UserID is immutable; the name fields are last-write-wins.
type Profile struct {
	UserID    string
	FirstName string
	LastName  string
	Username  string
}

// DisplayName returns the human-readable label for the profile, falling
// back to the raw user id when no name is known.
func (p Profile) DisplayName() string {
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	if name == "" {
		return p.UserID
	}
	return name
}
