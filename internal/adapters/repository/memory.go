package repository

import (
	"context"
	"sync"

	"github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
)

// MemoryStore is the ephemeral Store backend: a mutex-guarded key set with
// cached counters. The single lock serializes the check-then-insert, which
// gives the same per-key atomicity the SQLite backend gets from its UNIQUE
// constraints. Used for tests and throwaway runs; nothing survives a
// restart.
type MemoryStore struct {
	mu         sync.RWMutex
	seen       map[model.Key]struct{}
	events     []model.Event // append order, drives iteration
	readCounts map[int]int
	taskCounts map[taskKey]int
	profiles   map[string]model.Profile
}

type taskKey struct {
	day       int
	taskIndex int
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen:       make(map[model.Key]struct{}),
		readCounts: make(map[int]int),
		taskCounts: make(map[taskKey]int),
		profiles:   make(map[string]model.Profile),
	}
}

// Close implements Store; the memory backend holds no resources.
func (s *MemoryStore) Close() error { return nil }

// RecordRead appends a read event for (userID, day) unless one exists.
func (s *MemoryStore) RecordRead(ctx context.Context, userID string, day int) (bool, int, error) {
	e := model.NewRead(userID, day)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[e.Key()]; dup {
		return false, s.readCounts[day], nil
	}
	s.seen[e.Key()] = struct{}{}
	s.events = append(s.events, e)
	s.readCounts[day]++
	return true, s.readCounts[day], nil
}

// RecordTaskDone appends a completion event for (userID, day, taskIndex)
// unless one exists.
func (s *MemoryStore) RecordTaskDone(ctx context.Context, userID string, day, taskIndex int) (bool, int, error) {
	e := model.NewTaskDone(userID, day, taskIndex)
	tk := taskKey{day: day, taskIndex: taskIndex}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[e.Key()]; dup {
		return false, s.taskCounts[tk], nil
	}
	s.seen[e.Key()] = struct{}{}
	s.events = append(s.events, e)
	s.taskCounts[tk]++
	return true, s.taskCounts[tk], nil
}

// CountReads returns the number of distinct users who read day.
func (s *MemoryStore) CountReads(ctx context.Context, day int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readCounts[day], nil
}

// CountTaskDone returns the number of distinct users who completed
// (day, taskIndex).
func (s *MemoryStore) CountTaskDone(ctx context.Context, day, taskIndex int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskCounts[taskKey{day: day, taskIndex: taskIndex}], nil
}

// TaskCounts returns completion counts grouped by task index for day.
func (s *MemoryStore) TaskCounts(ctx context.Context, day int) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int)
	for tk, n := range s.taskCounts {
		if tk.day == day {
			counts[tk.taskIndex] = n
		}
	}
	return counts, nil
}

// Events visits every accepted event in insertion order over a snapshot
// taken at call time.
func (s *MemoryStore) Events(ctx context.Context, fn func(model.Event) error) error {
	s.mu.RLock()
	snapshot := make([]model.Event, len(s.events))
	copy(snapshot, s.events)
	s.mu.RUnlock()

	for _, e := range snapshot {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// UpsertProfile creates or refreshes a user profile.
func (s *MemoryStore) UpsertProfile(ctx context.Context, p model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
	return nil
}

// Profiles returns a copy of all known user profiles keyed by user id.
func (s *MemoryStore) Profiles(ctx context.Context) (map[string]model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.Profile, len(s.profiles))
	for id, p := range s.profiles {
		out[id] = p
	}
	return out, nil
}
