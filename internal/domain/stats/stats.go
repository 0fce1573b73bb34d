// Package stats aggregates the event ledger into per-day statistics and
// the all-time leaderboard.
//
// Both operations are pure read-aggregations over the immutable-once-
// written event history: safely re-runnable at any time, no side effects
// on the ledger.
package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
	"github.com/bekjonalijonov/365-kun-bot/pkg/metrics"
)

// DefaultTopN caps the leaderboard length when the caller passes no limit.
const DefaultTopN = 40

// Ledger abstracts the read side of the engagement store.
type Ledger interface {
	CountReads(ctx context.Context, day int) (int, error)
	TaskCounts(ctx context.Context, day int) (map[int]int, error)
	Events(ctx context.Context, fn func(model.Event) error) error
	Profiles(ctx context.Context) (map[string]model.Profile, error)
}

// TaskCount is the completion count for one task index.
type TaskCount struct {
	TaskIndex int `json:"task_index"`
	Count     int `json:"count"`
}

// DailyStats summarizes one day's engagement. TaskCounts is ordered by
// count descending, then task index ascending.
type DailyStats struct {
	Day        int         `json:"day"`
	ReadCount  int         `json:"read_count"`
	TaskCounts []TaskCount `json:"task_counts"`
}

// Entry is one ranked leaderboard row. Score is the total number of
// accepted events for the user: each read and each task completion
// contributes exactly one point.
type Entry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// Aggregator computes statistics from the ledger.
type Aggregator struct {
	ledger Ledger
}

// New creates an Aggregator over the given ledger.
func New(ledger Ledger) *Aggregator {
	return &Aggregator{ledger: ledger}
}

// DailyStats computes the read count and ranked per-task completion
// counts for day.
func (a *Aggregator) DailyStats(ctx context.Context, day int) (DailyStats, error) {
	reads, err := a.ledger.CountReads(ctx, day)
	if err != nil {
		return DailyStats{}, fmt.Errorf("daily stats: %w", err)
	}
	byIndex, err := a.ledger.TaskCounts(ctx, day)
	if err != nil {
		return DailyStats{}, fmt.Errorf("daily stats: %w", err)
	}

	counts := make([]TaskCount, 0, len(byIndex))
	for idx, n := range byIndex {
		counts = append(counts, TaskCount{TaskIndex: idx, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].TaskIndex < counts[j].TaskIndex
	})

	return DailyStats{Day: day, ReadCount: reads, TaskCounts: counts}, nil
}

// Leaderboard scans the full event history and returns at most topN
// entries ordered by score descending, ties broken lexicographically by
// user id ascending. Display names come from stored profiles, falling
// back to the raw user id. topN <= 0 means DefaultTopN.
func (a *Aggregator) Leaderboard(ctx context.Context, topN int) ([]Entry, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	scores := make(map[string]int)
	err := a.ledger.Events(ctx, func(e model.Event) error {
		scores[e.UserID]++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	metrics.UpdateTotalUsers(len(scores))
	if len(scores) == 0 {
		return nil, nil
	}

	profiles, err := a.ledger.Profiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(scores))
	for userID, score := range scores {
		name := userID
		if p, ok := profiles[userID]; ok {
			name = p.DisplayName()
		}
		entries = append(entries, Entry{UserID: userID, Name: name, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})

	if len(entries) > topN {
		entries = entries[:topN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
