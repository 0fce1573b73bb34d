// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the scheduler.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	repository "github.com/bekjonalijonov/365-kun-bot/internal/adapters/repository"
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/catalog"
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/dayindex"
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/stats"
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/voting"
	"github.com/bekjonalijonov/365-kun-bot/pkg/logger"
	"github.com/bekjonalijonov/365-kun-bot/pkg/metrics"
)

// Service wires the day-index resolver, content catalog, engagement
// ledger, voting engine and aggregator behind the scheduled entry points
// and the interactive vote path.
type Service struct {
	mu sync.RWMutex

	// Core components
	resolver   *dayindex.Resolver
	catalog    *catalog.Catalog
	store      repository.Store
	engine     *voting.Engine
	aggregator *stats.Aggregator
	notifier   Notifier

	// Configuration
	epochStart      time.Time
	cycleLength     int
	dataDir         string
	storageBackend  string
	sqlitePath      string
	leaderboardTopN int
	channelID       string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		epochStart:      time.Now(),
		cycleLength:     dayindex.DefaultCycleLength,
		dataDir:         "data",
		storageBackend:  repository.BackendMemory,
		sqlitePath:      "ledger.db",
		leaderboardTopN: stats.DefaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog, opens the ledger backend and assembles the
// voting and aggregation components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.notifier == nil {
		s.notifier = NewLogNotifier(s.logger)
	}

	s.resolver = dayindex.New(s.epochStart, dayindex.WithCycleLength(s.cycleLength))

	cat, err := catalog.Load(s.dataDir)
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	s.catalog = cat
	metrics.UpdateCatalogDays(cat.Days())

	if s.store == nil {
		store, err := repository.Open(s.storageBackend, s.sqlitePath)
		if err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		s.store = store
	}
	s.engine = voting.New(s.store)
	s.aggregator = stats.New(s.store)

	s.started = true
	s.logger.Info(ctx, "engagement service started",
		logger.String("backend", s.storageBackend),
		logger.Int("cycleLength", s.cycleLength),
		logger.Int("catalogDays", cat.Days()),
	)
	return nil
}

// Stop releases the ledger backend.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(context.Background(), "close store failed", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(context.Background(), "engagement service stopped")
}

// Day resolves now to the current cycle day index.
func (s *Service) Day(now time.Time) int {
	return s.resolver.Day(now)
}

// buildPost assembles the plain-data daily post for day: content (when
// present) plus live counters. Missing content degrades to a post with no
// tasks and no link rather than an error.
func (s *Service) buildPost(ctx context.Context, day int) (DailyPost, error) {
	post := DailyPost{Day: day, CycleLength: s.cycleLength, ChannelID: s.channelID}

	entry, ok := s.catalog.Entry(day)
	if ok {
		post.HasContent = true
		post.Title = entry.Title
		post.Summary = entry.Summary
		post.ReferenceURL = entry.ReferenceURL
	}

	readCount, err := s.store.CountReads(ctx, day)
	if err != nil {
		return DailyPost{}, fmt.Errorf("build post: %w", err)
	}
	post.ReadCount = readCount

	if len(entry.Tasks) > 0 {
		taskCounts, err := s.store.TaskCounts(ctx, day)
		if err != nil {
			return DailyPost{}, fmt.Errorf("build post: %w", err)
		}
		post.Tasks = make([]TaskButton, len(entry.Tasks))
		for i, text := range entry.Tasks {
			post.Tasks[i] = TaskButton{Index: i, Text: text, Count: taskCounts[i]}
		}
	}
	return post, nil
}

// TodayPost returns the post data for the day now resolves to, without
// publishing anything.
func (s *Service) TodayPost(ctx context.Context, now time.Time) (DailyPost, error) {
	return s.buildPost(ctx, s.resolver.Day(now))
}

// DispatchDaily builds the post for the day now resolves to and hands it
// to the notifier. This is one of the two scheduled entry points.
func (s *Service) DispatchDaily(ctx context.Context, now time.Time) error {
	day := s.resolver.Day(now)
	post, err := s.buildPost(ctx, day)
	if err != nil {
		return fmt.Errorf("dispatch daily: %w", err)
	}
	if !post.HasContent {
		s.logger.Warn(ctx, "no content for day, dispatching bare post", logger.Int("day", day))
	}
	if err := s.notifier.PublishDaily(ctx, post); err != nil {
		return fmt.Errorf("dispatch daily: %w", err)
	}
	metrics.RecordDispatchRun()
	s.logger.Info(ctx, "daily post dispatched",
		logger.Int("day", day),
		logger.Int("tasks", len(post.Tasks)),
	)
	return nil
}

// Vote validates and applies one engagement event and returns the data
// the caller needs to re-render its controls. Duplicate votes come back
// with AlreadyDone=true and are not errors.
func (s *Service) Vote(ctx context.Context, req VoteRequest) (VoteResponse, error) {
	if err := validateIdentity(req.UserID); err != nil {
		return VoteResponse{}, err
	}
	if req.Day < 1 || req.Day > s.cycleLength {
		return VoteResponse{}, fmt.Errorf("%w: day %d", ErrDayOutOfRange, req.Day)
	}

	ev := model.NewRead(req.UserID, req.Day)
	if req.TaskIndex != model.NoTask {
		// Range-check the index against the day's task list. Days whose
		// content has been removed keep accepting events (the ledger may
		// legally reference days with no catalog entry).
		tasks := s.catalog.Tasks(req.Day)
		if req.TaskIndex < 0 || (len(tasks) > 0 && req.TaskIndex >= len(tasks)) {
			return VoteResponse{}, fmt.Errorf("%w: task %d of day %d", ErrTaskOutOfRange, req.TaskIndex, req.Day)
		}
		ev = model.NewTaskDone(req.UserID, req.Day, req.TaskIndex)
	}

	// Profile upsert on every observed interaction, before the vote.
	profile := model.Profile{
		UserID:    req.UserID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
	}
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return VoteResponse{}, fmt.Errorf("vote: %w", err)
	}

	result, err := s.engine.Apply(ctx, ev)
	if err != nil {
		return VoteResponse{}, fmt.Errorf("vote: %w", err)
	}

	resp := VoteResponse{Result: result, Day: req.Day, TaskIndex: req.TaskIndex}

	// Task votes re-render the whole button grid, so return every sibling
	// counter. Deliberate O(tasks) per vote; correctness over cleverness.
	if ev.Kind == model.KindTaskDone {
		counts, err := s.store.TaskCounts(ctx, req.Day)
		if err != nil {
			return VoteResponse{}, fmt.Errorf("vote: %w", err)
		}
		resp.TaskCounts = counts
	}
	return resp, nil
}

// DailyStats exposes the aggregator's per-day statistics.
func (s *Service) DailyStats(ctx context.Context, day int) (stats.DailyStats, error) {
	return s.aggregator.DailyStats(ctx, day)
}

// Leaderboard exposes the aggregator's ranked all-time leaderboard.
func (s *Service) Leaderboard(ctx context.Context, topN int) ([]stats.Entry, error) {
	return s.aggregator.Leaderboard(ctx, topN)
}

// RunDigest computes yesterday's statistics plus the all-time leaderboard
// and hands them to the notifier. This is the second scheduled entry point.
func (s *Service) RunDigest(ctx context.Context, now time.Time) error {
	yesterday := s.resolver.Day(now.Add(-24 * time.Hour))

	daily, err := s.aggregator.DailyStats(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("run digest: %w", err)
	}
	board, err := s.aggregator.Leaderboard(ctx, s.leaderboardTopN)
	if err != nil {
		return fmt.Errorf("run digest: %w", err)
	}

	digest := Digest{
		Day:         yesterday,
		Stats:       daily,
		Leaderboard: board,
		ChannelID:   s.channelID,
	}
	if err := s.notifier.PublishDigest(ctx, digest); err != nil {
		return fmt.Errorf("run digest: %w", err)
	}
	metrics.RecordDigestRun()
	s.logger.Info(ctx, "digest published",
		logger.Int("day", yesterday),
		logger.Int("readers", daily.ReadCount),
		logger.Int("ranked", len(board)),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"storageBackend":  s.storageBackend,
		"cycleLength":     s.cycleLength,
		"leaderboardTopN": s.leaderboardTopN,
	}
	if s.started {
		stats["catalogDays"] = s.catalog.Days()
		stats["currentDay"] = s.resolver.Day(time.Now())
	}
	return stats
}
