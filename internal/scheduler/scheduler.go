// Package scheduler runs the two recurring jobs: the daily content
// dispatch and the previous-day results digest.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/bekjonalijonov/365-kun-bot/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Jobs is the subset of the service the scheduler drives.
type Jobs interface {
	DispatchDaily(ctx context.Context, now time.Time) error
	RunDigest(ctx context.Context, now time.Time) error
}

// Scheduler owns the cron runner and its two registered jobs.
type Scheduler struct {
	jobs         Jobs
	cron         *cron.Cron
	dispatchSpec string
	digestSpec   string
	location     *time.Location
	logger       logger.Logger
}

// New constructs a Scheduler. Specs use standard five-field cron syntax
// and fire in the given location.
func New(jobs Jobs, opts ...Option) *Scheduler {
	s := &Scheduler{
		jobs:         jobs,
		dispatchSpec: "0 5 * * *",
		digestSpec:   "0 2 * * *",
		location:     time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers both jobs and begins the cron loop. Job errors are
// logged, never fatal: a failed dispatch must not stop tomorrow's.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.cron = cron.New(cron.WithLocation(s.location))

	if _, err := s.cron.AddFunc(s.dispatchSpec, func() {
		if err := s.jobs.DispatchDaily(ctx, time.Now().In(s.location)); err != nil {
			s.logger.Error(ctx, "scheduled dispatch failed", logger.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("register dispatch job: %w", err)
	}

	if _, err := s.cron.AddFunc(s.digestSpec, func() {
		if err := s.jobs.RunDigest(ctx, time.Now().In(s.location)); err != nil {
			s.logger.Error(ctx, "scheduled digest failed", logger.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("register digest job: %w", err)
	}

	s.cron.Start()
	s.logger.Info(ctx, "scheduler started",
		logger.String("dispatch", s.dispatchSpec),
		logger.String("digest", s.digestSpec),
		logger.String("location", s.location.String()),
	)
	return nil
}

// Stop halts the cron loop and waits for any running job to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
