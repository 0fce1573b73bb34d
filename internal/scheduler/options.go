package scheduler

import (
	"time"

	"github.com/bekjonalijonov/365-kun-bot/pkg/logger"
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDispatchSpec sets the cron spec for the daily content dispatch.
func WithDispatchSpec(spec string) Option {
	return func(s *Scheduler) {
		s.dispatchSpec = spec
	}
}

// WithDigestSpec sets the cron spec for the results digest.
func WithDigestSpec(spec string) Option {
	return func(s *Scheduler) {
		s.digestSpec = spec
	}
}

// WithLocation sets the time zone the cron specs fire in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}
