package service

import (
	"time"

	repository "github.com/bekjonalijonov/365-kun-bot/internal/adapters/repository"
	"github.com/bekjonalijonov/365-kun-bot/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets the notifier collaborator that receives daily posts
// and digests.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithStore injects a pre-opened ledger, bypassing the configured backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEpochStart sets the campaign start date (cycle day 1).
func WithEpochStart(epoch time.Time) Option {
	return func(s *Service) {
		if !epoch.IsZero() {
			s.epochStart = epoch
		}
	}
}

// WithCycleLength sets the number of content days before the index wraps.
func WithCycleLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cycleLength = n
		}
	}
}

// WithDataDir sets the directory holding the content dataset files.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithStorage selects the ledger backend and, for sqlite, its database path.
func WithStorage(backend, path string) Option {
	return func(s *Service) {
		if backend != "" {
			s.storageBackend = backend
		}
		if path != "" {
			s.sqlitePath = path
		}
	}
}

// WithLeaderboardTopN sets the digest leaderboard length.
func WithLeaderboardTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardTopN = n
		}
	}
}

// WithChannelID sets the destination channel handed to the notifier.
func WithChannelID(id string) Option {
	return func(s *Service) {
		s.channelID = id
	}
}
