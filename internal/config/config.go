// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file/env.
// - External errors must be wrapped via this package's error helpers.
package config

import "github.com/bekjonalijonov/365-kun-bot/internal/adapters/repository"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EpochStart is the campaign start date (YYYY-MM-DD); that date is
	// cycle day 1.
	EpochStart string `koanf:"epoch_start"`

	// CycleLength is the number of distinct content days before the day
	// index wraps.
	CycleLength int `koanf:"cycle_length"`

	// DataDir holds the static content dataset files.
	DataDir string `koanf:"data_dir"`

	// StorageBackend selects the ledger backend: sqlite or memory.
	StorageBackend string `koanf:"storage_backend"`

	// SQLitePath is the ledger database file for the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// LeaderboardTopN is how many entries the scheduled digest includes.
	LeaderboardTopN int `koanf:"leaderboard_top_n"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DispatchCron and DigestCron are the scheduled-trigger expressions
	// for the daily content post and the stats digest.
	DispatchCron string `koanf:"dispatch_cron"`
	DigestCron   string `koanf:"digest_cron"`

	// ChannelID identifies the destination channel handed to the notifier.
	ChannelID string `koanf:"channel_id"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		EpochStart:          "2025-01-01",
		CycleLength:         365,
		DataDir:             "data",
		StorageBackend:      repository.BackendSQLite,
		SQLitePath:          "ledger.db",
		LeaderboardTopN:     40,
		MaxLeaderboardLimit: 100,
		DispatchCron:        "0 5 * * *",
		DigestCron:          "0 2 * * *",
		ChannelID:           "",
	}
}
