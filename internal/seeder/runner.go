// Package seeder generates synthetic engagement traffic against a
// running service instance: unique users, randomized read and task
// votes, deliberate duplicates, and a final leaderboard readback.
package seeder

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/bekjonalijonov/365-kun-bot/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// Run executes the complete seeding flow.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting vote seeding run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.NumUsers),
		logger.Int("days", config.Days),
		logger.Int("workers", config.Workers),
		logger.Float64("duplicateRate", config.DuplicateRate),
	)

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	votes, err := generateVotes(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("vote generation failed: %w", err)
	}

	if err := submitVotes(ctx, config, votes, stats); err != nil {
		return fmt.Errorf("vote submission failed: %w", err)
	}

	entries, err := getLeaderboard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("leaderboard readback failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	report(ctx, stats, entries)
	return nil
}

// report logs the final run summary.
func report(ctx context.Context, stats *Stats, entries []Entry) {
	logger.Get().Info(ctx, "seeding run complete",
		logger.Int("generated", stats.VotesGenerated),
		logger.Int("submitted", stats.VotesSubmitted),
		logger.Int("accepted", stats.VotesAccepted),
		logger.Int("duplicate", stats.VotesDuplicate),
		logger.Int("failed", stats.VotesFailed),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
	)
	for _, e := range entries {
		logger.Get().Info(ctx, "leaderboard entry",
			logger.Int("rank", e.Rank),
			logger.String("name", e.Name),
			logger.Int("score", e.Score),
		)
	}
}
