package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/bekjonalijonov/365-kun-bot/internal/seeder"
)

// Default configuration constants.
const (
	defaultNumUsers      = 500
	defaultDays          = 30
	defaultTasksPerDay   = 3
	defaultDuplicateRate = 0.2
	defaultTopN          = 40
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultRunTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numUsers      = flag.Int("users", defaultNumUsers, "Number of synthetic users to generate")
		days          = flag.Int("days", defaultDays, "Day range votes are spread over")
		tasksPerDay   = flag.Int("tasks", defaultTasksPerDay, "Task index range per day")
		duplicateRate = flag.Float64("dup", defaultDuplicateRate, "Fraction of votes re-submitted as duplicates")
		topN          = flag.Int("top", defaultTopN, "Number of leaderboard entries to fetch afterwards")
		workers       = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile       = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := seeder.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seeder.Config{
		BaseURL:       *baseURL,
		NumUsers:      *numUsers,
		Days:          *days,
		TasksPerDay:   *tasksPerDay,
		DuplicateRate: *duplicateRate,
		TopN:          *topN,
		Workers:       *workers,
		Timeout:       *timeout,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	if err := seeder.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		return
	}
}
