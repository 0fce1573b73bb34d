package seeder

import "time"

// Config holds configuration for the vote seeding run.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumUsers      int           // Number of synthetic users to generate
	Days          int           // Day range votes are spread over (1..Days)
	TasksPerDay   int           // Task index range per day (0..TasksPerDay-1)
	DuplicateRate float64       // Fraction of votes re-submitted to exercise idempotency
	TopN          int           // Number of leaderboard entries to fetch afterwards
	Workers       int           // Number of concurrent submit workers
	Timeout       time.Duration // HTTP request timeout
	LogFile       string        // Log file for run output
	Verbose       bool          // Enable verbose logging
}

// Vote is one synthetic engagement event to be submitted.
type Vote struct {
	UserID    string `json:"user_id"`
	Day       int    `json:"day"`
	TaskIndex *int   `json:"task_index,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// VoteAck is the response from vote submission.
type VoteAck struct {
	Accepted    bool `json:"accepted"`
	AlreadyDone bool `json:"already_done"`
	Count       int  `json:"count"`
}

// Entry is one leaderboard row as returned by the service.
type Entry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// Stats holds seeding run statistics.
type Stats struct {
	VotesGenerated     int
	VotesSubmitted     int
	VotesAccepted      int
	VotesDuplicate     int
	VotesFailed        int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
