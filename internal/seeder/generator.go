package seeder

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/bekjonalijonov/365-kun-bot/pkg/logger"
	"github.com/google/uuid"
)

// randomFloatDivisor scales crypto/rand integers into [0,1).
const randomFloatDivisor = 1000000

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, max).
func getRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// generateVotes creates a synthetic engagement history: every user reads
// on a handful of days and completes some of the tasks on those days. A
// DuplicateRate fraction of the votes is appended a second time, so the
// run exercises the idempotency path end to end.
func generateVotes(ctx context.Context, config *Config, stats *Stats) ([]Vote, error) {
	logger.Get().Info(ctx, "generating votes for synthetic users",
		logger.Int("numUsers", config.NumUsers),
		logger.Int("days", config.Days),
	)

	votes := make([]Vote, 0, config.NumUsers*4)
	for i := 0; i < config.NumUsers; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during vote generation: %w", ctx.Err())
		default:
		}

		userID := uuid.New().String()
		firstName := fmt.Sprintf("Seed %d", i+1)
		username := fmt.Sprintf("seed_user_%d", i+1)

		// 1 to 5 active days per user.
		activeDays := 1 + getRandomInt(5)
		for d := 0; d < activeDays; d++ {
			day := 1 + getRandomInt(config.Days)
			votes = append(votes, Vote{
				UserID: userID, Day: day, FirstName: firstName, Username: username,
			})
			// Roughly half of the readers also complete one task.
			if config.TasksPerDay > 0 && getRandomFloat() < 0.5 {
				idx := getRandomInt(config.TasksPerDay)
				votes = append(votes, Vote{
					UserID: userID, Day: day, TaskIndex: &idx,
					FirstName: firstName, Username: username,
				})
			}
		}
	}

	// Re-submit a sample verbatim. Every one of these must come back as
	// already_done without changing any counter.
	planned := 0
	if config.DuplicateRate > 0 {
		base := len(votes)
		for i := 0; i < base; i++ {
			if getRandomFloat() < config.DuplicateRate {
				votes = append(votes, votes[i])
				planned++
			}
		}
	}

	stats.VotesGenerated = len(votes)
	logger.Get().Info(ctx, "votes generated",
		logger.Int("total", len(votes)),
		logger.Int("duplicatesPlanned", planned),
	)
	return votes, nil
}
