package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bekjonalijonov/365-kun-bot/pkg/logger"
)

// httpClient wraps http.Client with a per-request timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *httpClient) postJSON(ctx context.Context, url string, in, out any) (int, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// checkServiceHealth verifies the service answers on /healthz.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	if err := client.getJSON(ctx, config.BaseURL+"/healthz", nil); err != nil {
		return fmt.Errorf("service not healthy at %s: %w", config.BaseURL, err)
	}
	return nil
}

// submitVotes pushes the generated votes through worker goroutines and
// tallies accept/duplicate/failure counts.
func submitVotes(ctx context.Context, config *Config, votes []Vote, stats *Stats) error {
	logger.Get().Info(ctx, "submitting votes",
		logger.Int("votes", len(votes)),
		logger.Int("workers", config.Workers),
	)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/votes"

	var accepted, duplicate, failed int64

	jobs := make(chan Vote)
	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for vote := range jobs {
				var ack VoteAck
				status, err := client.postJSON(ctx, url, vote, &ack)
				switch {
				case err != nil || status >= http.StatusBadRequest:
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "vote failed",
							logger.String("user", vote.UserID),
							logger.Int("status", status),
							logger.Error(err),
						)
					}
				case ack.AlreadyDone:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&accepted, 1)
				}
			}
		}()
	}

	for _, vote := range votes {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return fmt.Errorf("context cancelled during submission: %w", ctx.Err())
		case jobs <- vote:
		}
	}
	close(jobs)
	wg.Wait()

	stats.VotesSubmitted = len(votes)
	stats.VotesAccepted = int(accepted)
	stats.VotesDuplicate = int(duplicate)
	stats.VotesFailed = int(failed)
	return nil
}

// getLeaderboard fetches the post-seed leaderboard.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?limit=%d", config.BaseURL, config.TopN)

	var entries []Entry
	if err := client.getJSON(ctx, url, &entries); err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	stats.LeaderboardEntries = len(entries)
	return entries, nil
}
