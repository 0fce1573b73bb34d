package repository

import "time"

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithRetry overrides the transient-error retry policy.
func WithRetry(maxRetries int, baseDelay, maxDelay time.Duration) SQLiteOption {
	return func(s *SQLiteStore) {
		if maxRetries >= 0 && baseDelay > 0 && maxDelay >= baseDelay {
			s.retry = retryConfig{maxRetries: maxRetries, baseDelay: baseDelay, maxDelay: maxDelay}
		}
	}
}
