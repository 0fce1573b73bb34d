package service

import (
	"context"

	"github.com/bekjonalijonov/365-kun-bot/pkg/logger"
)

// Notifier is the external collaborator that renders and delivers daily
// posts and digests. The service hands it plain data; text, markup and
// transport are entirely its concern.
type Notifier interface {
	PublishDaily(ctx context.Context, post DailyPost) error
	PublishDigest(ctx context.Context, digest Digest) error
}

// LogNotifier is the default Notifier: it logs what would be published.
// Useful for local runs and as a stand-in until a transport is wired.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(l logger.Logger) *LogNotifier {
	return &LogNotifier{logger: l}
}

// PublishDaily logs the daily post payload.
func (n *LogNotifier) PublishDaily(ctx context.Context, post DailyPost) error {
	n.logger.Info(ctx, "daily post",
		logger.Int("day", post.Day),
		logger.String("title", post.Title),
		logger.Int("readCount", post.ReadCount),
		logger.Int("tasks", len(post.Tasks)),
		logger.String("channel", post.ChannelID),
	)
	return nil
}

// PublishDigest logs the digest payload.
func (n *LogNotifier) PublishDigest(ctx context.Context, digest Digest) error {
	n.logger.Info(ctx, "digest",
		logger.Int("day", digest.Day),
		logger.Int("readers", digest.Stats.ReadCount),
		logger.Int("ranked", len(digest.Leaderboard)),
		logger.String("channel", digest.ChannelID),
	)
	return nil
}
