package service

import (
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/stats"
)

// TaskButton is one interactive control of the daily post's task grid:
// the task text plus its live completion counter.
type TaskButton struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// DailyPost is the plain-data payload for one day's content post. The
// notifier owns all text and markup rendering; this struct carries only
// data. HasContent=false means the catalog had nothing for the day and
// the consumer should degrade gracefully.
type DailyPost struct {
	Day          int          `json:"day"`
	CycleLength  int          `json:"cycle_length"`
	HasContent   bool         `json:"has_content"`
	Title        string       `json:"title,omitempty"`
	Summary      string       `json:"summary,omitempty"`
	ReferenceURL string       `json:"reference_url,omitempty"`
	ReadCount    int          `json:"read_count"`
	Tasks        []TaskButton `json:"tasks,omitempty"`
	ChannelID    string       `json:"-"`
}

// Digest bundles one day's statistics with the all-time leaderboard for
// the scheduled results post.
type Digest struct {
	Day         int
	Stats       stats.DailyStats
	Leaderboard []stats.Entry
	ChannelID   string
}

// VoteRequest is one inbound button press. TaskIndex = model.NoTask marks
// a read acknowledgement; any other value marks a task completion.
type VoteRequest struct {
	UserID    string
	FirstName string
	LastName  string
	Username  string
	Day       int
	TaskIndex int
}

// VoteResponse carries the vote outcome plus the counters the caller
// needs to re-render its controls. TaskCounts is populated only for task
// votes (full grid refresh); for reads the new counter is Result.NewCount.
type VoteResponse struct {
	Result     model.VoteResult
	Day        int
	TaskIndex  int
	TaskCounts map[int]int
}
