package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bekjonalijonov/365-kun-bot/internal/adapters/http/api"
	service "github.com/bekjonalijonov/365-kun-bot/internal/app"
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
	"github.com/bekjonalijonov/365-kun-bot/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps implements api.Dependencies with canned responses.
type mockDeps struct {
	voteResp       service.VoteResponse
	voteErr        error
	votes          []service.VoteRequest
	post           service.DailyPost
	postErr        error
	daily          stats.DailyStats
	dailyErr       error
	leaderboard    []stats.Entry
	leaderboardErr error
}

func (m *mockDeps) Vote(_ context.Context, req service.VoteRequest) (service.VoteResponse, error) {
	m.votes = append(m.votes, req)
	if m.voteErr != nil {
		return service.VoteResponse{}, m.voteErr
	}
	return m.voteResp, nil
}

func (m *mockDeps) TodayPost(_ context.Context, _ time.Time) (service.DailyPost, error) {
	if m.postErr != nil {
		return service.DailyPost{}, m.postErr
	}
	return m.post, nil
}

func (m *mockDeps) DailyStats(_ context.Context, day int) (stats.DailyStats, error) {
	if m.dailyErr != nil {
		return stats.DailyStats{}, m.dailyErr
	}
	return m.daily, nil
}

func (m *mockDeps) Leaderboard(_ context.Context, topN int) ([]stats.Entry, error) {
	if m.leaderboardErr != nil {
		return nil, m.leaderboardErr
	}
	if topN < len(m.leaderboard) {
		return m.leaderboard[:topN], nil
	}
	return m.leaderboard, nil
}

type mockStatsProvider struct{}

func (mockStatsProvider) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, mockStatsProvider{}, 100)
	srv.Register(context.Background(), mux)
	return mux
}

func TestPostVote(t *testing.T) {
	Convey("Given the votes endpoint", t, func() {
		deps := &mockDeps{
			voteResp: service.VoteResponse{
				Result: model.VoteResult{Accepted: true, NewCount: 7},
				Day:    3,
			},
		}
		mux := newMux(deps)

		Convey("When posting a valid read vote", func() {
			body := `{"user_id": "42", "day": 3, "first_name": "Ada"}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(body)))

			Convey("Then it returns 201 with the new count", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				var resp map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["accepted"], ShouldBeTrue)
				So(resp["count"], ShouldEqual, 7)
				So(resp["task_index"], ShouldBeNil)
			})

			Convey("And the absent task_index maps to a read event", func() {
				So(deps.votes, ShouldHaveLength, 1)
				So(deps.votes[0].TaskIndex, ShouldEqual, model.NoTask)
				So(deps.votes[0].FirstName, ShouldEqual, "Ada")
			})
		})

		Convey("When posting a task vote that is a duplicate", func() {
			deps.voteResp = service.VoteResponse{
				Result:     model.VoteResult{AlreadyDone: true, NewCount: 4},
				Day:        3,
				TaskIndex:  1,
				TaskCounts: map[int]int{0: 2, 1: 4},
			}
			body := `{"user_id": "42", "day": 3, "task_index": 1}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(body)))

			Convey("Then it returns 200 with the full counter grid", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var resp map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["already_done"], ShouldBeTrue)
				So(resp["task_counts"], ShouldResemble, map[string]any{"0": 2.0, "1": 4.0})
			})
		})

		Convey("When the body is not JSON", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader("{nope")))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When validation fails in the service", func() {
			deps.voteErr = service.ErrDayOutOfRange
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(`{"user_id": "42", "day": 400}`)))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the ledger fails", func() {
			deps.voteErr = errors.New("disk gone")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(`{"user_id": "42", "day": 3}`)))

			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When using the wrong method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/votes", nil))

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGetLeaderboard(t *testing.T) {
	Convey("Given the leaderboard endpoint", t, func() {
		deps := &mockDeps{
			leaderboard: []stats.Entry{
				{Rank: 1, UserID: "alice", Name: "Alice", Score: 12},
				{Rank: 2, UserID: "bob", Name: "Bob", Score: 9},
			},
		}
		mux := newMux(deps)

		Convey("When requesting with a valid limit", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=10", nil))

			Convey("Then it returns the ranked entries", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var entries []stats.Entry
				So(json.Unmarshal(rec.Body.Bytes(), &entries), ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].UserID, ShouldEqual, "alice")
			})
		})

		Convey("When the limit is missing or invalid", func() {
			for _, target := range []string{"/leaderboard", "/leaderboard?limit=0", "/leaderboard?limit=abc"} {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the limit exceeds the cap", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=101", nil))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the aggregator fails", func() {
			deps.leaderboardErr = errors.New("scan failed")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=10", nil))

			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestGetDailyStats(t *testing.T) {
	Convey("Given the daily stats endpoint", t, func() {
		deps := &mockDeps{
			daily: stats.DailyStats{
				Day:       5,
				ReadCount: 31,
				TaskCounts: []stats.TaskCount{
					{TaskIndex: 2, Count: 9},
					{TaskIndex: 0, Count: 4},
				},
			},
		}
		mux := newMux(deps)

		Convey("When requesting a valid day", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats/daily?day=5", nil))

			Convey("Then it returns the day summary", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var daily stats.DailyStats
				So(json.Unmarshal(rec.Body.Bytes(), &daily), ShouldBeNil)
				So(daily.ReadCount, ShouldEqual, 31)
				So(daily.TaskCounts[0].TaskIndex, ShouldEqual, 2)
			})
		})

		Convey("When the day parameter is invalid", func() {
			for _, target := range []string{"/stats/daily", "/stats/daily?day=0", "/stats/daily?day=x"} {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			}
		})
	})
}

func TestGetTodayContent(t *testing.T) {
	Convey("Given the content endpoint", t, func() {
		deps := &mockDeps{
			post: service.DailyPost{
				Day:         12,
				CycleLength: 365,
				HasContent:  true,
				Title:       "Start small",
				ReadCount:   3,
				Tasks:       []service.TaskButton{{Index: 0, Text: "Write it down", Count: 1}},
			},
		}
		mux := newMux(deps)

		Convey("When requesting today's post", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/content/today", nil))

			Convey("Then it returns the post payload", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var post service.DailyPost
				So(json.Unmarshal(rec.Body.Bytes(), &post), ShouldBeNil)
				So(post.Day, ShouldEqual, 12)
				So(post.Tasks, ShouldHaveLength, 1)
			})
		})

		Convey("When the post cannot be built", func() {
			deps.postErr = errors.New("store unavailable")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/content/today", nil))

			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		mux := newMux(&mockDeps{})

		Convey("When requesting service stats", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			var body map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body["started"], ShouldBeTrue)
		})
	})
}

func TestHealthz(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		mux := newMux(&mockDeps{})

		Convey("When scraping it", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}
