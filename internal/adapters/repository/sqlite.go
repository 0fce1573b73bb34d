package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
	"github.com/bekjonalijonov/365-kun-bot/pkg/metrics"

	_ "modernc.org/sqlite"
)

// SQLite connection pool limits. The ledger is write-light; a small pool
// keeps WAL contention down.
const (
	sqliteMaxOpenConns    = 4
	sqliteMaxIdleConns    = 2
	sqliteConnMaxLifetime = 30 * time.Minute
)

// SQLiteStore is the durable Store backend. UNIQUE constraints on the
// event tables make the insert-if-absent primitive atomic at the storage
// layer; WAL mode plus a busy timeout lets multiple bot processes share
// one database file.
type SQLiteStore struct {
	db    *sql.DB
	retry retryConfig
}

// NewSQLiteStore opens (or creates) the database at path and initializes
// the schema.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}
	db.SetMaxOpenConns(sqliteMaxOpenConns)
	db.SetMaxIdleConns(sqliteMaxIdleConns)
	db.SetConnMaxLifetime(sqliteConnMaxLifetime)

	s := &SQLiteStore{db: db, retry: defaultRetryConfig}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		user_id    TEXT PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		username   TEXT NOT NULL DEFAULT '',
		first_seen TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reads (
		user_id    TEXT NOT NULL,
		day        INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, day)
	);
	CREATE INDEX IF NOT EXISTS idx_reads_day ON reads(day);

	CREATE TABLE IF NOT EXISTS task_done (
		user_id    TEXT NOT NULL,
		day        INTEGER NOT NULL,
		task_index INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, day, task_index)
	);
	CREATE INDEX IF NOT EXISTS idx_task_done_day ON task_done(day, task_index);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRead appends a read event for (userID, day) unless one exists.
// Insert and count run in one transaction so NewCount always matches the
// stored state this attempt resolved to.
func (s *SQLiteStore) RecordRead(ctx context.Context, userID string, day int) (bool, int, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("sqlite", "record_read", msSince(start)) }()

	var (
		accepted bool
		newCount int
	)
	err := retryOp(ctx, s.retry, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback() //nolint:errcheck // no-op after commit

		res, err := tx.ExecContext(ctx,
			`INSERT INTO reads (user_id, day, created_at) VALUES (?, ?, ?)
			 ON CONFLICT(user_id, day) DO NOTHING`,
			userID, day, nowUTC(),
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reads WHERE day = ?`, day,
		).Scan(&count); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		accepted, newCount = n > 0, count
		return nil
	})
	if err != nil {
		metrics.RecordStoreError("sqlite", "record_read")
		return false, 0, fmt.Errorf("%w: record read: %v", ErrUnavailable, err)
	}
	return accepted, newCount, nil
}

// RecordTaskDone appends a completion event for (userID, day, taskIndex)
// unless one exists.
func (s *SQLiteStore) RecordTaskDone(ctx context.Context, userID string, day, taskIndex int) (bool, int, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreLatency("sqlite", "record_task_done", msSince(start)) }()

	var (
		accepted bool
		newCount int
	)
	err := retryOp(ctx, s.retry, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback() //nolint:errcheck // no-op after commit

		res, err := tx.ExecContext(ctx,
			`INSERT INTO task_done (user_id, day, task_index, created_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(user_id, day, task_index) DO NOTHING`,
			userID, day, taskIndex, nowUTC(),
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM task_done WHERE day = ? AND task_index = ?`, day, taskIndex,
		).Scan(&count); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		accepted, newCount = n > 0, count
		return nil
	})
	if err != nil {
		metrics.RecordStoreError("sqlite", "record_task_done")
		return false, 0, fmt.Errorf("%w: record task done: %v", ErrUnavailable, err)
	}
	return accepted, newCount, nil
}

// CountReads returns the number of distinct users who read day.
func (s *SQLiteStore) CountReads(ctx context.Context, day int) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reads WHERE day = ?`, day,
	).Scan(&count)
	if err != nil {
		metrics.RecordStoreError("sqlite", "count_reads")
		return 0, fmt.Errorf("%w: count reads: %v", ErrUnavailable, err)
	}
	return count, nil
}

// CountTaskDone returns the number of distinct users who completed
// (day, taskIndex).
func (s *SQLiteStore) CountTaskDone(ctx context.Context, day, taskIndex int) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_done WHERE day = ? AND task_index = ?`, day, taskIndex,
	).Scan(&count)
	if err != nil {
		metrics.RecordStoreError("sqlite", "count_task_done")
		return 0, fmt.Errorf("%w: count task done: %v", ErrUnavailable, err)
	}
	return count, nil
}

// TaskCounts returns completion counts grouped by task index for day.
func (s *SQLiteStore) TaskCounts(ctx context.Context, day int) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task_index, COUNT(*) FROM task_done WHERE day = ? GROUP BY task_index`, day,
	)
	if err != nil {
		metrics.RecordStoreError("sqlite", "task_counts")
		return nil, fmt.Errorf("%w: task counts: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var idx, n int
		if err := rows.Scan(&idx, &n); err != nil {
			return nil, fmt.Errorf("%w: task counts: %v", ErrUnavailable, err)
		}
		counts[idx] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: task counts: %v", ErrUnavailable, err)
	}
	return counts, nil
}

// Events visits every accepted event: all reads, then all completions.
func (s *SQLiteStore) Events(ctx context.Context, fn func(model.Event) error) error {
	if err := s.scanEvents(ctx,
		`SELECT user_id, day, -1, created_at FROM reads ORDER BY day, user_id`,
		model.KindRead, fn,
	); err != nil {
		return err
	}
	return s.scanEvents(ctx,
		`SELECT user_id, day, task_index, created_at FROM task_done ORDER BY day, task_index, user_id`,
		model.KindTaskDone, fn,
	)
}

func (s *SQLiteStore) scanEvents(ctx context.Context, query string, kind model.EventKind, fn func(model.Event) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		metrics.RecordStoreError("sqlite", "events")
		return fmt.Errorf("%w: events: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e      model.Event
			tsText string
		)
		e.Kind = kind
		if err := rows.Scan(&e.UserID, &e.Day, &e.TaskIndex, &tsText); err != nil {
			return fmt.Errorf("%w: events: %v", ErrUnavailable, err)
		}
		if ts, perr := time.Parse(time.RFC3339Nano, tsText); perr == nil {
			e.TS = ts
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: events: %v", ErrUnavailable, err)
	}
	return nil
}

// UpsertProfile creates or refreshes a user profile. Idempotent via
// ON CONFLICT; first_seen is preserved on refresh.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, p model.Profile) error {
	err := retryOp(ctx, s.retry, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO users (user_id, first_name, last_name, username, first_seen)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(user_id) DO UPDATE SET
			   first_name = excluded.first_name,
			   last_name  = excluded.last_name,
			   username   = excluded.username`,
			p.UserID, p.FirstName, p.LastName, p.Username, nowUTC(),
		)
		return err
	})
	if err != nil {
		metrics.RecordStoreError("sqlite", "upsert_profile")
		return fmt.Errorf("%w: upsert profile: %v", ErrUnavailable, err)
	}
	return nil
}

// Profiles returns all known user profiles keyed by user id.
func (s *SQLiteStore) Profiles(ctx context.Context) (map[string]model.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, first_name, last_name, username FROM users`,
	)
	if err != nil {
		metrics.RecordStoreError("sqlite", "profiles")
		return nil, fmt.Errorf("%w: profiles: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	profiles := make(map[string]model.Profile)
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Username); err != nil {
			return nil, fmt.Errorf("%w: profiles: %v", ErrUnavailable, err)
		}
		profiles[p.UserID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: profiles: %v", ErrUnavailable, err)
	}
	return profiles, nil
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
