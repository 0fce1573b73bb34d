package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bekjonalijonov/365-kun-bot/internal/domain/model"
)

// backends returns one factory per Store implementation so every contract
// test runs against both.
func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
			if err != nil {
				t.Fatalf("open sqlite store: %v", err)
			}
			return s
		},
	}
}

func TestStore_IdempotentRead(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			defer store.Close()

			accepted, count, err := store.RecordRead(ctx, "alice", 5)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !accepted || count != 1 {
				t.Errorf("first vote: got (%v, %d), want (true, 1)", accepted, count)
			}

			accepted, count, err = store.RecordRead(ctx, "alice", 5)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if accepted || count != 1 {
				t.Errorf("duplicate vote: got (%v, %d), want (false, 1)", accepted, count)
			}

			if n, _ := store.CountReads(ctx, 5); n != 1 {
				t.Errorf("expected read count 1, got %d", n)
			}
		})
	}
}

func TestStore_TaskIndependence(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			defer store.Close()

			for _, user := range []string{"alice", "bob"} {
				accepted, _, err := store.RecordTaskDone(ctx, user, 3, 0)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !accepted {
					t.Errorf("expected acceptance for %s", user)
				}
			}

			if n, _ := store.CountTaskDone(ctx, 3, 0); n != 2 {
				t.Errorf("expected count 2 for task 0, got %d", n)
			}
			if n, _ := store.CountTaskDone(ctx, 3, 1); n != 0 {
				t.Errorf("expected count 0 for task 1, got %d", n)
			}

			// Same user, different task index: a separate key.
			accepted, count, err := store.RecordTaskDone(ctx, "alice", 3, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !accepted || count != 1 {
				t.Errorf("got (%v, %d), want (true, 1)", accepted, count)
			}

			counts, err := store.TaskCounts(ctx, 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if counts[0] != 2 || counts[1] != 1 {
				t.Errorf("unexpected task counts: %v", counts)
			}
		})
	}
}

func TestStore_ConcurrentDuplicateSuppression(t *testing.T) {
	const attempts = 32
	ctx := context.Background()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			defer store.Close()

			// Seed an unrelated vote so the counter does not start at zero.
			if _, _, err := store.RecordRead(ctx, "zed", 7); err != nil {
				t.Fatalf("seed: %v", err)
			}

			var (
				wg           sync.WaitGroup
				mu           sync.Mutex
				acceptedRuns int
			)
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					accepted, _, err := store.RecordRead(ctx, "alice", 7)
					if err != nil {
						t.Errorf("unexpected error: %v", err)
						return
					}
					if accepted {
						mu.Lock()
						acceptedRuns++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			if acceptedRuns != 1 {
				t.Errorf("expected exactly one acceptance, got %d", acceptedRuns)
			}
			if n, _ := store.CountReads(ctx, 7); n != 2 {
				t.Errorf("expected final count 2, got %d", n)
			}
		})
	}
}

func TestStore_ConcurrentDistinctUsers(t *testing.T) {
	const users = 24
	ctx := context.Background()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			defer store.Close()

			var wg sync.WaitGroup
			for i := 0; i < users; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					user := fmt.Sprintf("user-%02d", i)
					if _, _, err := store.RecordRead(ctx, user, 1); err != nil {
						t.Errorf("unexpected error: %v", err)
					}
					if _, _, err := store.RecordTaskDone(ctx, user, 1, i%3); err != nil {
						t.Errorf("unexpected error: %v", err)
					}
				}(i)
			}
			wg.Wait()

			if n, _ := store.CountReads(ctx, 1); n != users {
				t.Errorf("expected %d reads, got %d", users, n)
			}
			counts, _ := store.TaskCounts(ctx, 1)
			total := 0
			for _, n := range counts {
				total += n
			}
			if total != users {
				t.Errorf("expected %d task completions, got %d", users, total)
			}
		})
	}
}

func TestStore_EventsIteration(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			defer store.Close()

			mustRecord := func(accepted bool, _ int, err error) {
				t.Helper()
				if err != nil || !accepted {
					t.Fatalf("record failed: accepted=%v err=%v", accepted, err)
				}
			}
			mustRecord(store.RecordRead(ctx, "alice", 1))
			mustRecord(store.RecordRead(ctx, "bob", 1))
			mustRecord(store.RecordTaskDone(ctx, "alice", 1, 0))

			collect := func() map[model.EventKind]int {
				kinds := make(map[model.EventKind]int)
				if err := store.Events(ctx, func(e model.Event) error {
					kinds[e.Kind]++
					return nil
				}); err != nil {
					t.Fatalf("events: %v", err)
				}
				return kinds
			}

			kinds := collect()
			if kinds[model.KindRead] != 2 || kinds[model.KindTaskDone] != 1 {
				t.Errorf("unexpected event mix: %v", kinds)
			}

			// Restartable: a second full pass sees the same history.
			again := collect()
			if again[model.KindRead] != 2 || again[model.KindTaskDone] != 1 {
				t.Errorf("second pass diverged: %v", again)
			}

			// Iteration stops on the first error from fn.
			sentinel := errors.New("stop")
			visited := 0
			err := store.Events(ctx, func(model.Event) error {
				visited++
				return sentinel
			})
			if !errors.Is(err, sentinel) {
				t.Errorf("expected sentinel error, got %v", err)
			}
			if visited != 1 {
				t.Errorf("expected iteration to stop after 1 event, visited %d", visited)
			}
		})
	}
}

func TestStore_ProfileUpsert(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			defer store.Close()

			p := model.Profile{UserID: "42", FirstName: "Ada"}
			if err := store.UpsertProfile(ctx, p); err != nil {
				t.Fatalf("upsert: %v", err)
			}

			// Refresh is last-write-wins on name fields.
			p.FirstName = "Ada"
			p.LastName = "Lovelace"
			p.Username = "ada"
			if err := store.UpsertProfile(ctx, p); err != nil {
				t.Fatalf("refresh: %v", err)
			}

			profiles, err := store.Profiles(ctx)
			if err != nil {
				t.Fatalf("profiles: %v", err)
			}
			got, ok := profiles["42"]
			if !ok {
				t.Fatal("profile missing after upsert")
			}
			if got.LastName != "Lovelace" || got.Username != "ada" {
				t.Errorf("refresh not applied: %+v", got)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	store, err := Open(BackendMemory, "")
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("expected *MemoryStore, got %T", store)
	}

	store, err = Open(BackendSQLite, filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, ok := store.(*SQLiteStore); !ok {
		t.Errorf("expected *SQLiteStore, got %T", store)
	}
	store.Close()

	if _, err := Open("redis", ""); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
}
