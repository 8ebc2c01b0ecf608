package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timetrack/internal/models"
	"timetrack/internal/storage"
	"timetrack/internal/storage/sqlite"
)

type fixture struct {
	svc   *Service
	store *sqlite.Store
	now   time.Time
}

// newFixture returns a Service over an in-memory store whose clock reads
// f.now.
func newFixture(t *testing.T, now time.Time, loc *time.Location) *fixture {
	t.Helper()
	store, err := sqlite.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{store: store, now: now}
	f.svc = New(store, Options{
		Clock:    func() time.Time { return f.now },
		Location: loc,
	})
	return f
}

// seed inserts timers directly, bypassing the single-active logic, so that
// tests can build arbitrary histories.
func (f *fixture) seed(t *testing.T, timers ...models.Timer) {
	t.Helper()
	ctx := context.Background()
	err := f.store.Update(ctx, func(tx storage.Tx) error {
		ids := map[string]int64{}
		for _, tm := range timers {
			id, ok := ids[tm.TaskName]
			if !ok {
				task, err := tx.TaskByName(ctx, tm.TaskName)
				if err != nil {
					task, err = tx.CreateTask(ctx, tm.TaskName, nil)
					if err != nil {
						return err
					}
				}
				id = task.ID
				ids[tm.TaskName] = id
			}
			tm.TaskID = id
			if _, err := tx.CreateTimer(ctx, tm); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func closed(task string, start time.Time, d time.Duration) models.Timer {
	stop := start.Add(d)
	return models.Timer{TaskName: task, Start: start, Stop: &stop}
}

func ptr[T any](v T) *T { return &v }
