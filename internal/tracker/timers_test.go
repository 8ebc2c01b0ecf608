package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_CreatesRunningTimer(t *testing.T) {
	f := newFixture(t, now, time.UTC)
	ctx := context.Background()
	_, err := f.svc.AddTask(ctx, "writing", "")
	require.NoError(t, err)

	start := now.Add(-time.Hour)
	timer, err := f.svc.Start(ctx, "writing", start)
	require.NoError(t, err)
	assert.Equal(t, "writing", timer.TaskName)
	assert.True(t, timer.Start.Equal(start))
	assert.True(t, timer.Running())
	assert.Equal(t, time.Hour, timer.Elapsed(now))
}

func TestStart_Errors(t *testing.T) {
	f := newFixture(t, now, time.UTC)
	ctx := context.Background()
	_, err := f.svc.AddTask(ctx, "writing", "")
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, "missing", now)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Start(ctx, "writing", now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrValidationFailed)

	timers, err := f.svc.AllTimers(ctx)
	require.NoError(t, err)
	assert.Empty(t, timers)
}

func TestStart_ClosesActiveTimer(t *testing.T) {
	f := newFixture(t, now, time.UTC)
	ctx := context.Background()
	for _, n := range []string{"writing", "email"} {
		_, err := f.svc.AddTask(ctx, n, "")
		require.NoError(t, err)
	}

	t0 := now.Add(-2 * time.Hour)
	t1 := now.Add(-time.Hour)

	first, err := f.svc.Start(ctx, "writing", t0)
	require.NoError(t, err)
	second, err := f.svc.Start(ctx, "email", t1)
	require.NoError(t, err)

	first, err = f.svc.Timer(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, first.Stop)
	assert.True(t, first.Stop.Equal(t1))

	active, ok, err := f.svc.ActiveTimer(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, "email", active.TaskName)
}

func TestStart_SingleActiveTimer(t *testing.T) {
	f := newFixture(t, now, time.UTC)
	ctx := context.Background()
	for _, n := range []string{"a", "b", "c"} {
		_, err := f.svc.AddTask(ctx, n, "")
		require.NoError(t, err)
	}

	tasks := []string{"a", "b", "a", "c", "c", "b"}
	base := now.Add(-24 * time.Hour)
	for i, task := range tasks {
		start := base.Add(time.Duration(i) * 37 * time.Minute)
		_, err := f.svc.Start(ctx, task, start)
		require.NoError(t, err)

		timers, err := f.svc.AllTimers(ctx)
		require.NoError(t, err)
		require.Len(t, timers, i+1)

		running := 0
		for j, tm := range timers {
			if tm.Running() {
				running++
				continue
			}
			next := timers[j+1]
			assert.True(t, tm.Stop.Equal(next.Start), "timer %d should stop when timer %d starts", tm.ID, next.ID)
			assert.True(t, tm.Start.Before(*tm.Stop))
		}
		assert.Equal(t, 1, running)
	}
}

func TestStart_BeforeActiveStartIsRejectedAtomically(t *testing.T) {
	f := newFixture(t, now, time.UTC)
	ctx := context.Background()
	_, err := f.svc.AddTask(ctx, "writing", "")
	require.NoError(t, err)

	first, err := f.svc.Start(ctx, "writing", now.Add(-time.Hour))
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, "writing", now.Add(-2*time.Hour))
	assert.ErrorIs(t, err, ErrValidationFailed)

	timers, err := f.svc.AllTimers(ctx)
	require.NoError(t, err)
	require.Len(t, timers, 1)
	assert.Equal(t, first.ID, timers[0].ID)
	assert.True(t, timers[0].Running())
}

func TestStop(t *testing.T) {
	f := newFixture(t, now, time.UTC)
	ctx := context.Background()
	_, err := f.svc.AddTask(ctx, "writing", "")
	require.NoError(t, err)

	_, err = f.svc.Stop(ctx, now)
	assert.ErrorIs(t, err, ErrNoActiveTimer)

	start := now.Add(-time.Hour)
	_, err = f.svc.Start(ctx, "writing", start)
	require.NoError(t, err)

	_, err = f.svc.Stop(ctx, start.Add(-time.Minute))
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = f.svc.Stop(ctx, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, ok, err := f.svc.ActiveTimer(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "failed stop must leave the timer running")

	stopped, err := f.svc.Stop(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, stopped.Elapsed(now))

	_, ok, err = f.svc.ActiveTimer(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateTimer(t *testing.T) {
	f := newFixture(t, now, time.UTC)
	ctx := context.Background()
	for _, n := range []string{"old", "new"} {
		_, err := f.svc.AddTask(ctx, n, "")
		require.NoError(t, err)
	}

	oneHourAgo := now.Add(-time.Hour)
	twoHoursAgo := now.Add(-2 * time.Hour)
	f.seed(t, closed("old", twoHoursAgo, time.Hour))
	timers, err := f.svc.AllTimers(ctx)
	require.NoError(t, err)
	id := timers[0].ID

	updated, err := f.svc.UpdateTimer(ctx, id, TimerUpdate{Task: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.TaskName)

	updated, err = f.svc.UpdateTimer(ctx, id, TimerUpdate{Start: ptr(twoHoursAgo.Add(-time.Hour))})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, updated.Elapsed(now))

	updated, err = f.svc.UpdateTimer(ctx, id, TimerUpdate{Stop: ptr(now)})
	require.NoError(t, err)
	assert.True(t, updated.Stop.Equal(now))

	_, err = f.svc.UpdateTimer(ctx, id, TimerUpdate{Task: ptr("missing")})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.UpdateTimer(ctx, 999, TimerUpdate{Stop: ptr(oneHourAgo)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTimer_InvalidStates(t *testing.T) {
	oneHourAgo := now.Add(-time.Hour)
	twoHoursAgo := now.Add(-2 * time.Hour)

	tests := []struct {
		name   string
		update TimerUpdate
	}{
		{"start after stop", TimerUpdate{Start: ptr(now.Add(-30 * time.Minute))}},
		{"start in the future", TimerUpdate{Start: ptr(now.Add(time.Hour))}},
		{"stop in the future", TimerUpdate{Stop: ptr(now.Add(time.Hour))}},
		{"stop before start", TimerUpdate{Stop: ptr(now.Add(-3 * time.Hour))}},
		{"stop equals start", TimerUpdate{Stop: ptr(twoHoursAgo)}},
		{"set and clear stop", TimerUpdate{Stop: ptr(now), ClearStop: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, now, time.UTC)
			ctx := context.Background()
			f.seed(t, closed("foo", twoHoursAgo, time.Hour))
			_, err := f.svc.AddTask(ctx, "bar", "")
			require.NoError(t, err)

			u := tt.update
			u.Task = ptr("bar")
			_, err = f.svc.UpdateTimer(ctx, 1, u)
			assert.ErrorIs(t, err, ErrValidationFailed)

			timer, err := f.svc.Timer(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, "foo", timer.TaskName, "no partial changes may be committed")
			assert.True(t, timer.Start.Equal(twoHoursAgo))
			assert.True(t, timer.Stop.Equal(oneHourAgo))
		})
	}
}

func TestUpdateTimer_Reactivate(t *testing.T) {
	f := newFixture(t, now, time.UTC)
	ctx := context.Background()
	for _, n := range []string{"writing", "email"} {
		_, err := f.svc.AddTask(ctx, n, "")
		require.NoError(t, err)
	}

	timer, err := f.svc.Start(ctx, "writing", now.Add(-3*time.Hour))
	require.NoError(t, err)
	_, err = f.svc.Stop(ctx, now.Add(-2*time.Hour))
	require.NoError(t, err)

	timer, err = f.svc.UpdateTimer(ctx, timer.ID, TimerUpdate{ClearStop: true})
	require.NoError(t, err)
	assert.True(t, timer.Running())

	next := now.Add(-time.Hour)
	_, err = f.svc.Start(ctx, "email", next)
	require.NoError(t, err)

	timer, err = f.svc.Timer(ctx, timer.ID)
	require.NoError(t, err)
	require.NotNil(t, timer.Stop)
	assert.True(t, timer.Stop.Equal(next))

	_, err = f.svc.UpdateTimer(ctx, timer.ID, TimerUpdate{ClearStop: true})
	assert.ErrorIs(t, err, ErrValidationFailed, "a second active timer is not allowed")
}

func TestDeleteTimer(t *testing.T) {
	f := newFixture(t, now, time.UTC)
	ctx := context.Background()
	f.seed(t, closed("foo", now.Add(-2*time.Hour), time.Hour))

	require.NoError(t, f.svc.DeleteTimer(ctx, 1))
	assert.ErrorIs(t, f.svc.DeleteTimer(ctx, 1), ErrNotFound)
	_, err := f.svc.Timer(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMostRecentAndLatestForTask(t *testing.T) {
	f := newFixture(t, now, time.UTC)
	ctx := context.Background()

	_, ok, err := f.svc.MostRecentTimer(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	base := now.Add(-10 * time.Hour)
	f.seed(t,
		closed("foo", base, time.Hour),
		closed("bar", base.Add(2*time.Hour), time.Hour),
		closed("foo", base.Add(4*time.Hour), time.Hour),
		closed("bar", base.Add(6*time.Hour), time.Hour),
	)

	recent, ok, err := f.svc.MostRecentTimer(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bar", recent.TaskName)
	assert.True(t, recent.Start.Equal(base.Add(6*time.Hour)))

	latest, err := f.svc.LatestTimerForTask(ctx, "foo")
	require.NoError(t, err)
	assert.True(t, latest.Start.Equal(base.Add(4*time.Hour)))

	_, err = f.svc.LatestTimerForTask(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, ok, err = f.svc.ActiveTimer(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	start := now.Add(-time.Hour)

	tests := []struct {
		name    string
		stop    *time.Time
		start   time.Time
		wantErr bool
	}{
		{"running", nil, start, false},
		{"running from now", nil, now, false},
		{"stopped", ptr(start.Add(30 * time.Minute)), start, false},
		{"stopped now", ptr(now), start, false},
		{"start in future", nil, now.Add(time.Second), true},
		{"stop before start", ptr(start.Add(-time.Hour)), start, true},
		{"stop in future", ptr(start.Add(2 * time.Hour)), start, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := closed("x", tt.start, 0)
			tm.Stop = tt.stop
			err := validate(tm, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
