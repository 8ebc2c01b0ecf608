package tracker

import (
	"context"
	"time"

	"timetrack/internal/models"
	"timetrack/internal/storage"
)

// DateBucket groups the timers started on one calendar date.
type DateBucket struct {
	Date    time.Time
	Timers  []models.Timer
	Elapsed time.Duration
}

// TaskBucket groups the timers of one task.
type TaskBucket struct {
	Task    string
	Timers  []models.Timer
	Elapsed time.Duration
}

// DateTaskBucket groups the timers started on one calendar date by task.
type DateTaskBucket struct {
	Date    time.Time
	Tasks   []TaskBucket
	Elapsed time.Duration
}

// TimersIntersecting returns the timers whose start lies in [start, end),
// ordered by start. A zero start or end leaves that side unbounded.
func (s *Service) TimersIntersecting(ctx context.Context, start, end time.Time) ([]models.Timer, error) {
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return nil, nil
	}
	var timers []models.Timer
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		timers, err = tx.Timers(ctx, storage.TimerFilter{StartFrom: start, StartBefore: end})
		return err
	})
	return timers, err
}

// GroupByDate buckets the timers in [start, end) by the local calendar date
// of their start. Buckets are ordered by date.
func (s *Service) GroupByDate(ctx context.Context, start, end time.Time) ([]DateBucket, error) {
	timers, err := s.TimersIntersecting(ctx, start, end)
	if err != nil {
		return nil, err
	}
	now := s.Now()

	var buckets []DateBucket
	for _, t := range timers {
		day := s.dateOf(t.Start)
		if n := len(buckets); n == 0 || !buckets[n-1].Date.Equal(day) {
			buckets = append(buckets, DateBucket{Date: day})
		}
		b := &buckets[len(buckets)-1]
		b.Timers = append(b.Timers, t)
		b.Elapsed += t.Elapsed(now)
	}
	return buckets, nil
}

// GroupByTask buckets the timers in [start, end) by task name, in order of
// each task's first timer.
func (s *Service) GroupByTask(ctx context.Context, start, end time.Time) ([]TaskBucket, error) {
	timers, err := s.TimersIntersecting(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return groupTasks(timers, s.Now()), nil
}

// GroupByDateAndTask buckets the timers in [start, end) by local date, then
// by task within each date.
func (s *Service) GroupByDateAndTask(ctx context.Context, start, end time.Time) ([]DateTaskBucket, error) {
	days, err := s.GroupByDate(ctx, start, end)
	if err != nil {
		return nil, err
	}
	now := s.Now()

	buckets := make([]DateTaskBucket, 0, len(days))
	for _, d := range days {
		b := DateTaskBucket{Date: d.Date, Tasks: groupTasks(d.Timers, now)}
		for _, tb := range b.Tasks {
			b.Elapsed += tb.Elapsed
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}

func groupTasks(timers []models.Timer, now time.Time) []TaskBucket {
	index := make(map[string]int)
	var buckets []TaskBucket
	for _, t := range timers {
		i, ok := index[t.TaskName]
		if !ok {
			i = len(buckets)
			index[t.TaskName] = i
			buckets = append(buckets, TaskBucket{Task: t.TaskName})
		}
		buckets[i].Timers = append(buckets[i].Timers, t)
		buckets[i].Elapsed += t.Elapsed(now)
	}
	return buckets
}

func (s *Service) dateOf(ts time.Time) time.Time {
	y, m, d := ts.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}
