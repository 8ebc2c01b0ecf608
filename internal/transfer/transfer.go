// Package transfer reads and writes timer history as JSON lines, one
// {"task", "start", "elapsed"} object per timer.
package transfer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"timetrack/internal/models"
	"timetrack/internal/tracker"
)

// ErrTimerRunning is returned by Import while a timer is active; replaying
// history would stop it.
var ErrTimerRunning = errors.New("a timer is running")

// Record is one exported timer. Elapsed is in whole seconds.
type Record struct {
	Task    string `json:"task"`
	Start   string `json:"start"`
	Elapsed int64  `json:"elapsed"`
}

// Source provides the timers to export.
type Source interface {
	Now() time.Time
	TimersIntersecting(ctx context.Context, start, end time.Time) ([]models.Timer, error)
}

// Sink replays imported timers.
type Sink interface {
	ActiveTimer(ctx context.Context) (models.Timer, bool, error)
	AddTask(ctx context.Context, name, description string) (models.Task, error)
	Start(ctx context.Context, taskName string, at time.Time) (models.Timer, error)
	Stop(ctx context.Context, at time.Time) (models.Timer, error)
}

// Export writes every timer, ordered by start, and returns how many were
// written. Running timers are exported with their elapsed time so far;
// one that started less than a second ago is skipped.
func Export(ctx context.Context, src Source, w io.Writer) (int, error) {
	timers, err := src.TimersIntersecting(ctx, time.Time{}, time.Time{})
	if err != nil {
		return 0, err
	}
	now := src.Now()

	enc := json.NewEncoder(w)
	written := 0
	for _, t := range timers {
		rec := Record{
			Task:    t.TaskName,
			Start:   t.Start.UTC().Format(time.RFC3339),
			Elapsed: int64(t.Elapsed(now) / time.Second),
		}
		if rec.Elapsed <= 0 && t.Running() {
			continue
		}
		if err := enc.Encode(rec); err != nil {
			return written, fmt.Errorf("write timer %d: %w", t.ID, err)
		}
		written++
	}
	return written, nil
}

// Import replays each line of r as a task creation, a start and a stop.
// Tasks that already exist are reused. Blank lines are skipped. The first
// failing line aborts the import; timers from earlier lines are kept.
// Import refuses to run while dst has an active timer.
func Import(ctx context.Context, dst Sink, r io.Reader) (int, error) {
	active, ok, err := dst.ActiveTimer(ctx)
	if err != nil {
		return 0, err
	}
	if ok {
		return 0, fmt.Errorf("%w: stop timer %d on %s before importing", ErrTimerRunning, active.ID, active.TaskName)
	}

	scanner := bufio.NewScanner(r)
	imported := 0
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		rec, start, err := parse(text)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if err := replay(ctx, dst, rec, start); err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return imported, err
	}
	return imported, nil
}

func parse(text string) (Record, time.Time, error) {
	var rec Record
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return Record{}, time.Time{}, fmt.Errorf("decode record: %w", err)
	}
	if rec.Task == "" {
		return Record{}, time.Time{}, errors.New("missing task")
	}
	if rec.Elapsed <= 0 {
		return Record{}, time.Time{}, fmt.Errorf("elapsed must be positive, got %d", rec.Elapsed)
	}
	start, err := time.Parse(time.RFC3339, rec.Start)
	if err != nil {
		return Record{}, time.Time{}, fmt.Errorf("parse start: %w", err)
	}
	return rec, start, nil
}

func replay(ctx context.Context, dst Sink, rec Record, start time.Time) error {
	if _, err := dst.AddTask(ctx, rec.Task, ""); err != nil && !errors.Is(err, tracker.ErrDuplicateName) {
		return err
	}
	if _, err := dst.Start(ctx, rec.Task, start); err != nil {
		return err
	}
	_, err := dst.Stop(ctx, start.Add(time.Duration(rec.Elapsed)*time.Second))
	return err
}
