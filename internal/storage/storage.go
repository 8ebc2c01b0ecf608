// Package storage defines the record store contract used by the tracker.
package storage

import (
	"context"
	"errors"
	"time"

	"timetrack/internal/models"
)

var (
	// ErrNotFound is returned when a record lookup matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record conflicts with an existing record")
	// ErrReferenced is returned when a delete is blocked by dependent records.
	ErrReferenced = errors.New("record is referenced by other records")
)

// TimerFilter narrows a timer query. Zero fields do not filter.
type TimerFilter struct {
	// StartFrom keeps timers with Start >= StartFrom.
	StartFrom time.Time
	// StartBefore keeps timers with Start < StartBefore.
	StartBefore time.Time
	TaskID      int64
	RunningOnly bool
}

// Tx is a unit of work against the store. All reads made through a Tx
// observe the same snapshot.
type Tx interface {
	CreateTask(ctx context.Context, name string, description *string) (models.Task, error)
	TaskByName(ctx context.Context, name string) (models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) error
	DeleteTask(ctx context.Context, id int64) error
	ListTasks(ctx context.Context) ([]models.Task, error)

	CreateTimer(ctx context.Context, timer models.Timer) (models.Timer, error)
	TimerByID(ctx context.Context, id int64) (models.Timer, error)
	UpdateTimer(ctx context.Context, timer models.Timer) error
	DeleteTimer(ctx context.Context, id int64) error
	// Timers returns matching timers ordered by start, then id.
	Timers(ctx context.Context, filter TimerFilter) ([]models.Timer, error)
	// LatestTimer returns the timer with the greatest start among matches.
	LatestTimer(ctx context.Context, filter TimerFilter) (models.Timer, error)
	CountTimers(ctx context.Context, filter TimerFilter) (int, error)
}

// Store hands out transactions. Update commits when fn returns nil and
// rolls back otherwise; View always rolls back.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
}
