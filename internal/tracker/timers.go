package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"timetrack/internal/models"
	"timetrack/internal/storage"
)

// TimerUpdate lists the fields to change on a timer. Nil fields are left
// unchanged. ClearStop removes the stop instant, making the timer active
// again; it cannot be combined with Stop.
type TimerUpdate struct {
	Task      *string
	Start     *time.Time
	Stop      *time.Time
	ClearStop bool
}

// Start begins a new timer on taskName at the given instant. A timer that
// is already running is closed at the same instant, in the same transaction.
func (s *Service) Start(ctx context.Context, taskName string, at time.Time) (models.Timer, error) {
	at = at.Truncate(time.Second)
	now := s.Now()
	s.logger.Debug("starting timer", slog.String("task", taskName), slog.Time("start", at))

	var started models.Timer
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		task, err := taskByName(ctx, tx, taskName)
		if err != nil {
			return err
		}

		candidate := models.Timer{TaskID: task.ID, TaskName: task.Name, Start: at}
		if err := validate(candidate, now); err != nil {
			return err
		}

		active, ok, err := activeTimer(ctx, tx)
		if err != nil {
			return err
		}
		if ok {
			active.Stop = &at
			if err := validate(active, now); err != nil {
				return fmt.Errorf("closing timer %d: %w", active.ID, err)
			}
			if err := tx.UpdateTimer(ctx, active); err != nil {
				return err
			}
			s.logger.Debug("closed active timer", slog.Int64("id", active.ID), slog.String("task", active.TaskName))
		}

		started, err = tx.CreateTimer(ctx, candidate)
		return err
	})
	if err != nil {
		return models.Timer{}, err
	}
	return started, nil
}

// Stop closes the active timer at the given instant. It fails with
// ErrNoActiveTimer when nothing is running.
func (s *Service) Stop(ctx context.Context, at time.Time) (models.Timer, error) {
	at = at.Truncate(time.Second)
	now := s.Now()
	s.logger.Debug("stopping timer", slog.Time("stop", at))

	var stopped models.Timer
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		active, ok, err := activeTimer(ctx, tx)
		if err != nil {
			return err
		}
		if !ok {
			return &Error{Kind: ErrNoActiveTimer}
		}
		active.Stop = &at
		if err := validate(active, now); err != nil {
			return err
		}
		if err := tx.UpdateTimer(ctx, active); err != nil {
			return err
		}
		stopped = active
		return nil
	})
	if err != nil {
		return models.Timer{}, err
	}
	return stopped, nil
}

// UpdateTimer applies u to the timer with the given id and validates the
// result as a whole. Nothing is written when validation fails.
func (s *Service) UpdateTimer(ctx context.Context, id int64, u TimerUpdate) (models.Timer, error) {
	if u.ClearStop && u.Stop != nil {
		return models.Timer{}, errorf(ErrValidationFailed, "stop cannot be both set and cleared")
	}
	now := s.Now()
	s.logger.Debug("updating timer", slog.Int64("id", id))

	var updated models.Timer
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		timer, err := timerByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if u.Task != nil {
			task, err := taskByName(ctx, tx, *u.Task)
			if err != nil {
				return err
			}
			timer.TaskID = task.ID
			timer.TaskName = task.Name
		}
		if u.Start != nil {
			start := u.Start.Truncate(time.Second)
			timer.Start = start
		}
		if u.Stop != nil {
			stop := u.Stop.Truncate(time.Second)
			timer.Stop = &stop
		}
		if u.ClearStop {
			timer.Stop = nil
		}

		if err := validate(timer, now); err != nil {
			return err
		}
		if timer.Running() {
			active, ok, err := activeTimer(ctx, tx)
			if err != nil {
				return err
			}
			if ok && active.ID != timer.ID {
				return errorf(ErrValidationFailed, "timer %d is already active", active.ID)
			}
		}

		if err := tx.UpdateTimer(ctx, timer); err != nil {
			return err
		}
		updated = timer
		return nil
	})
	if err != nil {
		return models.Timer{}, err
	}
	return updated, nil
}

// DeleteTimer removes a timer.
func (s *Service) DeleteTimer(ctx context.Context, id int64) error {
	s.logger.Debug("deleting timer", slog.Int64("id", id))

	return s.store.Update(ctx, func(tx storage.Tx) error {
		err := tx.DeleteTimer(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return errorf(ErrNotFound, "no timer with id %d", id)
		}
		return err
	})
}

// Timer looks up a timer by id.
func (s *Service) Timer(ctx context.Context, id int64) (models.Timer, error) {
	var timer models.Timer
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		timer, err = timerByID(ctx, tx, id)
		return err
	})
	return timer, err
}

// LatestTimerForTask returns the most recently started timer of a task.
func (s *Service) LatestTimerForTask(ctx context.Context, taskName string) (models.Timer, error) {
	var timer models.Timer
	err := s.store.View(ctx, func(tx storage.Tx) error {
		task, err := taskByName(ctx, tx, taskName)
		if err != nil {
			return err
		}
		timer, err = tx.LatestTimer(ctx, storage.TimerFilter{TaskID: task.ID})
		if errors.Is(err, storage.ErrNotFound) {
			return errorf(ErrNotFound, "task %q has no timers", taskName)
		}
		return err
	})
	return timer, err
}

// ActiveTimer returns the running timer, if any.
func (s *Service) ActiveTimer(ctx context.Context) (models.Timer, bool, error) {
	var (
		timer models.Timer
		ok    bool
	)
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		timer, ok, err = activeTimer(ctx, tx)
		return err
	})
	return timer, ok, err
}

// MostRecentTimer returns the timer with the latest start, running or not.
func (s *Service) MostRecentTimer(ctx context.Context) (models.Timer, bool, error) {
	var (
		timer models.Timer
		ok    bool
	)
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		timer, err = tx.LatestTimer(ctx, storage.TimerFilter{})
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		ok = err == nil
		return err
	})
	return timer, ok, err
}

// AllTimers returns every timer ordered by start.
func (s *Service) AllTimers(ctx context.Context) ([]models.Timer, error) {
	var timers []models.Timer
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		timers, err = tx.Timers(ctx, storage.TimerFilter{})
		return err
	})
	return timers, err
}

func activeTimer(ctx context.Context, tx storage.Tx) (models.Timer, bool, error) {
	timer, err := tx.LatestTimer(ctx, storage.TimerFilter{RunningOnly: true})
	if errors.Is(err, storage.ErrNotFound) {
		return models.Timer{}, false, nil
	}
	if err != nil {
		return models.Timer{}, false, err
	}
	return timer, true, nil
}

func timerByID(ctx context.Context, tx storage.Tx, id int64) (models.Timer, error) {
	timer, err := tx.TimerByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Timer{}, errorf(ErrNotFound, "no timer with id %d", id)
	}
	return timer, err
}
