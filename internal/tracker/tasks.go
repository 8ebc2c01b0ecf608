package tracker

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"timetrack/internal/models"
	"timetrack/internal/storage"
)

// AddTask creates a task. An empty description is stored as absent.
func (s *Service) AddTask(ctx context.Context, name, description string) (models.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Task{}, errorf(ErrInvalidName, "task name must not be empty")
	}
	s.logger.Debug("adding task", slog.String("name", name))

	var created models.Task
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		if _, err := tx.TaskByName(ctx, name); err == nil {
			return errorf(ErrDuplicateName, "task %q already exists", name)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		task, err := tx.CreateTask(ctx, name, optional(description))
		if errors.Is(err, storage.ErrConflict) {
			return errorf(ErrDuplicateName, "task %q already exists", name)
		}
		if err != nil {
			return err
		}
		created = task
		return nil
	})
	return created, err
}

// RenameTask changes a task's name.
func (s *Service) RenameTask(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errorf(ErrInvalidName, "task name must not be empty")
	}
	s.logger.Debug("renaming task", slog.String("from", oldName), slog.String("to", newName))

	return s.store.Update(ctx, func(tx storage.Tx) error {
		task, err := taskByName(ctx, tx, oldName)
		if err != nil {
			return err
		}
		if other, err := tx.TaskByName(ctx, newName); err == nil && other.ID != task.ID {
			return errorf(ErrDuplicateName, "task %q already exists", newName)
		} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		task.Name = newName
		if err := tx.UpdateTask(ctx, task); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return errorf(ErrDuplicateName, "task %q already exists", newName)
			}
			return err
		}
		return nil
	})
}

// DescribeTask sets a task's description; an empty string clears it.
func (s *Service) DescribeTask(ctx context.Context, name, description string) error {
	s.logger.Debug("describing task", slog.String("name", name))

	return s.store.Update(ctx, func(tx storage.Tx) error {
		task, err := taskByName(ctx, tx, name)
		if err != nil {
			return err
		}
		task.Description = optional(description)
		return tx.UpdateTask(ctx, task)
	})
}

// RemoveTask deletes a task that no timer references.
func (s *Service) RemoveTask(ctx context.Context, name string) error {
	s.logger.Debug("removing task", slog.String("name", name))

	return s.store.Update(ctx, func(tx storage.Tx) error {
		task, err := taskByName(ctx, tx, name)
		if err != nil {
			return err
		}
		n, err := tx.CountTimers(ctx, storage.TimerFilter{TaskID: task.ID})
		if err != nil {
			return err
		}
		if n > 0 {
			return errorf(ErrHasActiveReferences, "task %q has %d timers", name, n)
		}
		if err := tx.DeleteTask(ctx, task.ID); err != nil {
			if errors.Is(err, storage.ErrReferenced) {
				return errorf(ErrHasActiveReferences, "task %q has timers", name)
			}
			return err
		}
		return nil
	})
}

// ListTasks returns all tasks in creation order.
func (s *Service) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		tasks, err = tx.ListTasks(ctx)
		return err
	})
	return tasks, err
}

// Task looks up a task by name.
func (s *Service) Task(ctx context.Context, name string) (models.Task, error) {
	var task models.Task
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		task, err = taskByName(ctx, tx, name)
		return err
	})
	return task, err
}

func taskByName(ctx context.Context, tx storage.Tx, name string) (models.Task, error) {
	task, err := tx.TaskByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Task{}, errorf(ErrNotFound, "no task named %q", name)
	}
	return task, err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
