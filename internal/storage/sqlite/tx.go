package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"timetrack/internal/models"
	"timetrack/internal/storage"
)

// tx implements storage.Tx on top of a database/sql transaction.
type tx struct {
	tx *sql.Tx
}

const timerColumns = `SELECT t.id, t.task_id, k.name, t.start, t.stop FROM timers t JOIN tasks k ON k.id = t.task_id`

// CreateTask inserts a task and returns it with its assigned id.
func (t *tx) CreateTask(ctx context.Context, name string, description *string) (models.Task, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO tasks(name, description) VALUES(?, ?)`, name, nullString(description))
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", translate(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("task id: %w", err)
	}
	return t.taskByID(ctx, id)
}

func (t *tx) taskByID(ctx context.Context, id int64) (models.Task, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT id, name, description, created_at FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// TaskByName fetches a single task by its unique name.
func (t *tx) TaskByName(ctx context.Context, name string) (models.Task, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT id, name, description, created_at FROM tasks WHERE name = ?`, name)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// UpdateTask overwrites the name and description of an existing task.
func (t *tx) UpdateTask(ctx context.Context, task models.Task) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE tasks SET name = ?, description = ? WHERE id = ?`, task.Name, nullString(task.Description), task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", translate(err))
	}
	return expectAffected(res, "task", task.ID)
}

// DeleteTask removes a task by id.
func (t *tx) DeleteTask(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", translate(err))
	}
	return expectAffected(res, "task", id)
}

// ListTasks returns all tasks in creation order.
func (t *tx) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := t.tx.QueryContext(ctx, `SELECT id, name, description, created_at FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CreateTimer inserts a timer for timer.TaskID.
func (t *tx) CreateTimer(ctx context.Context, timer models.Timer) (models.Timer, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO timers(task_id, start, stop) VALUES(?, ?, ?)`,
		timer.TaskID, timer.Start.Unix(), nullUnix(timer.Stop))
	if err != nil {
		return models.Timer{}, fmt.Errorf("insert timer: %w", translate(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Timer{}, fmt.Errorf("timer id: %w", err)
	}
	return t.TimerByID(ctx, id)
}

// TimerByID retrieves a timer by id.
func (t *tx) TimerByID(ctx context.Context, id int64) (models.Timer, error) {
	row := t.tx.QueryRowContext(ctx, timerColumns+` WHERE t.id = ?`, id)
	timer, err := scanTimer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Timer{}, fmt.Errorf("timer %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Timer{}, fmt.Errorf("get timer: %w", err)
	}
	return timer, nil
}

// UpdateTimer overwrites the task, start and stop of an existing timer.
func (t *tx) UpdateTimer(ctx context.Context, timer models.Timer) error {
	res, err := t.tx.ExecContext(ctx, `UPDATE timers SET task_id = ?, start = ?, stop = ? WHERE id = ?`,
		timer.TaskID, timer.Start.Unix(), nullUnix(timer.Stop), timer.ID)
	if err != nil {
		return fmt.Errorf("update timer: %w", translate(err))
	}
	return expectAffected(res, "timer", timer.ID)
}

// DeleteTimer removes a timer by id.
func (t *tx) DeleteTimer(ctx context.Context, id int64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM timers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete timer: %w", err)
	}
	return expectAffected(res, "timer", id)
}

// Timers returns the timers matching filter ordered by start and id.
func (t *tx) Timers(ctx context.Context, filter storage.TimerFilter) ([]models.Timer, error) {
	where, args := filterClause(filter)
	rows, err := t.tx.QueryContext(ctx, timerColumns+where+` ORDER BY t.start ASC, t.id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list timers: %w", err)
	}
	defer rows.Close()

	var timers []models.Timer
	for rows.Next() {
		timer, err := scanTimer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan timer: %w", err)
		}
		timers = append(timers, timer)
	}
	return timers, rows.Err()
}

// LatestTimer returns the matching timer with the latest start.
func (t *tx) LatestTimer(ctx context.Context, filter storage.TimerFilter) (models.Timer, error) {
	where, args := filterClause(filter)
	row := t.tx.QueryRowContext(ctx, timerColumns+where+` ORDER BY t.start DESC, t.id DESC LIMIT 1`, args...)
	timer, err := scanTimer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Timer{}, fmt.Errorf("latest timer: %w", storage.ErrNotFound)
	}
	if err != nil {
		return models.Timer{}, fmt.Errorf("latest timer: %w", err)
	}
	return timer, nil
}

// CountTimers counts the timers matching filter.
func (t *tx) CountTimers(ctx context.Context, filter storage.TimerFilter) (int, error) {
	where, args := filterClause(filter)
	var n int
	err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM timers t`+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count timers: %w", err)
	}
	return n, nil
}

func filterClause(f storage.TimerFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !f.StartFrom.IsZero() {
		conds = append(conds, "t.start >= ?")
		args = append(args, f.StartFrom.Unix())
	}
	if !f.StartBefore.IsZero() {
		conds = append(conds, "t.start < ?")
		args = append(args, f.StartBefore.Unix())
	}
	if f.TaskID != 0 {
		conds = append(conds, "t.task_id = ?")
		args = append(args, f.TaskID)
	}
	if f.RunningOnly {
		conds = append(conds, "t.stop IS NULL")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (models.Task, error) {
	var (
		task models.Task
		desc sql.NullString
	)
	if err := row.Scan(&task.ID, &task.Name, &desc, &task.CreatedAt); err != nil {
		return models.Task{}, err
	}
	if desc.Valid {
		task.Description = &desc.String
	}
	return task, nil
}

func scanTimer(row scanner) (models.Timer, error) {
	var (
		timer models.Timer
		start int64
		stop  sql.NullInt64
	)
	if err := row.Scan(&timer.ID, &timer.TaskID, &timer.TaskName, &start, &stop); err != nil {
		return models.Timer{}, err
	}
	timer.Start = time.Unix(start, 0).UTC()
	if stop.Valid {
		ts := time.Unix(stop.Int64, 0).UTC()
		timer.Stop = &ts
	}
	return timer, nil
}

func expectAffected(res sql.Result, kind string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullUnix(ts *time.Time) sql.NullInt64 {
	if ts == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: ts.Unix(), Valid: true}
}
