package models

import "time"

// Task is a named unit of work that timers accrue against.
type Task struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DescriptionText returns the description or an empty string when unset.
func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// Timer is one continuous interval of work on a task. A nil Stop marks the
// timer as running.
type Timer struct {
	ID       int64      `json:"id"`
	TaskID   int64      `json:"task_id"`
	TaskName string     `json:"task"`
	Start    time.Time  `json:"start"`
	Stop     *time.Time `json:"stop,omitempty"`
}

// Running reports whether the timer has no stop instant yet.
func (t Timer) Running() bool {
	return t.Stop == nil
}

// Elapsed returns stop-start, or now-start while the timer is running.
func (t Timer) Elapsed(now time.Time) time.Duration {
	if t.Stop == nil {
		return now.Sub(t.Start)
	}
	return t.Stop.Sub(t.Start)
}
