// Package report composes pivot tables out of the tracker's range queries.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timetrack/internal/datatable"
	"timetrack/internal/timeutil"
	"timetrack/internal/tracker"
)

// DefaultThreshold is the smallest weekly task total shown on its own row.
const DefaultThreshold = 15 * time.Minute

const (
	dayKey     = "2006-01-02"
	dayHeader  = "Mon 01/02"
	totalLabel = "TOTAL"
)

// ErrUnbounded is returned when a weekly summary is asked for an open range.
var ErrUnbounded = errors.New("report: weekly summary needs both range bounds")

// Querier is the read side of the tracker that reports are built from.
type Querier interface {
	Now() time.Time
	GroupByDate(ctx context.Context, start, end time.Time) ([]tracker.DateBucket, error)
	GroupByTask(ctx context.Context, start, end time.Time) ([]tracker.TaskBucket, error)
	GroupByDateAndTask(ctx context.Context, start, end time.Time) ([]tracker.DateTaskBucket, error)
}

// Config controls how weeks are laid out.
type Config struct {
	// Location decides calendar dates and week boundaries. Defaults to time.Local.
	Location *time.Location
	// WeekStart is the first column of every weekly table.
	WeekStart time.Weekday
	// Threshold hides tasks whose weekly total is below it. Their time
	// still counts towards the TOTAL row.
	Threshold time.Duration
	// BusinessDays drops Saturday and Sunday columns and their data.
	BusinessDays bool
}

// Reporter builds the tabular reports.
type Reporter struct {
	q   Querier
	cfg Config
}

// New returns a Reporter reading from q.
func New(q Querier, cfg Config) *Reporter {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Reporter{q: q, cfg: cfg}
}

// SummaryByDayAndTask returns one table per week intersecting [start, end)
// that has any recorded time. Columns are the days of the week, rows are
// tasks, and a trailing TOTAL row sums every column. Days of a week that
// fall outside [start, end) are left empty.
func (r *Reporter) SummaryByDayAndTask(ctx context.Context, start, end time.Time) ([]datatable.Table, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrUnbounded
	}
	loc := r.cfg.Location
	start, end = start.In(loc), end.In(loc)
	if !start.Before(end) {
		return nil, nil
	}

	var tables []datatable.Table
	for _, week := range timeutil.Weeks(start, end, r.cfg.WeekStart) {
		weekEnd := week.AddDate(0, 0, 7)
		from, to := later(week, start), earlier(weekEnd, end)

		buckets, err := r.q.GroupByDateAndTask(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("week of %s: %w", week.Format(dayKey), err)
		}
		if r.cfg.BusinessDays {
			buckets = weekdaysOnly(buckets)
		}
		if len(buckets) == 0 {
			continue
		}
		tables = append(tables, r.weekTable(week, from, to, buckets))
	}
	return tables, nil
}

func (r *Reporter) weekTable(week, from, to time.Time, buckets []tracker.DateTaskBucket) datatable.Table {
	days := timeutil.Days(week, week.AddDate(0, 0, 6), r.cfg.BusinessDays)
	keys := make([]string, 0, len(days))
	headers := make(map[string]string, len(days))
	for _, d := range days {
		k := d.Format(dayKey)
		keys = append(keys, k)
		headers[k] = d.Format(dayHeader)
	}

	var order []string
	rows := map[string]datatable.Row{}
	totals := map[string]time.Duration{}
	for _, b := range buckets {
		k := b.Date.Format(dayKey)
		for _, tb := range b.Tasks {
			row, ok := rows[tb.Task]
			if !ok {
				row = datatable.Row{}
				rows[tb.Task] = row
				order = append(order, tb.Task)
			}
			row[k] = tb.Elapsed
			totals[tb.Task] += tb.Elapsed
		}
	}

	dt := datatable.New()
	dt.Headers = keys
	dt.HeaderFunc = func(k string) string { return headers[k] }
	dt.LabelHeader = "Task"
	dt.SummaryHeader = "Total"
	dt.Caption = timeutil.WeekTitle(week)

	// The TOTAL row has a cell for every day overlapping [from, to), even
	// when nothing was recorded on it.
	totalRow := datatable.Row{}
	for _, d := range days {
		if d.Before(to) && d.AddDate(0, 0, 1).After(from) {
			totalRow[d.Format(dayKey)] = time.Duration(0)
		}
	}

	var grand time.Duration
	for _, task := range order {
		total := totals[task]
		grand += total
		for k, v := range rows[task] {
			sum, _ := totalRow[k].(time.Duration)
			totalRow[k] = sum + v.(time.Duration)
		}
		if total == 0 || total < r.cfg.Threshold {
			continue
		}
		dt.Append(rows[task], task, total)
	}
	dt.Append(totalRow, totalLabel, grand)
	return dt.Build()
}

// SummaryByTask returns a single table with the time spent on each task in
// [start, end), followed by a TOTAL row. An empty range yields a table with
// no rows.
func (r *Reporter) SummaryByTask(ctx context.Context, start, end time.Time) (datatable.Table, error) {
	buckets, err := r.q.GroupByTask(ctx, start, end)
	if err != nil {
		return datatable.Table{}, err
	}

	dt := datatable.New()
	dt.Headers = []string{"elapsed"}
	dt.LabelHeader = "Task"

	var total time.Duration
	for _, b := range buckets {
		dt.Append(datatable.Row{"elapsed": b.Elapsed}, b.Task, nil)
		total += b.Elapsed
	}
	if len(buckets) > 0 {
		dt.Append(datatable.Row{"elapsed": total}, totalLabel, nil)
	}
	return dt.Build(), nil
}

// TimersByDay returns one table per calendar day in [start, end) listing
// the timers started on it.
func (r *Reporter) TimersByDay(ctx context.Context, start, end time.Time) ([]datatable.Table, error) {
	days, err := r.q.GroupByDate(ctx, start, end)
	if err != nil {
		return nil, err
	}
	now := r.q.Now()

	tables := make([]datatable.Table, 0, len(days))
	for _, day := range days {
		dt := datatable.New()
		dt.Headers = []string{"id", "task", "start", "stop", "elapsed"}
		dt.Caption = day.Date.Format("Mon Jan 02, 2006")
		for _, t := range day.Timers {
			row := datatable.Row{
				"id":      t.ID,
				"task":    t.TaskName,
				"start":   t.Start.In(r.cfg.Location),
				"elapsed": t.Elapsed(now),
			}
			if t.Stop != nil {
				row["stop"] = t.Stop.In(r.cfg.Location)
			}
			dt.Append(row, nil, nil)
		}
		tables = append(tables, dt.Build())
	}
	return tables, nil
}

func weekdaysOnly(buckets []tracker.DateTaskBucket) []tracker.DateTaskBucket {
	kept := buckets[:0:0]
	for _, b := range buckets {
		if !timeutil.IsWeekend(b.Date) {
			kept = append(kept, b)
		}
	}
	return kept
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
