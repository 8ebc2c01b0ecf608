// Package render turns built tables into terminal text.
package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"timetrack/internal/datatable"
	"timetrack/internal/timeutil"
)

// TimeLayout is how instants are shown in table cells.
const TimeLayout = "2006-01-02 15:04"

var (
	captionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#20B9B4"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	totalStyle   = cellStyle.Bold(true)
	borderColor  = lipgloss.Color("#16858E")
)

// Renderer writes tables to an output stream.
type Renderer struct {
	w     io.Writer
	loc   *time.Location
	fancy bool
}

// New returns a Renderer writing to w. Instants are shown in loc. Rounded
// borders are used only when w is a terminal.
func New(w io.Writer, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{w: w, loc: loc, fancy: isTerminal(w)}
}

// Table writes t, preceded by its caption when it has one.
func (r *Renderer) Table(t datatable.Table) error {
	if t.Caption != "" {
		if _, err := fmt.Fprintln(r.w, captionStyle.Render(t.Caption)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.w, r.build(t).Render())
	return err
}

// Tables writes every table separated by a blank line.
func (r *Renderer) Tables(tables []datatable.Table) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(r.w); err != nil {
				return err
			}
		}
		if err := r.Table(t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) build(t datatable.Table) *table.Table {
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = Cell(v, r.loc)
		}
		rows = append(rows, cells)
	}

	border := lipgloss.NormalBorder()
	if r.fancy {
		border = lipgloss.RoundedBorder()
	}
	last := len(rows) - 1
	return table.New().
		Border(border).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers(t.Headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == last && isTotal(rows[row]):
				return totalStyle
			}
			return cellStyle
		})
}

func isTotal(row []string) bool {
	return len(row) > 0 && row[0] == "TOTAL"
}

// Cell formats a single table value: durations as HH:MM, instants in loc,
// nil as an empty cell.
func Cell(v any, loc *time.Location) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Duration:
		return timeutil.FormatDuration(x)
	case time.Time:
		return x.In(loc).Format(TimeLayout)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.In(loc).Format(TimeLayout)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// Portable returns a copy of t whose durations are whole seconds, so the
// table can be encoded as JSON without Go-specific units.
func Portable(t datatable.Table) datatable.Table {
	out := datatable.Table{Caption: t.Caption, Headers: t.Headers, Rows: make([][]any, len(t.Rows))}
	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			if d, ok := v.(time.Duration); ok {
				cells[j] = int64(d / time.Second)
				continue
			}
			cells[j] = v
		}
		out.Rows[i] = cells
	}
	return out
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
