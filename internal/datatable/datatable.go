// Package datatable shapes heterogeneous rows into a rectangular table.
//
// Rows are maps from column key to value. Unless explicit headers are
// given, the columns are the sorted union of all row keys. Each row may
// carry a leading label and a trailing summary value; those columns only
// appear when at least one row provides a value for them. Missing cells are
// represented as nil, never rejected.
package datatable

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// Row maps column keys to cell values.
type Row map[string]any

// Table is the built, render-ready form of a Datatable. Every row has
// exactly len(Headers) cells.
type Table struct {
	Caption string   `json:"caption,omitempty"`
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

// Datatable accumulates rows. The exported fields may be set before the
// first call to Build.
type Datatable struct {
	// Headers fixes the data columns and their order. Keys absent from
	// every row still produce a column of empty cells.
	Headers []string
	// Labels and Summaries hold per-row values aligned with the rows.
	// Shorter slices leave the remaining rows without a value.
	Labels    []any
	Summaries []any

	LabelHeader   string
	SummaryHeader string
	Caption       string

	// HeaderFunc formats data column headers. Defaults to Capitalize.
	HeaderFunc func(string) string
	// LabelFunc, SummaryFunc and ValueFunc transform non-nil cells.
	// They default to the identity.
	LabelFunc   func(any) any
	SummaryFunc func(any) any
	ValueFunc   func(any) any

	rows []Row
}

// New returns a Datatable holding rows.
func New(rows ...Row) *Datatable {
	return &Datatable{rows: append([]Row(nil), rows...)}
}

// Append adds a row with an optional label and summary (nil for none).
func (d *Datatable) Append(row Row, label, summary any) {
	n := len(d.rows)
	d.rows = append(d.rows, row)
	d.Labels = append(alignTo(d.Labels, n), label)
	d.Summaries = append(alignTo(d.Summaries, n), summary)
}

// alignTo pads values with nils, or cuts it, to length n.
func alignTo(values []any, n int) []any {
	if len(values) > n {
		return values[:n]
	}
	for len(values) < n {
		values = append(values, nil)
	}
	return values
}

// Len returns the number of rows appended so far.
func (d *Datatable) Len() int {
	return len(d.rows)
}

// Build produces the headers and the filled cell matrix.
func (d *Datatable) Build() Table {
	keys := d.Headers
	if len(keys) == 0 {
		keys = unionKeys(d.rows)
	}

	headerFn := d.HeaderFunc
	if headerFn == nil {
		headerFn = Capitalize
	}
	hasLabels := anyPresent(d.Labels, len(d.rows))
	hasSummaries := anyPresent(d.Summaries, len(d.rows))

	headers := make([]string, 0, len(keys)+2)
	if hasLabels {
		headers = append(headers, d.LabelHeader)
	}
	for _, k := range keys {
		headers = append(headers, headerFn(k))
	}
	if hasSummaries {
		headers = append(headers, d.SummaryHeader)
	}

	rows := make([][]any, 0, len(d.rows))
	for i, row := range d.rows {
		cells := make([]any, 0, len(headers))
		if hasLabels {
			cells = append(cells, apply(d.LabelFunc, at(d.Labels, i)))
		}
		for _, k := range keys {
			cells = append(cells, apply(d.ValueFunc, row[k]))
		}
		if hasSummaries {
			cells = append(cells, apply(d.SummaryFunc, at(d.Summaries, i)))
		}
		rows = append(rows, cells)
	}

	return Table{Caption: d.Caption, Headers: headers, Rows: rows}
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	rest := []rune(s[size:])
	for i, c := range rest {
		rest[i] = unicode.ToLower(c)
	}
	return string(unicode.ToUpper(r)) + string(rest)
}

func unionKeys(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func anyPresent(values []any, n int) bool {
	for i, v := range values {
		if i >= n {
			break
		}
		if v != nil {
			return true
		}
	}
	return false
}

func at(values []any, i int) any {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func apply(fn func(any) any, v any) any {
	if fn == nil || v == nil {
		return v
	}
	return fn(v)
}
