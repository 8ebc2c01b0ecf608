package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetrack/internal/datatable"
)

func TestCell(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	ts := time.Date(2018, 3, 1, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		give any
		want string
	}{
		{"nil", nil, ""},
		{"string", "writing", "writing"},
		{"duration", 90 * time.Minute, "01:30"},
		{"time in location", ts, "2018-03-01 09:30"},
		{"nil time pointer", (*time.Time)(nil), ""},
		{"id", int64(42), "42"},
		{"int", 7, "7"},
		{"fallback", 1.5, "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cell(tt.give, est))
		})
	}
}

func TestRenderer_Table(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, time.UTC)

	err := r.Table(datatable.Table{
		Caption: "Jan 01 - Jan 07, 2018",
		Headers: []string{"Task", "Mon 01/01", "Total"},
		Rows: [][]any{
			{"writing", 2 * time.Hour, 2 * time.Hour},
			{"TOTAL", nil, 2 * time.Hour},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Jan 01 - Jan 07, 2018\n"))
	for _, want := range []string{"Task", "Mon 01/01", "writing", "02:00", "TOTAL"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderer_TablesSeparatesWithBlankLine(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, time.UTC)

	err := r.Tables([]datatable.Table{
		{Caption: "first", Headers: []string{"A"}, Rows: [][]any{{"x"}}},
		{Caption: "second", Headers: []string{"A"}, Rows: [][]any{{"y"}}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\n\nsecond\n")
}

func TestPortable(t *testing.T) {
	ts := time.Date(2018, 3, 1, 14, 30, 0, 0, time.UTC)
	in := datatable.Table{
		Headers: []string{"Task", "Elapsed", "Start"},
		Rows:    [][]any{{"one", 90 * time.Minute, ts}},
	}

	out := Portable(in)
	assert.Equal(t, [][]any{{"one", int64(5400), ts}}, out.Rows)
	assert.Equal(t, 90*time.Minute, in.Rows[0][1])
}
