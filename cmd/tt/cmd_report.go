package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"timetrack/internal/timeparse"
	"timetrack/internal/tracker"
)

// rangeOf resolves --begin/--end, defaulting to the current week.
func (a *app) rangeOf(svc *tracker.Service, begin, end string) (time.Time, time.Time, error) {
	return timeparse.Range(begin, end, svc.Now(), a.loc, a.week)
}

func newRecordsCmd(a *app) *cobra.Command {
	var begin, end string
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List timers, one table per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			from, to, err := a.rangeOf(svc, begin, end)
			if err != nil {
				return err
			}
			tables, err := a.reporter(svc).TimersByDay(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if len(tables) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no timers in range")
				return nil
			}
			return a.renderer(cmd).Tables(tables)
		},
	}
	addRangeFlags(cmd, &begin, &end)
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	var begin, end string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total time per task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			from, to, err := a.rangeOf(svc, begin, end)
			if err != nil {
				return err
			}
			table, err := a.reporter(svc).SummaryByTask(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if len(table.Rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no timers in range")
				return nil
			}
			return a.renderer(cmd).Table(table)
		},
	}
	addRangeFlags(cmd, &begin, &end)
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var begin, end string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Weekly day-by-task tables",
		Long: `Print one table per week in the range with a column per day, a row per
task and TOTAL row and column. Tasks below the threshold are hidden but
still counted in TOTAL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			from, to, err := a.rangeOf(svc, begin, end)
			if err != nil {
				return err
			}
			tables, err := a.reporter(svc).SummaryByDayAndTask(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if len(tables) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no timers in range")
				return nil
			}
			return a.renderer(cmd).Tables(tables)
		},
	}
	addRangeFlags(cmd, &begin, &end)
	addReportFlags(cmd, a)
	return cmd
}
