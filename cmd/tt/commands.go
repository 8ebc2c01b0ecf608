package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"timetrack/internal/config"
	"timetrack/internal/tracker"
)

// newRootCmd builds the command tree. Logs go to errw; clock supplies the
// current instant.
func newRootCmd(errw io.Writer, clock tracker.Clock) *cobra.Command {
	a := &app{clock: clock, errw: errw}

	root := &cobra.Command{
		Use:           "tt",
		Short:         "Track time spent on tasks",
		Long:          "tt records timers against named tasks and summarises them by day, task and week.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	root.SetErr(errw)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultPath(), "path to the YAML config file")
	pf.StringVar(&a.dbPath, "db", "", "path to the sqlite database (overrides config)")
	pf.StringVar(&a.timezone, "timezone", "", "IANA zone for calendar dates, or Local")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newTaskCmd(a),
		newStartCmd(a),
		newStopCmd(a),
		newStatusCmd(a),
		newEditCmd(a),
		newRemoveTimerCmd(a),
		newRecordsCmd(a),
		newSummaryCmd(a),
		newReportCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return root
}

// addRangeFlags registers --begin/--end on commands that read a range.
func addRangeFlags(cmd *cobra.Command, begin, end *string) {
	cmd.Flags().StringVarP(begin, "begin", "b", "", "start of the range, e.g. 2018-03-01, today, month, year (default: start of this week)")
	cmd.Flags().StringVarP(end, "end", "e", "", "end of the range, exclusive (default: end of this week)")
}

// addReportFlags registers the weekly layout overrides.
func addReportFlags(cmd *cobra.Command, a *app) {
	cmd.Flags().StringVar(&a.weekStart, "week-start", "", "first day of the week: monday or sunday")
	cmd.Flags().DurationVar(&a.threshold, "threshold", 0, "hide tasks with less weekly time than this")
	cmd.Flags().BoolVar(&a.businessDays, "business-days", false, "show Monday to Friday only")
}

// joinArgs lets time phrases such as 2018-03-10 09:00 be passed unquoted.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
