package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"timetrack/internal/models"
	"timetrack/internal/render"
	"timetrack/internal/timeutil"
	"timetrack/internal/tracker"
)

func newStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start TASK [WHEN]",
		Short: "Start a timer, stopping the running one",
		Long: `Start a timer on TASK. Any running timer is stopped at the same instant.
WHEN defaults to now and accepts RFC 3339, "2006-01-02 15:04", "15:04" or
an offset such as -15m (pass offsets after "--").`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			at, err := a.when(svc, joinArgs(args[1:]))
			if err != nil {
				return err
			}
			timer, err := svc.Start(cmd.Context(), args[0], at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "started timer %d on %s at %s\n",
				timer.ID, timer.TaskName, render.Cell(timer.Start, a.loc))
			return nil
		},
	}
}

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop [WHEN]",
		Short: "Stop the running timer",
		Long:  `Stop the running timer at WHEN, which defaults to now. Offsets go after "--": tt stop -- -10m.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			at, err := a.when(svc, joinArgs(args))
			if err != nil {
				return err
			}
			timer, err := svc.Stop(cmd.Context(), at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stopped timer %d on %s after %s\n",
				timer.ID, timer.TaskName, timeutil.FormatDuration(timer.Elapsed(at)))
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			now := svc.Now()

			active, ok, err := svc.ActiveTimer(cmd.Context())
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(out, "%s running for %s (timer %d, since %s)\n", active.TaskName,
					timeutil.FormatDuration(active.Elapsed(now)), active.ID, render.Cell(active.Start, a.loc))
				return nil
			}

			recent, ok, err := svc.MostRecentTimer(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "no timers recorded")
				return nil
			}
			fmt.Fprintf(out, "no active timer; last was %s, stopped %s\n",
				recent.TaskName, render.Cell(recent.Stop, a.loc))
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var (
		task, start, stop string
		clearStop         bool
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a timer's task, start or stop",
		Long: `Change a timer. --clear-stop, or an empty --stop "", makes a stopped
timer run again, which is only allowed while no other timer is running.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTimerID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			update := tracker.TimerUpdate{ClearStop: clearStop}
			flags := cmd.Flags()
			if flags.Changed("task") {
				update.Task = &task
			}
			if update.Start, err = a.optionalWhen(svc, flags.Changed("start"), start); err != nil {
				return err
			}
			if flags.Changed("stop") && strings.TrimSpace(stop) == "" {
				update.ClearStop = true
			} else if update.Stop, err = a.optionalWhen(svc, flags.Changed("stop"), stop); err != nil {
				return err
			}

			timer, err := svc.UpdateTimer(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeTimer(timer, a.loc))
			return nil
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "move the timer to this task")
	cmd.Flags().StringVar(&start, "start", "", "new start instant")
	cmd.Flags().StringVar(&stop, "stop", "", "new stop instant; empty clears it")
	cmd.Flags().BoolVar(&clearStop, "clear-stop", false, "remove the stop instant")
	return cmd
}

func (a *app) optionalWhen(svc *tracker.Service, set bool, phrase string) (*time.Time, error) {
	if !set {
		return nil, nil
	}
	t, err := a.when(svc, phrase)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func newRemoveTimerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTimerID(args[0])
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.DeleteTimer(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed timer %d\n", id)
			return nil
		},
	}
}

func parseTimerID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid timer id %q", raw)
	}
	return id, nil
}

func describeTimer(t models.Timer, loc *time.Location) string {
	stop := "running"
	if t.Stop != nil {
		stop = render.Cell(t.Stop, loc)
	}
	return fmt.Sprintf("timer %d: %s %s - %s", t.ID, t.TaskName, render.Cell(t.Start, loc), stop)
}
