package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"timetrack/internal/config"
	"timetrack/internal/render"
	"timetrack/internal/report"
	"timetrack/internal/storage/sqlite"
	"timetrack/internal/timeparse"
	"timetrack/internal/tracker"
)

// app carries the state shared by every command of one invocation.
type app struct {
	clock tracker.Clock
	errw  io.Writer

	// flags
	configPath   string
	dbPath       string
	verbose      bool
	timezone     string
	weekStart    string
	threshold    time.Duration
	businessDays bool

	cfg    config.Config
	loc    *time.Location
	week   time.Weekday
	logger *slog.Logger

	store   *sqlite.Store
	tracker *tracker.Service
}

// setup loads configuration, lets explicitly set flags override it and
// builds the logger. The store is opened lazily by service.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database = a.dbPath
	}
	if flags.Changed("timezone") {
		cfg.Timezone = a.timezone
	}
	if flags.Changed("week-start") {
		cfg.WeekStart = a.weekStart
	}
	if flags.Changed("threshold") {
		cfg.Threshold = a.threshold
	}
	if flags.Changed("business-days") {
		cfg.BusinessDays = a.businessDays
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.loc, _ = cfg.Location()
	a.week, _ = cfg.Weekday()
	level, _ := cfg.Level()
	a.logger = slog.New(slog.NewTextHandler(a.errw, &slog.HandlerOptions{Level: level}))
	return nil
}

// service opens the store on first use.
func (a *app) service() (*tracker.Service, error) {
	if a.tracker != nil {
		return a.tracker, nil
	}
	store, err := sqlite.Open(a.cfg.Database, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.store = store
	a.tracker = tracker.New(store, tracker.Options{
		Clock:    a.clock,
		Location: a.loc,
		Logger:   a.logger,
	})
	return a.tracker, nil
}

func (a *app) reporter(svc *tracker.Service) *report.Reporter {
	return report.New(svc, report.Config{
		Location:     a.loc,
		WeekStart:    a.week,
		Threshold:    a.cfg.Threshold,
		BusinessDays: a.cfg.BusinessDays,
	})
}

func (a *app) renderer(cmd *cobra.Command) *render.Renderer {
	return render.New(cmd.OutOrStdout(), a.loc)
}

// when resolves a time phrase against the current instant.
func (a *app) when(svc *tracker.Service, phrase string) (time.Time, error) {
	return timeparse.Resolve(phrase, svc.Now(), a.loc)
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store, a.tracker = nil, nil
	return err
}
