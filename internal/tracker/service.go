// Package tracker implements the task registry, the timer lifecycle and the
// range queries over recorded timers.
//
// Every mutating operation runs in exactly one store transaction: the
// invariant checks, the change and any side effect (such as closing the
// previously active timer) commit together or not at all. Reads run in a
// snapshot transaction and nothing is cached between calls.
package tracker

import (
	"io"
	"log/slog"
	"time"

	"timetrack/internal/storage"
)

// Clock returns the current instant.
type Clock func() time.Time

// Options configures a Service. Zero values select the defaults.
type Options struct {
	// Clock defaults to time.Now.
	Clock Clock
	// Location is used to bucket timers by calendar date. Defaults to time.Local.
	Location *time.Location
	Logger   *slog.Logger
}

// Service is the entry point for task and timer operations.
type Service struct {
	store  storage.Store
	clock  Clock
	loc    *time.Location
	logger *slog.Logger
}

// New constructs a Service on top of store.
func New(store storage.Store, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:  store,
		clock:  opts.Clock,
		loc:    opts.Location,
		logger: opts.Logger,
	}
}

// Now returns the current instant truncated to the second, which is the
// resolution timers are stored at.
func (s *Service) Now() time.Time {
	return s.clock().Truncate(time.Second)
}

// Location returns the zone used for calendar-date bucketing.
func (s *Service) Location() *time.Location {
	return s.loc
}
