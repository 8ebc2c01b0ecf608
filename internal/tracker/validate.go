package tracker

import (
	"time"

	"timetrack/internal/models"
)

const instantLayout = "2006-01-02 15:04:05 MST"

// validate checks the temporal invariants of a candidate timer state:
//
//	stop absent:  start <= now
//	stop present: start < stop and stop <= now
func validate(t models.Timer, now time.Time) error {
	if t.Stop == nil {
		if t.Start.After(now) {
			return errorf(ErrValidationFailed, "start %s is in the future", t.Start.Format(instantLayout))
		}
		return nil
	}
	if !t.Start.Before(*t.Stop) {
		return errorf(ErrValidationFailed, "start %s is not before stop %s",
			t.Start.Format(instantLayout), t.Stop.Format(instantLayout))
	}
	if t.Stop.After(now) {
		return errorf(ErrValidationFailed, "stop %s is in the future", t.Stop.Format(instantLayout))
	}
	return nil
}
