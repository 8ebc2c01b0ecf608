package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidName         = errors.New("invalid name")
	ErrDuplicateName       = errors.New("duplicate name")
	ErrNotFound            = errors.New("not found")
	ErrHasActiveReferences = errors.New("has active references")
	ErrValidationFailed    = errors.New("validation failed")
	ErrNoActiveTimer       = errors.New("no active timer")
)

// Error carries one of the sentinel kinds above plus a caller-facing detail.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
