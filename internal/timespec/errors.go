package timespec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned for input that is not 1 to 6 ASCII digits.
	ErrInvalidFormat = errors.New("invalid time format")
	// ErrOutOfRange is returned when the minutes or seconds group is above 59.
	ErrOutOfRange = errors.New("time field out of range")
	// ErrEndNotAfterStart is returned when the end time is not strictly
	// greater than the start time.
	ErrEndNotAfterStart = errors.New("end time must be greater than start time")
)

// ParseError describes why a time string was rejected. It unwraps to one of
// the sentinel errors above.
type ParseError struct {
	Input string
	Field string // "minutes" or "seconds" for range errors
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%v: %s in %q must be between 00 and 59", e.Err, e.Field, e.Input)
	}
	return fmt.Sprintf(
		"%v: %q must be 1 to 6 digits (HHMMSS, MMSS or SS)",
		e.Err,
		e.Input,
	)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
