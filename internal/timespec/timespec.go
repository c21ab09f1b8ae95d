// Package timespec parses the compact HHMMSS digit strings used to pick cut
// points, e.g. "45" (45s), "3245" (32m45s) and "013245" (1h32m45s).
package timespec

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var digitsPattern = regexp.MustCompile(`^[0-9]{1,6}$`)

// TimeSpec is a non-negative offset into a video, in whole seconds. It keeps
// the digit string it was parsed from so output names can reuse it verbatim.
type TimeSpec struct {
	digits  string
	seconds int
}

// Parse reads a 1 to 6 digit string, grouped in pairs from the right into
// seconds, minutes and hours. Minutes and seconds must be 00-59; the hours
// group is unbounded within its two digits.
func Parse(digits string) (TimeSpec, error) {
	if !digitsPattern.MatchString(digits) {
		return TimeSpec{}, &ParseError{Input: digits, Err: ErrInvalidFormat}
	}

	groups := splitGroups(digits)
	hours, minutes, seconds := groups[0], groups[1], groups[2]

	if minutes > 59 {
		return TimeSpec{}, &ParseError{Input: digits, Field: "minutes", Err: ErrOutOfRange}
	}
	if seconds > 59 {
		return TimeSpec{}, &ParseError{Input: digits, Field: "seconds", Err: ErrOutOfRange}
	}

	return TimeSpec{
		digits:  digits,
		seconds: hours*3600 + minutes*60 + seconds,
	}, nil
}

// splitGroups tokenizes a validated digit string into [hours, minutes, seconds],
// taking two digits at a time from the right. Missing groups are zero.
func splitGroups(digits string) [3]int {
	var groups [3]int
	end := len(digits)
	for i := len(groups) - 1; i >= 0 && end > 0; i-- {
		start := max(end-2, 0)
		// digitsPattern guarantees every group is numeric
		groups[i], _ = strconv.Atoi(digits[start:end])
		end = start
	}
	return groups
}

// FromSeconds builds a TimeSpec from a seconds count. Negative values are
// clamped to zero. Its Digits are the shortest HHMMSS form of the value.
func FromSeconds(seconds int) TimeSpec {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60

	var digits string
	switch {
	case h > 0:
		digits = fmt.Sprintf("%d%02d%02d", h, m, s)
	case m > 0:
		digits = fmt.Sprintf("%d%02d", m, s)
	default:
		digits = strconv.Itoa(s)
	}
	return TimeSpec{digits: digits, seconds: seconds}
}

// Seconds returns the total offset in seconds.
func (t TimeSpec) Seconds() int {
	return t.seconds
}

// Digits returns the digit string the value was parsed from.
func (t TimeSpec) Digits() string {
	return t.digits
}

func (t TimeSpec) Duration() time.Duration {
	return time.Duration(t.seconds) * time.Second
}

// Clock renders the offset as HH:MM:SS.mmm.
func (t TimeSpec) Clock() string {
	return FormatClock(t.Duration())
}

func (t TimeSpec) String() string {
	return t.Clock()
}

// ValidateOrder reports ErrEndNotAfterStart unless end is strictly after start.
func ValidateOrder(start, end TimeSpec) error {
	if end.seconds > start.seconds {
		return nil
	}
	return fmt.Errorf(
		"%w: end %s is not after start %s",
		ErrEndNotAfterStart,
		end.Clock(),
		start.Clock(),
	)
}

// FormatClock renders d as HH:MM:SS.mmm. Hours are not wrapped at 24.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	secs := float64(ms%60_000) / 1000
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}
