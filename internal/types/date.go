package types

import (
	"math"
	"time"

	ierr "github.com/stayquote/stayquote/internal/errors"
)

// DateLayout is the calendar date format used across the API
const DateLayout = "2006-01-02"

// StartOfDay truncates t to midnight of its calendar day in UTC
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date into midnight UTC
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHintf("Date %q must use the YYYY-MM-DD format", value).
			Mark(ierr.ErrValidation)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// IsWeekend reports whether the calendar day of t is a Saturday or Sunday
func IsWeekend(t time.Time) bool {
	switch t.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// NightsBetween returns ceil((checkOut - checkIn) in days). The result is
// zero or negative when check-out is not after check-in.
func NightsBetween(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	return int(math.Ceil(hours / 24))
}

// SameDay reports whether a and b fall on the same UTC calendar day
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}
