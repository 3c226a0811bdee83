package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for booking dates.
const DateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" calendar date. The result is midnight UTC;
// callers that need wall-clock comparisons combine it with a TimeOfDay and a
// location.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ISOWeekday maps a time to a Monday-based weekday index (0=Monday .. 6=Sunday),
// the convention used by branch schedules.
func ISOWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
