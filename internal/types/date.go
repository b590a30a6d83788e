// README: Trip date value helpers shared by the concierge and its handlers.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date form used on the wire.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts "YYYY-MM-DD" or an ISO timestamp, which is cut at 'T'.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: want YYYY-MM-DD", ErrInvalidDate, raw)
	}
	return d, nil
}

// DaysBetween counts calendar days from start to end; equal dates give 0.
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// AddDays returns the date n days after d, formatted in DateLayout.
func AddDays(d time.Time, n int) string {
	return d.AddDate(0, 0, n).Format(DateLayout)
}
