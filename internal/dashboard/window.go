package dashboard

import (
	"errors"
	"fmt"
	"time"
)

// Window selects the time range a dashboard load covers.
type Window string

const (
	WindowAll   Window = "all"
	WindowHour  Window = "hour"
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

// Windows lists every selector in display order.
var Windows = []Window{WindowAll, WindowHour, WindowDay, WindowWeek, WindowMonth, WindowYear}

// ErrInvalidWindow rejects unrecognised window selectors. Unknown tokens
// never silently fall back to a default range.
var ErrInvalidWindow = errors.New("invalid time window")

// ParseWindow validates a raw selector token.
func ParseWindow(raw string) (Window, error) {
	switch w := Window(raw); w {
	case WindowAll, WindowHour, WindowDay, WindowWeek, WindowMonth, WindowYear:
		return w, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWindow, raw)
}

// Cutoff resolves the earliest timestamp a record must carry to fall
// inside the window, relative to now. WindowAll returns nil: no cutoff.
// Month and year subtraction follow calendar rollback semantics, so one
// month before 2024-03-31 is 2024-02-29.
func (w Window) Cutoff(now time.Time) *time.Time {
	var cutoff time.Time
	switch w {
	case WindowHour:
		cutoff = now.Add(-time.Hour)
	case WindowDay:
		cutoff = now.AddDate(0, 0, -1)
	case WindowWeek:
		cutoff = now.AddDate(0, 0, -7)
	case WindowMonth:
		cutoff = rollbackAddDate(now, 0, -1)
	case WindowYear:
		cutoff = rollbackAddDate(now, -1, 0)
	default:
		return nil
	}
	return &cutoff
}

// rollbackAddDate behaves like AddDate but clamps to the last day of the
// target month instead of normalising into the next one, matching how
// calendar pickers subtract months: 2024-03-31 minus one month must be
// 2024-02-29, not 2024-03-02.
func rollbackAddDate(t time.Time, years, months int) time.Time {
	shifted := t.AddDate(years, months, 0)
	if shifted.Day() == t.Day() {
		return shifted
	}
	// AddDate normalised into the following month; step back to the last
	// day of the intended one.
	overflowStart := time.Date(shifted.Year(), shifted.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	return overflowStart.AddDate(0, 0, -1)
}
