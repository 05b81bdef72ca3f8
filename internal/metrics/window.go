// ABOUTME: Date window used to filter metric values before charting.
// ABOUTME: Bounds are exclusive; unparseable bounds disable filtering.
package metrics

import (
	"fmt"
	"time"

	"github.com/harperreed/healthdash/internal/models"
)

// Window is an optional (Start, End) date window. Both bounds are exclusive.
// The zero Window applies no filtering.
type Window struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether both bounds are set.
func (w Window) Valid() bool {
	return !w.Start.IsZero() && !w.End.IsZero()
}

// Contains reports whether t falls strictly after Start and strictly before End.
func (w Window) Contains(t time.Time) bool {
	return t.After(w.Start) && t.Before(w.End)
}

// location is where sample dates are anchored when compared with the bounds.
func (w Window) location() *time.Location {
	if w.Valid() {
		return w.Start.Location()
	}
	return time.Local
}

var boundFormats = []string{
	models.DateLayout,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ParseWindow builds a Window from user-supplied bound strings.
// If either bound is empty or malformed the result is the zero Window.
func ParseWindow(start, end string) Window {
	s, ok := parseBound(start)
	if !ok {
		return Window{}
	}
	e, ok := parseBound(end)
	if !ok {
		return Window{}
	}
	return Window{Start: s, End: e}
}

func parseBound(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, f := range boundFormats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ResolveWindow builds a Window from bounds typed by a user. With neither
// bound it returns def; a missing bound is taken from def. Unlike
// ParseWindow, a malformed bound or an empty window is an error.
func ResolveWindow(start, end string, def Window) (Window, error) {
	if start == "" && end == "" {
		return def, nil
	}

	w := def
	if start != "" {
		t, ok := parseBound(start)
		if !ok {
			return Window{}, fmt.Errorf("invalid start date %q (use YYYY-MM-DD)", start)
		}
		w.Start = t
	}
	if end != "" {
		t, ok := parseBound(end)
		if !ok {
			return Window{}, fmt.Errorf("invalid end date %q (use YYYY-MM-DD)", end)
		}
		w.End = t
	}
	if w.Valid() && !w.Start.Before(w.End) {
		return Window{}, fmt.Errorf("start date %s is not before end date %s", w.Start.Format(models.DateLayout), w.End.Format(models.DateLayout))
	}
	return w, nil
}

// DefaultWindow returns the last three months ending at now.
func DefaultWindow(now time.Time) Window {
	return Window{Start: subMonths(now, 3), End: now}
}

// subMonths moves t back n calendar months, clamping the day to the target
// month's length (Mar 31 minus one month is the last day of February).
func subMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, -n, 0)
	lastDay := target.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return target.AddDate(0, 0, day-1)
}

// FormatDisplayDate formats t the way chart labels and headers show dates.
func FormatDisplayDate(t time.Time) string {
	return t.Format(dailyLabel)
}
