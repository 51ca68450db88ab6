package datetime

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// Parse reads a timestamp as wall-clock time. RFC3339 input keeps its digits and drops
// the offset; inputs without an offset are taken as written. The result is always in UTC.
func Parse(str string) (time.Time, error) {
	str = strings.TrimSpace(str)

	if parsed, err := time.Parse(time.RFC3339, str); err == nil {
		return WallClock(parsed), nil
	}

	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, str, time.UTC); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse time %q", str)
}

// WallClock re-labels t's calendar and clock fields as UTC without converting them.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayRange returns the half-open interval [start, start+24h) covering t's calendar day.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.Add(24 * time.Hour)
}
