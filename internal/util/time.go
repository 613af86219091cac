package util

import (
	"fmt"
	"time"
)

// FormatDate renders a timestamp the way event cards do: "March 1, 2025".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// FormatTime renders a clock time: "6:00 PM".
func FormatTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatEventRange collapses same-day events to a single date with a time
// span; multi-day events show both full timestamps.
func FormatEventRange(start, end time.Time) string {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy == ey && sm == em && sd == ed {
		return fmt.Sprintf("%s, %s - %s", FormatDate(start), FormatTime(start), FormatTime(end))
	}
	return fmt.Sprintf("%s %s - %s %s", FormatDate(start), FormatTime(start), FormatDate(end), FormatTime(end))
}

// MonthStart returns midnight UTC on the first of t's month. The monthly
// leaderboard buckets points by this boundary.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
