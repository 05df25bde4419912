// Package timewindow selects the "today" and "this week" report ranges used by
// the admin dashboards.
package timewindow

import (
	"strconv"
	"strings"
	"time"
)

// Select returns the [start, end) range picked by the flags relative to now.
// today wins over thisWeek; ok is false when no range applies.
func Select(now time.Time, today, thisWeek bool) (start, end time.Time, ok bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case today:
		return midnight, midnight.AddDate(0, 0, 1), true
	case thisWeek:
		// Weeks start on Monday.
		offset := (int(midnight.Weekday()) + 6) % 7
		monday := midnight.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 7), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// ContainsMillis reports whether the millisecond timestamp text ms falls in
// [start, end). Text that is not an integer is never contained.
func ContainsMillis(ms string, start, end time.Time) bool {
	v, err := strconv.ParseInt(strings.TrimSpace(ms), 10, 64)
	if err != nil {
		return false
	}

	at := time.UnixMilli(v)
	return !at.Before(start) && at.Before(end)
}
