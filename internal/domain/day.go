package domain

import "time"

// DayFormat is the calendar-day layout used in snapshots and reports.
const DayFormat = "2006-01-02"

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a midnight value by n calendar days, staying at midnight
// across DST changes.
func AddDays(day time.Time, n int) time.Time {
	return StartOfDay(day.AddDate(0, 0, n), day.Location())
}

// DayNumber counts calendar days from 1970-01-01 to the local date of t.
// Differences between day numbers ignore DST.
func DayNumber(t time.Time) int64 {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return d.Unix() / 86400
}

// MinDay returns the earlier of a and b.
func MinDay(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// FormatDay renders a calendar day as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// ParseDay parses YYYY-MM-DD, falling back to RFC3339 timestamps,
// and returns midnight of that day in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if d, err := time.ParseInLocation(DayFormat, s, loc); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(ts, loc), nil
}
