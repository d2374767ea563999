package timecalc

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates (no time component).
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for punch time-of-day values.
const TimeLayout = "15:04:05"

// DurationSentinel is returned by PunchDuration whenever a duration cannot
// be computed. Display code renders it as-is instead of branching on errors.
const DurationSentinel = "--h --m --s"

// DateKey formats t as the per-day map key ("2006-01-02").
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthKey formats t as the month dedup key ("2006-01").
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ParseDate parses a "2006-01-02" date in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseMonth parses a "2006-01" month key into the first day of that month.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01", s, loc)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// StartOfMonth returns 00:00:00 on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns 00:00:00 on the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether two times fall in the same calendar month and year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// PunchDuration computes the time between a punch-in and a punch-out on the
// given date and formats it as "8h 30m 15s". A missing time, an unparsable
// time, or a negative span all yield DurationSentinel; this function never
// fails.
func PunchDuration(date string, in, out *string) string {
	if in == nil || out == nil {
		return DurationSentinel
	}
	start, err := time.Parse(DateLayout+" "+TimeLayout, date+" "+*in)
	if err != nil {
		return DurationSentinel
	}
	end, err := time.Parse(DateLayout+" "+TimeLayout, date+" "+*out)
	if err != nil {
		return DurationSentinel
	}
	seconds := int64(end.Sub(start).Seconds())
	if seconds < 0 {
		return DurationSentinel
	}
	return fmt.Sprintf("%dh %dm %ds", seconds/3600, (seconds%3600)/60, seconds%60)
}
