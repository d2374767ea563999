package timecalc_test

import (
	"testing"
	"time"

	"github.com/ess-tools/attend/internal/timecalc"
)

func strPtr(s string) *string { return &s }

func TestPunchDuration(t *testing.T) {
	tests := []struct {
		name string
		date string
		in   *string
		out  *string
		want string
	}{
		{"full day", "2024-01-01", strPtr("09:00:00"), strPtr("17:30:15"), "8h 30m 15s"},
		{"zero span", "2024-01-01", strPtr("09:00:00"), strPtr("09:00:00"), "0h 0m 0s"},
		{"missing in", "2024-01-01", nil, strPtr("10:00:00"), timecalc.DurationSentinel},
		{"missing out", "2024-01-01", strPtr("10:00:00"), nil, timecalc.DurationSentinel},
		{"unparsable in", "2024-01-01", strPtr("bad"), strPtr("10:00:00"), timecalc.DurationSentinel},
		{"unparsable out", "2024-01-01", strPtr("10:00:00"), strPtr("25:99:00"), timecalc.DurationSentinel},
		{"negative span", "2024-01-01", strPtr("11:00:00"), strPtr("10:00:00"), timecalc.DurationSentinel},
		{"unparsable date", "not-a-date", strPtr("09:00:00"), strPtr("10:00:00"), timecalc.DurationSentinel},
	}
	for _, tt := range tests {
		got := timecalc.PunchDuration(tt.date, tt.in, tt.out)
		if got != tt.want {
			t.Errorf("%s: PunchDuration = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{90, "1m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	// Leap February.
	mid := time.Date(2024, 2, 14, 13, 45, 0, 0, time.UTC)

	start := timecalc.StartOfMonth(mid)
	if timecalc.DateKey(start) != "2024-02-01" {
		t.Errorf("StartOfMonth = %q, want %q", timecalc.DateKey(start), "2024-02-01")
	}

	end := timecalc.EndOfMonth(mid)
	if timecalc.DateKey(end) != "2024-02-29" {
		t.Errorf("EndOfMonth = %q, want %q", timecalc.DateKey(end), "2024-02-29")
	}

	if timecalc.MonthKey(mid) != "2024-02" {
		t.Errorf("MonthKey = %q, want %q", timecalc.MonthKey(mid), "2024-02")
	}
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)
	c := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameMonth(a, b) {
		t.Error("SameMonth: expected same month for a and b")
	}
	if timecalc.SameMonth(a, c) {
		t.Error("SameMonth: expected different month for a and c (year differs)")
	}
}

func TestParseMonth(t *testing.T) {
	m, err := timecalc.ParseMonth("2026-08", time.UTC)
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}
	if timecalc.DateKey(m) != "2026-08-01" {
		t.Errorf("ParseMonth = %q, want %q", timecalc.DateKey(m), "2026-08-01")
	}
	if _, err := timecalc.ParseMonth("08/2026", time.UTC); err == nil {
		t.Error("ParseMonth: expected error for malformed input")
	}
}
