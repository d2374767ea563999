package aggregate_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ess-tools/attend/internal/aggregate"
	"github.com/ess-tools/attend/internal/api"
	"github.com/ess-tools/attend/internal/model"
	"github.com/ess-tools/attend/internal/timecalc"
)

// fakeAttendance records every requested range so tests can assert both how
// often and for which interval the network was hit.
type fakeAttendance struct {
	ranges []string
	rows   []api.PunchRow
	err    error
}

func (f *fakeAttendance) ListPunches(ctx context.Context, from, to time.Time) ([]api.PunchRow, error) {
	f.ranges = append(f.ranges, fmt.Sprintf("%s..%s", timecalc.DateKey(from), timecalc.DateKey(to)))
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func strPtr(s string) *string { return &s }

// today is the fixed "now" used throughout: Friday 2024-03-15.
var today = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newAggregator(fake *fakeAttendance) *aggregate.Aggregator {
	return aggregate.New(fake, clockwork.NewFakeClockAt(today), nil)
}

func date(day int) time.Time {
	return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
}

func TestFetchRangeCoversEveryDay(t *testing.T) {
	fake := &fakeAttendance{rows: []api.PunchRow{
		{Date: "2024-03-01", PunchIn: strPtr("09:00:00"), PunchOut: strPtr("17:00:00")},
		{Date: "2024-03-03", PunchIn: strPtr("09:15:00")},
	}}
	agg := newAggregator(fake)

	got := agg.FetchRange(context.Background(), date(1), date(5))

	if len(got) != 5 {
		t.Fatalf("interval entries = %d, want 5", len(got))
	}
	if got["2024-03-01"].Status != model.StatusPresent {
		t.Errorf("03-01 status = %q, want present", got["2024-03-01"].Status)
	}
	if got["2024-03-03"].Status != model.StatusPartial {
		t.Errorf("03-03 status = %q, want partial", got["2024-03-03"].Status)
	}
	for _, d := range []string{"2024-03-02", "2024-03-04", "2024-03-05"} {
		rec := got[d]
		if rec.Status != model.StatusAbsent {
			t.Errorf("%s status = %q, want absent", d, rec.Status)
		}
		if rec.PunchIn != nil || rec.PunchOut != nil {
			t.Errorf("%s synthetic record must have nil punch times", d)
		}
	}
	if len(fake.ranges) != 1 {
		t.Errorf("network calls = %d, want 1 (never per-day)", len(fake.ranges))
	}
}

func TestFetchRangeDerivesDuration(t *testing.T) {
	fake := &fakeAttendance{rows: []api.PunchRow{
		{Date: "2024-03-01", PunchIn: strPtr("09:00:00"), PunchOut: strPtr("17:30:15")},
	}}
	agg := newAggregator(fake)

	got := agg.FetchRange(context.Background(), date(1), date(1))
	rec := got["2024-03-01"]
	if rec.DurationSeconds == nil || *rec.DurationSeconds != 8*3600+30*60+15 {
		t.Errorf("DurationSeconds = %v, want 30615", rec.DurationSeconds)
	}
}

func TestFetchRangeLeaveStatus(t *testing.T) {
	fake := &fakeAttendance{rows: []api.PunchRow{
		{Date: "2024-03-04", LeaveStatus: "casual"},
	}}
	agg := newAggregator(fake)

	got := agg.FetchRange(context.Background(), date(4), date(4))
	rec := got["2024-03-04"]
	if rec.Status != model.StatusOnLeave {
		t.Errorf("status = %q, want on_leave", rec.Status)
	}
	if rec.LeaveKind != "casual" {
		t.Errorf("LeaveKind = %q, want %q", rec.LeaveKind, "casual")
	}
}

func TestFetchRangeFirstRowWins(t *testing.T) {
	fake := &fakeAttendance{rows: []api.PunchRow{
		{Date: "2024-03-01", PunchIn: strPtr("09:00:00")},
		{Date: "2024-03-01", PunchIn: strPtr("13:00:00")},
	}}
	agg := newAggregator(fake)

	got := agg.FetchRange(context.Background(), date(1), date(1))
	rec := got["2024-03-01"]
	if rec.PunchIn == nil || *rec.PunchIn != "09:00:00" {
		t.Errorf("PunchIn = %v, want first row's 09:00:00", rec.PunchIn)
	}
}

func TestFetchRangeUnparsableDateFallsBack(t *testing.T) {
	// A row whose date cannot be parsed lands on the day currently being
	// processed, which starts out as the interval start.
	fake := &fakeAttendance{rows: []api.PunchRow{
		{Date: "banana", PunchIn: strPtr("08:00:00")},
	}}
	agg := newAggregator(fake)

	got := agg.FetchRange(context.Background(), date(2), date(3))
	rec := got["2024-03-02"]
	if rec.PunchIn == nil || *rec.PunchIn != "08:00:00" {
		t.Errorf("fallback bucket = %+v, want the malformed row under 2024-03-02", rec)
	}
}

func TestFetchRangeFailureIsNoOp(t *testing.T) {
	fake := &fakeAttendance{rows: []api.PunchRow{
		{Date: "2024-03-01", PunchIn: strPtr("09:00:00"), PunchOut: strPtr("17:00:00")},
	}}
	agg := newAggregator(fake)
	agg.FetchRange(context.Background(), date(1), date(2))

	fake.err = errors.New("network down")
	got := agg.FetchRange(context.Background(), date(1), date(5))
	if got != nil {
		t.Errorf("failed fetch returned %v, want nil", got)
	}

	// Earlier results survive untouched.
	if len(agg.Days()) != 2 {
		t.Errorf("days = %d, want the 2 from the successful fetch", len(agg.Days()))
	}
	if rec, ok := agg.Day("2024-03-01"); !ok || rec.Status != model.StatusPresent {
		t.Error("2024-03-01 must still be present after the failed fetch")
	}
}

func TestFetchRangeInvertedIntervalIsNoOp(t *testing.T) {
	fake := &fakeAttendance{}
	agg := newAggregator(fake)

	agg.FetchRange(context.Background(), date(5), date(1))
	if len(fake.ranges) != 0 {
		t.Errorf("network calls = %d, want 0 for an inverted interval", len(fake.ranges))
	}
}

func TestLoadMonthIdempotent(t *testing.T) {
	fake := &fakeAttendance{}
	agg := newAggregator(fake)
	ctx := context.Background()

	agg.LoadMonth(ctx, date(1), false)
	agg.LoadMonth(ctx, date(1), false)
	if len(fake.ranges) != 1 {
		t.Fatalf("network calls = %d, want 1 (second load is a no-op)", len(fake.ranges))
	}

	agg.LoadMonth(ctx, date(1), true)
	if len(fake.ranges) != 2 {
		t.Errorf("network calls = %d, want 2 (force bypasses the loaded check)", len(fake.ranges))
	}
}

func TestLoadMonthClampsToToday(t *testing.T) {
	fake := &fakeAttendance{}
	agg := newAggregator(fake)

	agg.LoadMonth(context.Background(), date(1), false)
	want := "2024-03-01..2024-03-15"
	if len(fake.ranges) != 1 || fake.ranges[0] != want {
		t.Errorf("requested %v, want [%s] (future days never requested)", fake.ranges, want)
	}
}

func TestLoadMonthPastMonthFullRange(t *testing.T) {
	fake := &fakeAttendance{}
	agg := newAggregator(fake)

	agg.LoadMonth(context.Background(), time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), false)
	want := "2024-02-01..2024-02-29"
	if len(fake.ranges) != 1 || fake.ranges[0] != want {
		t.Errorf("requested %v, want [%s]", fake.ranges, want)
	}
}

func TestLoadMonthFutureMonthSkipsNetwork(t *testing.T) {
	fake := &fakeAttendance{}
	agg := newAggregator(fake)

	agg.LoadMonth(context.Background(), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), false)
	if len(fake.ranges) != 0 {
		t.Errorf("network calls = %d, want 0 for a wholly future month", len(fake.ranges))
	}
}

func TestSelectDayFetchesMissingSubrange(t *testing.T) {
	fake := &fakeAttendance{}
	agg := newAggregator(fake)
	ctx := context.Background()

	// 13th through today (15th) already loaded.
	agg.FetchRange(ctx, date(13), date(15))
	fake.ranges = nil

	agg.SelectDay(ctx, date(10))

	if agg.Anchor() != "2024-03-10" {
		t.Errorf("anchor = %q, want 2024-03-10", agg.Anchor())
	}
	want := "2024-03-10..2024-03-12"
	if len(fake.ranges) != 1 || fake.ranges[0] != want {
		t.Errorf("requested %v, want [%s] (only the missing sub-range)", fake.ranges, want)
	}
}

func TestSelectDayNothingMissing(t *testing.T) {
	fake := &fakeAttendance{}
	agg := newAggregator(fake)
	ctx := context.Background()

	agg.FetchRange(ctx, date(10), date(15))
	fake.ranges = nil

	agg.SelectDay(ctx, date(12))
	if len(fake.ranges) != 0 {
		t.Errorf("network calls = %d, want 0 when the range is already covered", len(fake.ranges))
	}
}

func TestSetTodayOverridesFetchedRecord(t *testing.T) {
	fake := &fakeAttendance{rows: []api.PunchRow{
		{Date: "2024-03-15", PunchIn: strPtr("09:00:00")},
	}}
	agg := newAggregator(fake)
	agg.FetchRange(context.Background(), date(15), date(15))

	live := aggregate.RecordFromRow("2024-03-15", api.PunchRow{
		Date:     "2024-03-15",
		PunchIn:  strPtr("09:00:00"),
		PunchOut: strPtr("17:45:00"),
	})
	agg.SetToday(live)

	rec, ok := agg.Day("2024-03-15")
	if !ok {
		t.Fatal("today missing after SetToday")
	}
	if rec.PunchOut == nil || *rec.PunchOut != "17:45:00" {
		t.Errorf("PunchOut = %v, want the live override's 17:45:00", rec.PunchOut)
	}
	if rec.Status != model.StatusPresent {
		t.Errorf("status = %q, want present", rec.Status)
	}
}

func TestSeedDoesNotMarkMonthLoaded(t *testing.T) {
	fake := &fakeAttendance{}
	agg := newAggregator(fake)

	agg.Seed(map[string]model.DayRecord{
		"2024-03-01": {Date: "2024-03-01", Status: model.StatusPresent},
	})

	agg.LoadMonth(context.Background(), date(1), false)
	if len(fake.ranges) != 1 {
		t.Errorf("network calls = %d, want 1 (seeding must not suppress the fetch)", len(fake.ranges))
	}
}

func TestMarkedDates(t *testing.T) {
	fake := &fakeAttendance{rows: []api.PunchRow{
		{Date: "2024-03-11", PunchIn: strPtr("09:00:00"), PunchOut: strPtr("17:00:00")},
		{Date: "2024-03-12", PunchIn: strPtr("09:00:00")},
		{Date: "2024-03-13", LeaveStatus: "sick"},
	}}
	agg := newAggregator(fake)
	ctx := context.Background()

	// 11th..15th: present, partial, leave, absent (past), absent (today).
	agg.FetchRange(ctx, date(11), date(15))
	agg.SelectDay(ctx, date(12))

	marks := agg.MarkedDates()
	tests := []struct {
		date string
		dot  aggregate.DotColor
	}{
		{"2024-03-11", aggregate.DotGreen},
		{"2024-03-12", aggregate.DotAmber},
		{"2024-03-13", aggregate.DotPurple},
		{"2024-03-14", aggregate.DotRed},
		{"2024-03-15", aggregate.DotNone}, // today, still punchable
	}
	for _, tt := range tests {
		if marks[tt.date].Dot != tt.dot {
			t.Errorf("%s dot = %q, want %q", tt.date, marks[tt.date].Dot, tt.dot)
		}
	}
	if !marks["2024-03-12"].Selected {
		t.Error("anchor day must be marked selected")
	}
	if marks["2024-03-11"].Selected {
		t.Error("non-anchor day must not be selected")
	}
}
