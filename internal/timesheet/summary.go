package timesheet

import (
	"time"

	"github.com/ess-tools/attend/internal/model"
	"github.com/ess-tools/attend/internal/timecalc"
)

// Bucket thresholds in minutes. Fixed, not configurable.
const (
	fullDayMinutes    = 8 * 60
	partialDayMinutes = 4 * 60
)

// Summarize folds the flat hour-count list into the per-date summary map
// consumed by the calendar. The upstream list carries one row per date, so
// this is a plain one-pass mapping with no merging.
func Summarize(counts []model.HourCountEntry) map[string]model.MonthlySummary {
	summaries := make(map[string]model.MonthlySummary, len(counts))
	for _, c := range counts {
		summaries[c.Date] = model.MonthlySummary{
			Date:         c.Date,
			TotalMinutes: c.TimeSpentMinutes,
			TaskCount:    c.TaskCount,
			HasTimesheet: c.TaskCount > 0,
		}
	}
	return summaries
}

// Bucket bands a day's logged minutes for dot coloring.
func Bucket(totalMinutes int64) model.HourBucket {
	switch {
	case totalMinutes >= fullDayMinutes:
		return model.BucketFull
	case totalMinutes >= partialDayMinutes:
		return model.BucketPartial
	default:
		return model.BucketLow
	}
}

// MonthTotals holds the month-to-date rollup shown above the calendar.
type MonthTotals struct {
	TotalMinutes int64
	DaysLogged   int
	TaskCount    int
}

// ComputeMonthTotals sums the summary entries whose date falls in now's
// calendar month and year. It is recomputed from the summary map on every
// call and never cached separately from it.
func ComputeMonthTotals(summaries map[string]model.MonthlySummary, now time.Time) MonthTotals {
	var totals MonthTotals
	for _, s := range summaries {
		d, err := timecalc.ParseDate(s.Date, now.Location())
		if err != nil {
			continue
		}
		if !timecalc.SameMonth(d, now) {
			continue
		}
		totals.TotalMinutes += s.TotalMinutes
		totals.DaysLogged++
		totals.TaskCount += s.TaskCount
	}
	return totals
}
