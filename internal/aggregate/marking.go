package aggregate

import (
	"github.com/ess-tools/attend/internal/model"
	"github.com/ess-tools/attend/internal/timecalc"
)

// DotColor encodes a day's attendance status for calendar display.
type DotColor string

const (
	// DotGreen marks a day with a full punch-in/out pair.
	DotGreen DotColor = "green"
	// DotAmber marks a punch-in without a punch-out.
	DotAmber DotColor = "amber"
	// DotPurple marks an approved leave day.
	DotPurple DotColor = "purple"
	// DotRed marks a past day with no punch at all.
	DotRed DotColor = "red"
	// DotNone is a day with no marking (future or unclassified).
	DotNone DotColor = "none"
)

// Marking is the calendar metadata for one known day.
type Marking struct {
	Selected bool
	Dot      DotColor
}

// MarkedDates derives the marking for every known day. It is a pure
// function of the per-day map, the selection anchor and today's date; it
// can always be recomputed from them.
func (a *Aggregator) MarkedDates() map[string]Marking {
	today := timecalc.DateKey(a.clock.Now())

	a.mu.Lock()
	defer a.mu.Unlock()

	marks := make(map[string]Marking, len(a.days))
	for date, rec := range a.days {
		marks[date] = Marking{
			Selected: date == a.anchor,
			Dot:      dotFor(rec, date, today),
		}
	}
	return marks
}

// dotFor maps one record to its dot color. Absent days are red only once
// they are in the past; today and beyond stay unmarked since the day may
// still be punched.
func dotFor(rec model.DayRecord, date, today string) DotColor {
	switch rec.Status {
	case model.StatusPresent:
		return DotGreen
	case model.StatusPartial:
		return DotAmber
	case model.StatusOnLeave:
		return DotPurple
	case model.StatusAbsent:
		if date < today {
			return DotRed
		}
		return DotNone
	default:
		return DotNone
	}
}
