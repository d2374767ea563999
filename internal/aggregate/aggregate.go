// Package aggregate turns raw attendance rows into a complete, gap-filled
// per-day map covering every requested calendar day, and derives the
// calendar dot markings from it. The map is a last-write-wins union keyed by
// date: a day refetched later overwrites its earlier entry, which also
// resolves overlapping in-flight range loads (the later completion wins).
package aggregate

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ess-tools/attend/internal/api"
	"github.com/ess-tools/attend/internal/model"
	"github.com/ess-tools/attend/internal/timecalc"
)

// API is the attendance read the aggregator consumes.
type API interface {
	ListPunches(ctx context.Context, from, to time.Time) ([]api.PunchRow, error)
}

// Aggregator accumulates attendance days across range loads. Construct one
// per session.
type Aggregator struct {
	mu     sync.Mutex
	api    API
	clock  clockwork.Clock
	log    *zap.Logger
	days   map[string]model.DayRecord
	loaded map[string]bool // month keys already fetched
	anchor string          // selected day, "" until the first selection
}

// New returns an empty Aggregator reading "today" from the given clock.
func New(apiClient API, clock clockwork.Clock, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{
		api:    apiClient,
		clock:  clock,
		log:    log,
		days:   make(map[string]model.DayRecord),
		loaded: make(map[string]bool),
	}
}

// FetchRange retrieves attendance rows for the inclusive day interval
// [from, to] in one request, groups them by day, fills every uncovered day
// with a synthetic absent record, and merges the result into the running
// per-day map. It returns the interval's records.
//
// A network or parse failure is logged and leaves the map untouched;
// whatever earlier loads produced stays available.
func (a *Aggregator) FetchRange(ctx context.Context, from, to time.Time) map[string]model.DayRecord {
	from = timecalc.StartOfDay(from)
	to = timecalc.StartOfDay(to)
	if from.After(to) {
		a.log.Warn("fetch range inverted, skipping",
			zap.String("from", timecalc.DateKey(from)),
			zap.String("to", timecalc.DateKey(to)))
		return nil
	}

	rows, err := a.api.ListPunches(ctx, from, to)
	if err != nil {
		a.log.Warn("attendance fetch failed",
			zap.String("from", timecalc.DateKey(from)),
			zap.String("to", timecalc.DateKey(to)),
			zap.Error(err))
		return nil
	}

	grouped := a.groupByDay(rows, from)

	// Total coverage: every day in the interval gets exactly one record.
	interval := make(map[string]model.DayRecord)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := timecalc.DateKey(d)
		rec, ok := grouped[key]
		if !ok {
			rec = model.Absent(key)
		}
		interval[key] = rec
	}

	a.mu.Lock()
	for key, rec := range interval {
		a.days[key] = rec
	}
	a.mu.Unlock()
	return interval
}

// groupByDay buckets rows by their day component, first row wins per day.
// A row whose date cannot be parsed is bucketed under the day currently
// being processed (the last good date, initially the interval start); that
// path misattributes data and is logged so it surfaces instead of being
// silently trusted.
func (a *Aggregator) groupByDay(rows []api.PunchRow, from time.Time) map[string]model.DayRecord {
	grouped := make(map[string]model.DayRecord)
	cursor := timecalc.DateKey(from)
	for _, row := range rows {
		key, err := parseRowDate(row.Date, from.Location())
		if err != nil {
			a.log.Warn("unparsable row date, grouping under current day",
				zap.String("raw", row.Date),
				zap.String("fallback", cursor))
			key = cursor
		} else {
			cursor = key
		}
		if _, exists := grouped[key]; exists {
			continue
		}
		grouped[key] = RecordFromRow(key, row)
	}
	return grouped
}

// rowDateLayouts are the date shapes the server has been observed to send.
var rowDateLayouts = []string{
	timecalc.DateLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseRowDate(raw string, loc *time.Location) (string, error) {
	var err error
	for _, layout := range rowDateLayouts {
		var t time.Time
		t, err = time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return timecalc.DateKey(t), nil
		}
	}
	return "", err
}

// RecordFromRow maps one wire row onto the day's representative record.
// The punch command uses it to turn the server's response into the
// live-today override.
func RecordFromRow(date string, row api.PunchRow) model.DayRecord {
	rec := model.DayRecord{
		Date:            date,
		PunchIn:         row.PunchIn,
		PunchOut:        row.PunchOut,
		DurationSeconds: row.DurationSeconds,
		InAddress:       row.InAddress,
		OutAddress:      row.OutAddress,
		InDevice:        row.InDevice,
		OutDevice:       row.OutDevice,
	}
	switch {
	case row.LeaveStatus != "":
		rec.Status = model.StatusOnLeave
		rec.LeaveKind = row.LeaveStatus
	case row.PunchIn != nil && row.PunchOut != nil:
		rec.Status = model.StatusPresent
	case row.PunchIn != nil:
		rec.Status = model.StatusPartial
	default:
		rec.Status = model.StatusAbsent
	}
	if rec.DurationSeconds == nil && row.PunchIn != nil && row.PunchOut != nil {
		layout := timecalc.DateLayout + " " + timecalc.TimeLayout
		in, errIn := time.Parse(layout, date+" "+*row.PunchIn)
		out, errOut := time.Parse(layout, date+" "+*row.PunchOut)
		if errIn == nil && errOut == nil {
			seconds := int64(out.Sub(in).Seconds())
			if seconds >= 0 {
				rec.DurationSeconds = &seconds
			}
		}
	}
	return rec
}

// LoadMonth fetches the month containing month, clamped so that future days
// of the current month are never requested. Once a month has been loaded it
// is skipped on later calls unless force is set (pull-to-refresh), which
// refetches and overwrites the month's days.
func (a *Aggregator) LoadMonth(ctx context.Context, month time.Time, force bool) {
	key := timecalc.MonthKey(month)

	a.mu.Lock()
	if !force && a.loaded[key] {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	start := timecalc.StartOfMonth(month)
	end := timecalc.EndOfMonth(month)
	today := timecalc.StartOfDay(a.clock.Now())
	if end.After(today) {
		end = today
	}
	if !start.After(today) {
		a.FetchRange(ctx, start, end)
	}

	a.mu.Lock()
	a.loaded[key] = true
	a.mu.Unlock()
}

// SelectDay makes day the selection anchor and fetches the minimal missing
// sub-range between the anchor and today, so a tap on an unloaded day pulls
// in everything up to the present with a single request.
func (a *Aggregator) SelectDay(ctx context.Context, day time.Time) {
	day = timecalc.StartOfDay(day)
	today := timecalc.StartOfDay(a.clock.Now())

	a.mu.Lock()
	a.anchor = timecalc.DateKey(day)
	a.mu.Unlock()

	lo, hi := day, today
	if lo.After(hi) {
		lo, hi = hi, lo
	}

	var first, last time.Time
	a.mu.Lock()
	for d := lo; !d.After(hi); d = d.AddDate(0, 0, 1) {
		if _, ok := a.days[timecalc.DateKey(d)]; ok {
			continue
		}
		if first.IsZero() {
			first = d
		}
		last = d
	}
	a.mu.Unlock()

	if first.IsZero() {
		return
	}
	a.FetchRange(ctx, first, last)
}

// Anchor returns the selected day key, or "" when nothing is selected.
func (a *Aggregator) Anchor() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.anchor
}

// SetToday merges a live punch record into the map under today's date,
// overriding whatever the last range fetch produced for today. The punch
// action pushes through here so the calendar reflects a just-completed
// punch without a round trip.
func (a *Aggregator) SetToday(rec model.DayRecord) {
	key := timecalc.DateKey(a.clock.Now())
	rec.Date = key
	a.mu.Lock()
	a.days[key] = rec
	a.mu.Unlock()
}

// Seed merges previously snapshotted days without marking any month as
// loaded, so a later LoadMonth still refreshes them from the network.
func (a *Aggregator) Seed(days map[string]model.DayRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for key, rec := range days {
		if _, ok := a.days[key]; !ok {
			a.days[key] = rec
		}
	}
}

// Day returns the record for one date key, if known.
func (a *Aggregator) Day(date string) (model.DayRecord, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rec, ok := a.days[date]
	return rec, ok
}

// Days returns a copy of the per-day map.
func (a *Aggregator) Days() map[string]model.DayRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]model.DayRecord, len(a.days))
	for k, v := range a.days {
		out[k] = v
	}
	return out
}
