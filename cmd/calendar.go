package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ess-tools/attend/internal/aggregate"
	"github.com/ess-tools/attend/internal/snapshot"
	"github.com/ess-tools/attend/internal/timecalc"
	"github.com/ess-tools/attend/internal/timesheet"
)

var (
	calendarMonth   string
	calendarRefresh bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the attendance calendar for a month",
	Args:  cobra.NoArgs,
	RunE:  runCalendar,
}

func init() {
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show (YYYY-MM, default current)")
	calendarCmd.Flags().BoolVar(&calendarRefresh, "refresh", false, "Refetch even if the month was already loaded")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.Context())
	defer a.log.Sync()
	now := a.now()

	month := now
	if calendarMonth != "" {
		m, err := timecalc.ParseMonth(calendarMonth, a.loc)
		if err != nil {
			return fmt.Errorf("invalid month %q (want YYYY-MM)", calendarMonth)
		}
		month = m
	}

	base, err := snapshot.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Seed from the last snapshot so the grid renders even when the fetch
	// below fails offline.
	if days, err := snapshot.LoadMonth(base, month); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		a.agg.Seed(days)
	}

	a.agg.LoadMonth(cmd.Context(), month, calendarRefresh)

	if err := snapshot.SaveMonth(base, month, a.agg.Days()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	printMonthGrid(month, a.agg.MarkedDates())

	// Month-to-date rollup from the cached hour counts.
	counts, err := a.sheet.HourCounts(cmd.Context())
	if err != nil {
		a.log.Warn("hour counts unavailable")
		return nil
	}
	totals := timesheet.ComputeMonthTotals(timesheet.Summarize(counts), month)
	fmt.Printf("Logged: %s over %d day(s), %d task(s)\n",
		timecalc.FormatDuration(totals.TotalMinutes*60), totals.DaysLogged, totals.TaskCount)
	return nil
}

// markerFor renders a dot color as a single grid character.
func markerFor(dot aggregate.DotColor) string {
	switch dot {
	case aggregate.DotGreen:
		return "✓"
	case aggregate.DotAmber:
		return "~"
	case aggregate.DotPurple:
		return "•"
	case aggregate.DotRed:
		return "✗"
	default:
		return " "
	}
}

// printMonthGrid prints a Monday-first month grid with one marker per day.
func printMonthGrid(month time.Time, marks map[string]aggregate.Marking) {
	start := timecalc.StartOfMonth(month)
	end := timecalc.EndOfMonth(month)

	fmt.Println(month.Format("January 2006"))
	fmt.Println(" Mo  Tu  We  Th  Fr  Sa  Su")

	// Leading blanks up to the first weekday (Monday-first).
	offset := int(start.Weekday())
	if offset == 0 {
		offset = 7 // treat Sunday as 7 (ISO)
	}
	var line strings.Builder
	line.WriteString(strings.Repeat("    ", offset-1))

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		mark := marks[timecalc.DateKey(d)]
		line.WriteString(fmt.Sprintf("%3d%s", d.Day(), markerFor(mark.Dot)))
		if d.Weekday() == time.Sunday {
			fmt.Println(line.String())
			line.Reset()
		}
	}
	if line.Len() > 0 {
		fmt.Println(line.String())
	}
	fmt.Println("✓ present   ~ no punch-out   • leave   ✗ absent")
}
