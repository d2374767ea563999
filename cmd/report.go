package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ess-tools/attend/internal/timecalc"
	"github.com/ess-tools/attend/internal/timesheet"
)

var reportMonth string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the monthly timesheet report",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Month to report (YYYY-MM, default current)")
}

func runReport(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.Context())
	defer a.log.Sync()

	month := a.now()
	if reportMonth != "" {
		m, err := timecalc.ParseMonth(reportMonth, a.loc)
		if err != nil {
			return fmt.Errorf("invalid month %q (want YYYY-MM)", reportMonth)
		}
		month = m
	}

	counts, err := a.sheet.HourCounts(cmd.Context())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	summaries := timesheet.Summarize(counts)

	prefix := timecalc.MonthKey(month) + "-"
	var dates []string
	for date := range summaries {
		if strings.HasPrefix(date, prefix) {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	fmt.Printf("Timesheet %s\n", timecalc.MonthKey(month))
	fmt.Println("--------------------------------")
	for _, date := range dates {
		s := summaries[date]
		fmt.Printf("%s  %-8s %2d task(s)  [%s]\n",
			s.Date,
			timecalc.FormatDuration(s.TotalMinutes*60),
			s.TaskCount,
			timesheet.Bucket(s.TotalMinutes))
	}
	fmt.Println("--------------------------------")

	totals := timesheet.ComputeMonthTotals(summaries, month)
	fmt.Printf("%-12s%s over %d day(s), %d task(s)\n", "Total",
		timecalc.FormatDuration(totals.TotalMinutes*60), totals.DaysLogged, totals.TaskCount)
	return nil
}
