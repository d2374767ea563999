package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ess-tools/attend/internal/model"
	"github.com/ess-tools/attend/internal/timecalc"
)

var dayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "Show punch detail and logged tasks for one day",
	Args:  cobra.ExactArgs(1),
	RunE:  runDay,
}

func runDay(cmd *cobra.Command, args []string) error {
	a := newApp(cmd.Context())
	defer a.log.Sync()

	day, err := timecalc.ParseDate(args[0], a.loc)
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", args[0])
	}

	a.agg.SelectDay(cmd.Context(), day)

	key := timecalc.DateKey(day)
	rec, ok := a.agg.Day(key)
	if !ok {
		rec = model.Absent(key)
	}
	printDay(rec)

	tasks, err := a.sheet.TasksForDate(cmd.Context(), key)
	if err != nil {
		a.log.Warn("tasks unavailable")
		return nil
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks logged.")
		return nil
	}
	fmt.Println("Tasks:")
	for _, t := range tasks {
		desc := ""
		if t.Description != nil {
			desc = "  " + *t.Description
		}
		fmt.Printf("  %s  %s%s (%s)\n", t.ID, t.ProjectID, desc,
			timecalc.FormatDuration(t.TimeSpentMinutes*60))
	}
	return nil
}

func printDay(rec model.DayRecord) {
	fmt.Println(rec.Date)
	switch rec.Status {
	case model.StatusOnLeave:
		fmt.Printf("On leave (%s)\n", rec.LeaveKind)
		return
	case model.StatusAbsent:
		fmt.Println("Absent")
		return
	}

	in, out := "—", "—"
	if rec.PunchIn != nil {
		in = *rec.PunchIn
	}
	if rec.PunchOut != nil {
		out = *rec.PunchOut
	}
	fmt.Printf("In:  %s  %s %s\n", in, rec.InAddress, rec.InDevice)
	fmt.Printf("Out: %s  %s %s\n", out, rec.OutAddress, rec.OutDevice)
	fmt.Printf("Worked: %s\n", timecalc.PunchDuration(rec.Date, rec.PunchIn, rec.PunchOut))
}
