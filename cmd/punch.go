package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ess-tools/attend/internal/aggregate"
	"github.com/ess-tools/attend/internal/api"
	"github.com/ess-tools/attend/internal/snapshot"
	"github.com/ess-tools/attend/internal/timecalc"
)

var punchNote string

var punchCmd = &cobra.Command{
	Use:   "punch <in|out>",
	Short: "Clock in or out",
	Args:  cobra.ExactArgs(1),
	RunE:  runPunch,
}

func init() {
	punchCmd.Flags().StringVar(&punchNote, "note", "", "Optional note attached to the punch")
}

func runPunch(cmd *cobra.Command, args []string) error {
	direction := args[0]
	if direction != "in" && direction != "out" {
		return fmt.Errorf("direction must be \"in\" or \"out\", got %q", direction)
	}

	a := newApp(cmd.Context())
	defer a.log.Sync()
	now := a.now()

	row, err := a.api.SavePunch(cmd.Context(), api.PunchRequest{
		Direction: direction,
		Note:      punchNote,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Push the server's resulting record into the aggregator so today's
	// calendar entry reflects the punch immediately.
	rec := aggregate.RecordFromRow(timecalc.DateKey(now), row)
	a.agg.SetToday(rec)

	if base, err := snapshot.BaseDir(); err == nil {
		if err := snapshot.SaveMonth(base, now, a.agg.Days()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	fmt.Printf("Punched %s at %s\n", direction, now.Format("15:04:05"))
	if direction == "out" {
		fmt.Printf("Worked: %s\n", timecalc.PunchDuration(rec.Date, rec.PunchIn, rec.PunchOut))
	}
	return nil
}
