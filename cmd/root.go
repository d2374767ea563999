package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attend",
	Short: "Employee self-service attendance and timesheet CLI",
	Long: `attend is a command-line client for the ESS attendance service:
calendar views with per-day punch markings, timesheet task logging, and
monthly hour reports. Configuration lives in ~/.attend/config.json.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(punchCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(reportCmd)
}
