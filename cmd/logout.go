package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ess-tools/attend/internal/api"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := api.Logout(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Println("Logged out.")
	return nil
}
