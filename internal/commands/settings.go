package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pulsetrack/internal/config"
	"pulsetrack/internal/db"
	"pulsetrack/internal/parser"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or change stored settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get retention",
	Short: "Show the session retention window",
	Args:  cobra.ExactArgs(1),
	Run: withStore(func(cmd *cobra.Command, args []string, store *db.Store, cfg *config.Config) {
		if args[0] != "retention" {
			fmt.Printf("Error: unknown setting '%s'\n", args[0])
			return
		}
		fmt.Printf("Sessions are kept for %d days\n", store.RetentionDays())
	}),
}

var settingsSetCmd = &cobra.Command{
	Use:   "set retention <window>",
	Short: "Change the session retention window",
	Long: `Change how long completed sessions are kept before the startup sweep
deletes them.

Examples:
  pulsetrack settings set retention 30
  pulsetrack settings set retention "6 weeks"`,
	Args: cobra.ExactArgs(2),
	Run: withStore(func(cmd *cobra.Command, args []string, store *db.Store, cfg *config.Config) {
		if args[0] != "retention" {
			fmt.Printf("Error: unknown setting '%s'\n", args[0])
			return
		}

		days, err := parser.ParseRetentionWindow(args[1])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if err := store.SetRetentionDays(days); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Sessions will be kept for %d days\n", days)
	}),
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
