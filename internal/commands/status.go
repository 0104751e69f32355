package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pulsetrack/internal/config"
	"pulsetrack/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active session, if any",
	Run: withStore(func(cmd *cobra.Command, args []string, store *db.Store, cfg *config.Config) {
		session, err := store.ActiveSession()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if session == nil {
			fmt.Println("No active recording session")
			return
		}

		// An active session here means another pulsetrack process is
		// recording, or it will be repaired on the next sweep.
		fmt.Printf("❤️  Session #%d active: %s\n", session.ID, session.Name)
		fmt.Printf("Device:  %s\n", session.DeviceName)
		fmt.Printf("Started: %s (%s ago)\n", session.StartedAt.Format("15:04:05"), formatDuration(session.Duration()))
	}),
}
