package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pulsetrack/internal/config"
	"pulsetrack/internal/db"
)

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Repair interrupted sessions and prune old ones",
	Long: `Run the recovery sweep on demand: complete or discard a session left
active by a crash, then delete sessions past the retention window.

The same sweep runs automatically every time pulsetrack starts.`,
	Run: withStore(func(cmd *cobra.Command, args []string, store *db.Store, cfg *config.Config) {
		// withStore already ran the sweep before handing over.
		session, err := store.ActiveSession()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if session != nil {
			fmt.Printf("⚠️  Session #%d is still active; run with --verbose for sweep details.\n", session.ID)
			return
		}
		fmt.Println("✅ Recovery sweep completed. No dangling sessions.")
	}),
}
