package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pulsetrack/internal/config"
	"pulsetrack/internal/db"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions",
	Run:   withStore(listSessions),
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session_id>",
	Short: "Show one session in detail",
	Args:  cobra.ExactArgs(1),
	Run:   withStore(showSession),
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session_id>",
	Short: "Delete a session and its readings",
	Args:  cobra.ExactArgs(1),
	Run:   withStore(deleteSession),
}

func init() {
	sessionsCmd.Flags().Int("limit", 20, "Maximum number of sessions to list (0 for all)")
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func listSessions(cmd *cobra.Command, args []string, store *db.Store, cfg *config.Config) {
	limit, _ := cmd.Flags().GetInt("limit")

	sessions, err := store.Sessions(limit)
	if err != nil {
		fmt.Printf("Error fetching sessions: %v\n", err)
		return
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet. Use 'pulsetrack monitor' to record your first one.")
		return
	}

	// Print table header
	fmt.Printf("%-4s %-17s %-25s %-15s %-9s %-5s %-5s %s\n", "ID", "STARTED", "NAME", "DEVICE", "DURATION", "AVG", "MIN", "MAX")
	fmt.Println(strings.Repeat("-", 90))

	for _, session := range sessions {
		name := session.Name
		if len(name) > 23 {
			name = name[:20] + "..."
		}

		device := session.DeviceName
		if len(device) > 13 {
			device = device[:10] + "..."
		}

		fmt.Printf("%-4d %-17s %-25s %-15s %-9s %-5s %-5s %s\n",
			session.ID,
			session.StartedAt.Format("02 Jan 15:04"),
			name,
			device,
			formatDuration(session.Duration()),
			formatHR(session.AvgHR),
			formatHR(session.MinHR),
			formatHR(session.MaxHR),
		)
	}
}

func showSession(cmd *cobra.Command, args []string, store *db.Store, cfg *config.Config) {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Printf("Error: invalid session ID '%s'\n", args[0])
		return
	}

	session, err := store.Session(uint(id))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	readings, err := store.ReadingsBySession(session.ID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("❤️  Session #%d: %s\n", session.ID, session.Name)
	fmt.Printf("Device:    %s\n", session.DeviceName)
	fmt.Printf("Started:   %s\n", session.StartedAt.Format("Mon, 02 Jan 2006 15:04:05"))
	if session.EndedAt != nil {
		fmt.Printf("Ended:     %s\n", session.EndedAt.Format("Mon, 02 Jan 2006 15:04:05"))
		fmt.Printf("Duration:  %s\n", formatDuration(session.Duration()))
	} else {
		fmt.Println("Ended:     still active")
	}
	fmt.Printf("Readings:  %d\n", len(readings))
	fmt.Printf("Heart rate: avg %s · min %s · max %s bpm\n",
		formatHR(session.AvgHR), formatHR(session.MinHR), formatHR(session.MaxHR))
}

func deleteSession(cmd *cobra.Command, args []string, store *db.Store, cfg *config.Config) {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		fmt.Printf("Error: invalid session ID '%s'\n", args[0])
		return
	}

	session, err := store.Session(uint(id))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if err := store.DeleteSession(session.ID); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("🗑️  Deleted session #%d: %s\n", session.ID, session.Name)
}

// formatHR renders an optional stat, "-" when the session has none.
func formatHR(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}
