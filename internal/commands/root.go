package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pulsetrack/internal/config"
	"pulsetrack/internal/db"
	"pulsetrack/internal/recorder"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var log = logrus.New()

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pulsetrack",
	Short: "A heart-rate session tracker for BLE straps",
	Long: `pulsetrack connects to a Bluetooth Low Energy heart-rate strap, records
workout sessions into a local database, and keeps them intact across crashes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.WarnLevel)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

// withStore wraps a command function to load config, open the database and
// run the startup recovery sweep first. The sweep runs before anything else
// reads session state.
func withStore(fn func(cmd *cobra.Command, args []string, store *db.Store, cfg *config.Config)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error: invalid config file: %v\n", err)
			return
		}

		path := cfg.DatabasePath
		if path == "" {
			path, err = db.DefaultPath()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}

		store, err := db.Open(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer store.Close()

		recorder.Sweep(store, log.WithField("component", "sweep"))

		fn(cmd, args, store, cfg)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pulsetrack %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(versionCmd)
}
