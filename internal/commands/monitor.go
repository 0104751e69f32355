package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"pulsetrack/internal/ble"
	"pulsetrack/internal/config"
	"pulsetrack/internal/db"
	"pulsetrack/internal/monitor"
	"pulsetrack/internal/recorder"
	"pulsetrack/internal/tui"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Connect to the strap and record a session",
	Long: `Connect to the configured heart-rate strap and record readings into a new
session. Opens a live view by default, use --no-ui for plain output.

The target device comes from --device or from ~/.config/pulsetrack/config.toml.
A value containing ':' is treated as a MAC address, anything else as a
substring of the advertised name.

Examples:
  pulsetrack monitor --device "Polar H10"
  pulsetrack monitor --device C9:4B:12:00:11:22 --name "Morning run" --no-ui`,
	Run: withStore(runMonitor),
}

func init() {
	monitorCmd.Flags().String("device", "", "Target device address or name")
	monitorCmd.Flags().String("name", "", "Session name (defaults to the start time)")
	monitorCmd.Flags().Bool("no-ui", false, "Plain output instead of the live view")
}

func runMonitor(cmd *cobra.Command, args []string, store *db.Store, cfg *config.Config) {
	deviceCfg := resolveDevice(cmd, cfg)
	if deviceCfg.Address == "" && deviceCfg.NameHint == "" {
		fmt.Println("Error: no device configured. Pass --device or set device_address in the config file.")
		return
	}

	device := ble.NewDevice(deviceCfg, log.WithField("component", "ble"))
	manager := monitor.NewManager(device, cfg.ConnectTimeout, log.WithField("component", "monitor"))
	rec := recorder.New(store, log.WithField("component", "recorder"))
	coordinator := monitor.NewCoordinator(manager, monitor.CoordinatorConfig{
		MaxAttempts: cfg.MaxReconnectAttempts,
		BaseDelay:   cfg.ReconnectBaseDelay,
		MaxDelay:    cfg.ReconnectMaxDelay,
	}, log.WithField("component", "reconnect"))

	noUI, _ := cmd.Flags().GetBool("no-ui")
	sessionName, _ := cmd.Flags().GetString("name")

	// The live view wants its own copy of each reading.
	bpmCh := make(chan int, 16)
	manager.SetSink(func(bpm int) {
		if err := rec.Record(bpm); err != nil {
			log.WithError(err).Warn("reading not stored")
		}
		select {
		case bpmCh <- bpm:
		default:
		}
	})

	// Subscribe before connecting so no transition is missed.
	states := manager.States().Subscribe()

	fmt.Println("🔍 Connecting to heart-rate strap...")
	if err := manager.Connect(context.Background()); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if err := rec.Start(device.Name(), sessionName); err != nil {
		fmt.Printf("Error: %v\n", err)
		_ = manager.Disconnect()
		return
	}

	if noUI {
		runHeadless(manager, rec, states)
		return
	}

	if err := tui.RunMonitorTUI(manager, coordinator, rec, states, bpmCh); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

// resolveDevice merges the --device flag with the config file.
func resolveDevice(cmd *cobra.Command, cfg *config.Config) ble.DeviceConfig {
	deviceCfg := ble.DeviceConfig{
		Address:     cfg.DeviceAddress,
		NameHint:    cfg.DeviceName,
		ScanTimeout: cfg.ScanTimeout,
	}

	flag, _ := cmd.Flags().GetString("device")
	if flag != "" {
		if strings.Contains(flag, ":") {
			deviceCfg.Address = flag
			deviceCfg.NameHint = ""
		} else {
			deviceCfg.Address = ""
			deviceCfg.NameHint = flag
		}
	}

	return deviceCfg
}

// runHeadless prints transitions until interrupted, then stops and saves.
func runHeadless(manager *monitor.Manager, rec *recorder.Recorder, states <-chan monitor.ConnectionState) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	fmt.Println("⏱️  Recording. Press Ctrl+C to stop and save.")

	for {
		select {
		case state := <-states:
			fmt.Printf("• %s\n", state)
			if state.Kind == monitor.StateFailed {
				finishRecording(manager, rec)
				return
			}
		case <-interrupt:
			fmt.Println()
			finishRecording(manager, rec)
			return
		}
	}
}

func finishRecording(manager *monitor.Manager, rec *recorder.Recorder) {
	_ = manager.Disconnect()

	session, err := rec.Stop()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if session == nil {
		fmt.Println("⏹️  Stopped. No readings were recorded, session discarded.")
		return
	}

	fmt.Printf("⏹️  Saved session #%d: %s\n", session.ID, session.Name)
	fmt.Printf("📊 Duration %s · avg %d · min %d · max %d bpm\n",
		formatDuration(session.Duration()), *session.AvgHR, *session.MinHR, *session.MaxHR)
}
