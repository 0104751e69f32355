package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pulsetrack/internal/monitor"
	"pulsetrack/internal/recorder"
)

// MonitorModel is the live recording view: connection state, a big BPM
// readout and session progress.
type MonitorModel struct {
	width  int
	height int

	coordinator *monitor.Coordinator
	states      <-chan monitor.ConnectionState
	bpm         <-chan int

	state        monitor.ConnectionState
	currentBPM   int
	readingCount int
	sessionName  string
	deviceName   string
	startedAt    time.Time

	// Animation state
	pulseFrame int

	stopping bool
}

// stateMsg carries a connection state transition into the update loop
type stateMsg monitor.ConnectionState

// bpmMsg carries one reading
type bpmMsg int

// clockTickMsg is sent every second to refresh the elapsed time
type clockTickMsg struct{}

// pulseTickMsg drives the heartbeat animation
type pulseTickMsg struct{}

// NewMonitorModel creates the live view for an in-progress recording.
func NewMonitorModel(coordinator *monitor.Coordinator, rec *recorder.Recorder, states <-chan monitor.ConnectionState, bpm <-chan int) MonitorModel {
	m := MonitorModel{
		coordinator: coordinator,
		states:      states,
		bpm:         bpm,
		state:       monitor.Ready(),
	}
	if session := rec.Session(); session != nil {
		m.sessionName = session.Name
		m.deviceName = session.DeviceName
		m.startedAt = session.StartedAt
	}
	return m
}

// Init starts the channel listeners and tickers
func (m MonitorModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.states),
		waitForBPM(m.bpm),
		tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return clockTickMsg{}
		}),
		tea.Tick(pulseInterval(0), func(t time.Time) tea.Msg {
			return pulseTickMsg{}
		}),
	)
}

// waitForState forwards the next connection state transition
func waitForState(states <-chan monitor.ConnectionState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return nil
		}
		return stateMsg(state)
	}
}

// waitForBPM forwards the next reading
func waitForBPM(bpm <-chan int) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-bpm
		if !ok {
			return nil
		}
		return bpmMsg(v)
	}
}

// Update handles messages
func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = monitor.ConnectionState(msg)
		return m, waitForState(m.states)

	case bpmMsg:
		m.currentBPM = int(msg)
		m.readingCount++
		return m, waitForBPM(m.bpm)

	case clockTickMsg:
		if m.stopping {
			return m, nil
		}
		return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return clockTickMsg{}
		})

	case pulseTickMsg:
		m.pulseFrame = (m.pulseFrame + 1) % len(pulseFrames)
		if m.stopping {
			return m, nil
		}
		return m, tea.Tick(pulseInterval(m.currentBPM), func(t time.Time) tea.Msg {
			return pulseTickMsg{}
		})

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S", "ctrl+c", "esc", "q":
			// Stop recording and save
			m.stopping = true
			return m, tea.Quit
		case "r", "R":
			// Manual retry resets the attempt counter
			coordinator := m.coordinator
			return m, func() tea.Msg {
				coordinator.RetryNow()
				return nil
			}
		}
	}

	return m, nil
}

// View renders the live recording view
func (m MonitorModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	var components []string

	// Animated header
	pulse := pulseFrames[m.pulseFrame]
	headerText := fmt.Sprintf("%s  RECORDING  %s", pulse, pulse)
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(m.width)
	components = append(components, headerStyle.Render(headerText))

	// Session name and device
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Align(lipgloss.Center).
		Width(m.width)
	components = append(components, titleStyle.Render(m.sessionName))

	deviceStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Align(lipgloss.Center).
		Width(m.width)
	components = append(components, deviceStyle.Render(m.deviceName))

	// Big BPM readout
	components = append(components, m.renderBigBPM())

	// Connection state line
	components = append(components, m.renderStateLine())

	// Session progress
	elapsed := time.Since(m.startedAt)
	infoText := fmt.Sprintf("Elapsed %s · %d readings · started %s",
		formatDuration(elapsed), m.readingCount, m.startedAt.Format("15:04:05"))
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)
	components = append(components, infoStyle.Render(infoText))

	content := strings.Join(components, "\n\n")

	panelStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Align(lipgloss.Center, lipgloss.Center)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		panelStyle.Render(content),
		helpBar,
	)
}

// renderStateLine colors the state by severity
func (m MonitorModel) renderStateLine() string {
	color := ColorSecondaryText
	text := m.state.String()

	switch m.state.Kind {
	case monitor.StateReady:
		color = ColorSuccess
		text = "connected"
	case monitor.StateConnecting, monitor.StateDiscovering:
		color = ColorWarning
	case monitor.StateReconnecting:
		color = ColorWarning
		if m.state.LastKnownBPM != nil {
			text = fmt.Sprintf("%s · last known %d bpm", text, *m.state.LastKnownBPM)
		}
	case monitor.StateFailed:
		color = ColorError
		text = m.state.Message + " Press r to retry."
	case monitor.StateDisconnected:
		color = ColorDisabledText
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render(text)
}

// renderBigBPM renders the ASCII art readout
func (m MonitorModel) renderBigBPM() string {
	// ASCII art for digits (5x5 characters each)
	digits := map[rune][]string{
		'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
		'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
		'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
		'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
		'4': {"█   █", "█   █", "█████", "    █", "    █"},
		'5': {"█████", "█    ", "████ ", "    █", "████ "},
		'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
		'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
		'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
		'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
		'-': {"     ", "     ", "█████", "     ", "     "},
	}

	display := "--"
	if m.currentBPM > 0 {
		display = fmt.Sprintf("%d", m.currentBPM)
	}

	var lines [5]strings.Builder
	for _, char := range display {
		if digitArt, ok := digits[char]; ok {
			for i := 0; i < 5; i++ {
				lines[i].WriteString(digitArt[i])
				lines[i].WriteString(" ")
			}
		}
	}

	readoutStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	var rows []string
	for i := 0; i < 5; i++ {
		rows = append(rows, readoutStyle.Render(lines[i].String()))
	}
	rows = append(rows, lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDisabledText)).
		Render("bpm"))

	var centered []string
	for _, row := range rows {
		centered = append(centered, lipgloss.NewStyle().
			Align(lipgloss.Center).
			Width(m.width).
			Render(row))
	}

	return strings.Join(centered, "\n")
}

// renderHelpBar renders the help bar at the bottom
func (m MonitorModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	return helpStyle.Render("s stop & save · r retry connection · q stop & save")
}

// RunMonitorTUI runs the live recording view and finalizes the session when
// it exits.
func RunMonitorTUI(manager *monitor.Manager, coordinator *monitor.Coordinator, rec *recorder.Recorder, states <-chan monitor.ConnectionState, bpm <-chan int) error {
	model := NewMonitorModel(coordinator, rec, states, bpm)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	_ = manager.Disconnect()

	session, err := rec.Stop()
	if err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}
	if session == nil {
		fmt.Println("⏹️  Stopped. No readings were recorded, session discarded.")
		return nil
	}

	fmt.Printf("⏹️  Saved session #%d: %s\n", session.ID, session.Name)
	fmt.Printf("📊 Duration %s · avg %d · min %d · max %d bpm\n",
		formatDuration(session.Duration()), *session.AvgHR, *session.MinHR, *session.MaxHR)
	return nil
}

// formatDuration formats a duration in a human-readable way (same helper as
// the commands package)
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}
