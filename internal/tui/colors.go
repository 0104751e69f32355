package tui

// Color constants for pulsetrack TUI theme
const (
	// Base Colors
	ColorAppBackground  = ""        // Use terminal default background
	ColorCardBackground = "#140E1E" // Dark plum
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Primary text (labels, values, titles)
	ColorSecondaryText = "#B1B8C7" // Secondary text - subtle grey
	ColorDisabledText  = "#6D7383" // Disabled/muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Red theme)
	ColorAccentMain   = "#E11D48" // Heart, accent elements, active borders
	ColorAccentBright = "#FB7185" // Highlights, the live BPM readout

	// State Colors
	ColorError   = "#EF4444" // Failed connection
	ColorSuccess = "#22C55E" // Ready, confirmations
	ColorWarning = "#F59E0B" // Connecting/reconnecting
)
