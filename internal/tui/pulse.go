package tui

import "time"

// pulseFrames alternate to mimic a heartbeat next to the live readout.
var pulseFrames = []string{"♥", "♡"}

// pulseInterval paces the heartbeat animation from the live BPM, clamped so
// the terminal stays readable at extreme rates.
func pulseInterval(bpm int) time.Duration {
	if bpm <= 0 {
		return 800 * time.Millisecond
	}

	interval := time.Minute / time.Duration(bpm)
	if interval < 250*time.Millisecond {
		return 250 * time.Millisecond
	}
	if interval > 2*time.Second {
		return 2 * time.Second
	}
	return interval
}
