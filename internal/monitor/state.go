// Package monitor owns the peripheral connection lifecycle: the connect
// timeout race, the observable state stream, and reconnection scheduling.
package monitor

import "fmt"

// StateKind enumerates the connection lifecycle states.
type StateKind int

const (
	StateDisconnected StateKind = iota
	StateConnecting
	StateDiscovering
	StateReady
	StateReconnecting
	StateFailed
)

// ConnectionState is a tagged variant; the fields beyond Kind are only
// meaningful for the kinds that carry them.
type ConnectionState struct {
	Kind StateKind

	// Attempt is the 1-based reconnection attempt, for StateReconnecting.
	Attempt uint

	// LastKnownBPM carries the reading shown before the link dropped, for
	// StateReconnecting and StateFailed. nil when none was ever received.
	LastKnownBPM *int

	// Message describes terminal failures, for StateFailed.
	Message string
}

func Disconnected() ConnectionState {
	return ConnectionState{Kind: StateDisconnected}
}

func Connecting() ConnectionState {
	return ConnectionState{Kind: StateConnecting}
}

func Discovering() ConnectionState {
	return ConnectionState{Kind: StateDiscovering}
}

func Ready() ConnectionState {
	return ConnectionState{Kind: StateReady}
}

func Reconnecting(attempt uint, lastKnownBPM *int) ConnectionState {
	return ConnectionState{Kind: StateReconnecting, Attempt: attempt, LastKnownBPM: lastKnownBPM}
}

func Failed(lastKnownBPM *int, message string) ConnectionState {
	return ConnectionState{Kind: StateFailed, LastKnownBPM: lastKnownBPM, Message: message}
}

func (s ConnectionState) String() string {
	switch s.Kind {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateDiscovering:
		return "discovering services"
	case StateReady:
		return "ready"
	case StateReconnecting:
		return fmt.Sprintf("reconnecting (attempt %d)", s.Attempt)
	case StateFailed:
		return fmt.Sprintf("failed: %s", s.Message)
	default:
		return fmt.Sprintf("unknown state %d", int(s.Kind))
	}
}
