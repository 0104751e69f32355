package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the connection and recording pipeline. Callers match
// them with errors.Is; wrapped messages carry the specifics.
var (
	// ErrConnectionTimeout: the connect phase exceeded its bound. Retryable.
	ErrConnectionTimeout = errors.New("connection timed out")

	// ErrServiceNotFound: the peripheral lacks the heart-rate service or
	// measurement characteristic. Terminal, never retried automatically.
	ErrServiceNotFound = errors.New("heart rate service not found")

	// ErrUnexpectedDisconnect: the peripheral dropped an established link.
	ErrUnexpectedDisconnect = errors.New("peripheral disconnected unexpectedly")

	// ErrBPMOutOfRange: a reading failed validation. The offending reading
	// is rejected; the session is untouched.
	ErrBPMOutOfRange = errors.New("bpm out of range")

	// ErrActiveSessionExists: a second active session was requested. The
	// store enforces this defensively; the state machine should never let
	// it happen.
	ErrActiveSessionExists = errors.New("an active session already exists")
)

// ReconnectionExhaustedError is the terminal failure after the reconnection
// coordinator runs out of attempts.
type ReconnectionExhaustedError struct {
	Attempts uint
}

func (e *ReconnectionExhaustedError) Error() string {
	return fmt.Sprintf("could not reconnect after %d attempts", e.Attempts)
}
