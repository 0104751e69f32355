// Package ble wraps the wire-level Bluetooth Low Energy operations for a
// single heart-rate peripheral at a time.
package ble

import "context"

// Peripheral is the seam between the connection manager and the BLE stack.
// The real implementation is Device; tests substitute fakes.
//
// Drops delivers at most one event per established link, when the peripheral
// side terminates it. A Disconnect call also surfaces as a drop event; the
// manager tells the two apart by tracking its own intent.
type Peripheral interface {
	// Connect establishes the link. Cancellable via ctx.
	Connect(ctx context.Context) error

	// DiscoverHeartRate locates the heart-rate service and measurement
	// characteristic. No application timeout: discovery duration is highly
	// device-dependent, so this defers to the stack's own behavior.
	DiscoverHeartRate() error

	// Subscribe enables measurement notifications. notify is called once
	// per BPM value, in arrival order.
	Subscribe(notify func(bpm int)) error

	// Disconnect tears down the link.
	Disconnect() error

	// Drops receives an event when an established link terminates.
	Drops() <-chan error

	// Name returns the peripheral's advertised name, once known.
	Name() string
}
