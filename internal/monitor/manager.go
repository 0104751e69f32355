package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pulsetrack/internal/ble"
	"pulsetrack/internal/models"
)

// DefaultConnectTimeout bounds the connect phase only. Service discovery
// runs with no application timeout: discovery duration varies wildly across
// straps, and a second racing timer caused spurious failures.
const DefaultConnectTimeout = 15 * time.Second

// Manager owns the lifecycle of a single peripheral connection and publishes
// every state transition on its broadcaster.
type Manager struct {
	peripheral     ble.Peripheral
	states         *StateBroadcaster
	log            *logrus.Entry
	connectTimeout time.Duration

	mu          sync.Mutex
	lastBPM     *int
	sink        func(bpm int)
	onDrop      func(lastKnownBPM *int)
	intentional bool
	watching    bool
}

// NewManager wires a manager around one peripheral. timeout <= 0 uses the
// default.
func NewManager(peripheral ble.Peripheral, timeout time.Duration, log *logrus.Entry) *Manager {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	return &Manager{
		peripheral:     peripheral,
		states:         NewStateBroadcaster(),
		log:            log,
		connectTimeout: timeout,
	}
}

// States exposes the observable connection state stream.
func (m *Manager) States() *StateBroadcaster {
	return m.states
}

// SetSink routes incoming BPM notifications, typically to the session
// recorder. Must be set before Connect.
func (m *Manager) SetSink(sink func(bpm int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink = sink
}

// SetDropHandler registers the callback for unexpected disconnects. The
// reconnection coordinator registers itself here.
func (m *Manager) SetDropHandler(handler func(lastKnownBPM *int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDrop = handler
}

// LastKnownBPM returns the most recent reading, or nil before the first one.
func (m *Manager) LastKnownBPM() *int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBPM
}

// Connect drives a full caller-initiated connection attempt.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	m.intentional = false
	m.mu.Unlock()

	m.states.publish(Connecting())
	if err := m.establish(ctx); err != nil {
		m.states.publish(Disconnected())
		return err
	}
	return nil
}

// establish runs one connection attempt: the connect/timeout race, then
// discovery and subscription. On success it publishes Discovering and Ready;
// failure states are the caller's responsibility, since a failed reconnection
// attempt stays in Reconnecting while a failed Connect goes to Disconnected.
func (m *Manager) establish(ctx context.Context) error {
	cell := newResultCell()

	timer := time.AfterFunc(m.connectTimeout, func() {
		cell.resolve(models.ErrConnectionTimeout)
	})

	go func() {
		err := m.peripheral.Connect(ctx)
		if !cell.resolve(err) && err == nil {
			// The timeout already won; a late link must not leak.
			m.log.Warn("connect completed after timeout, tearing down")
			_ = m.peripheral.Disconnect()
		}
	}()

	err := cell.wait()
	// Disarm before discovery starts. Stopping a fired timer is a no-op,
	// and the cell ignores a late resolve anyway.
	timer.Stop()

	if err != nil {
		if errors.Is(err, models.ErrConnectionTimeout) {
			m.log.WithField("timeout", m.connectTimeout).Warn("connect timed out")
			return err
		}
		return fmt.Errorf("connect: %w", err)
	}

	m.states.publish(Discovering())
	if err := m.peripheral.DiscoverHeartRate(); err != nil {
		_ = m.peripheral.Disconnect()
		return err
	}

	if err := m.peripheral.Subscribe(m.handleReading); err != nil {
		_ = m.peripheral.Disconnect()
		return fmt.Errorf("subscribe: %w", err)
	}

	m.watchDrops()
	m.states.publish(Ready())
	m.log.WithField("device", m.peripheral.Name()).Info("peripheral ready")
	return nil
}

// Disconnect is the caller-initiated teardown. It does not trigger
// reconnection.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	m.intentional = true
	m.mu.Unlock()

	err := m.peripheral.Disconnect()
	m.states.publish(Disconnected())
	return err
}

func (m *Manager) handleReading(bpm int) {
	m.mu.Lock()
	v := bpm
	m.lastBPM = &v
	sink := m.sink
	m.mu.Unlock()

	if sink != nil {
		sink(bpm)
	}
}

// watchDrops consumes link-termination events from the peripheral. A drop
// following a caller-initiated Disconnect is expected and does not trigger
// reconnection.
func (m *Manager) watchDrops() {
	m.mu.Lock()
	if m.watching {
		m.mu.Unlock()
		return
	}
	m.watching = true
	m.mu.Unlock()

	go func() {
		for range m.peripheral.Drops() {
			m.mu.Lock()
			intentional := m.intentional
			m.intentional = false
			last := m.lastBPM
			handler := m.onDrop
			m.mu.Unlock()

			if intentional {
				m.log.Debug("link closed after caller disconnect")
				continue
			}

			m.states.publish(Disconnected())
			m.log.Warn("unexpected disconnect")
			if handler != nil {
				handler(last)
			}
		}
	}()
}
