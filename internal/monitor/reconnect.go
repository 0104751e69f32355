package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pulsetrack/internal/models"
)

// Reconnection defaults. Delays double per attempt from the base, capped at
// the maximum.
const (
	DefaultMaxAttempts        = uint(5)
	DefaultReconnectBaseDelay = 2 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
)

// CoordinatorConfig tunes the reconnection schedule. Zero values fall back
// to the defaults.
type CoordinatorConfig struct {
	MaxAttempts uint
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Coordinator reacts to unexpected disconnects by driving a bounded,
// backoff-scheduled sequence of attempts through the manager. At most one
// attempt is ever in flight.
type Coordinator struct {
	manager *Manager
	cfg     CoordinatorConfig
	log     *logrus.Entry

	mu       sync.Mutex
	inFlight bool
	timer    *time.Timer
	lastBPM  *int
}

// NewCoordinator wires the coordinator to the manager's drop events.
func NewCoordinator(manager *Manager, cfg CoordinatorConfig, log *logrus.Entry) *Coordinator {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultReconnectBaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultReconnectMaxDelay
	}

	c := &Coordinator{manager: manager, cfg: cfg, log: log}
	manager.SetDropHandler(c.Trigger)
	return c
}

// Trigger starts a reconnection sequence at attempt 1. A trigger arriving
// while an attempt is in flight or scheduled is a no-op: overlapping
// sequences would corrupt the backoff timing.
func (c *Coordinator) Trigger(lastKnownBPM *int) {
	c.mu.Lock()
	if c.inFlight || c.timer != nil {
		c.mu.Unlock()
		c.log.Info("reconnection already in progress, ignoring trigger")
		return
	}
	c.lastBPM = lastKnownBPM
	c.mu.Unlock()

	go c.attempt(1)
}

// RetryNow is the user-triggered manual retry. It cancels any pending
// schedule and restarts the sequence from attempt 1.
func (c *Coordinator) RetryNow() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.inFlight = false
	c.lastBPM = c.manager.LastKnownBPM()
	c.mu.Unlock()

	go c.attempt(1)
}

func (c *Coordinator) attempt(n uint) {
	c.mu.Lock()
	last := c.lastBPM
	c.mu.Unlock()

	if n > c.cfg.MaxAttempts {
		err := &models.ReconnectionExhaustedError{Attempts: c.cfg.MaxAttempts}
		c.log.WithError(err).Error("giving up on reconnection")
		c.manager.states.publish(Failed(last, fmt.Sprintf("Could not reconnect after %d attempts.", c.cfg.MaxAttempts)))
		return
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		c.log.Warn("reconnect attempt already in flight, ignoring")
		return
	}
	c.inFlight = true
	c.timer = nil
	c.mu.Unlock()

	c.manager.states.publish(Reconnecting(n, last))
	c.log.WithFields(logrus.Fields{"attempt": n, "max": c.cfg.MaxAttempts}).Info("attempting reconnect")

	err := c.runAttempt()
	if err == nil {
		// The manager's Ready transition is authoritative; nothing more
		// to schedule.
		c.log.WithField("attempt", n).Info("reconnected")
		return
	}

	delay := c.backoff(n)
	c.log.WithError(err).WithFields(logrus.Fields{"attempt": n, "retry_in": delay}).Warn("reconnect attempt failed")

	c.mu.Lock()
	c.timer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.timer = nil
		c.mu.Unlock()
		c.attempt(n + 1)
	})
	c.mu.Unlock()
}

// runAttempt clears the in-flight guard no matter how the attempt ends;
// leaving it set would wedge the coordinator permanently.
func (c *Coordinator) runAttempt() error {
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	return c.manager.establish(context.Background())
}

// backoff grows monotonically with the attempt number, capped at MaxDelay.
func (c *Coordinator) backoff(n uint) time.Duration {
	delay := c.cfg.BaseDelay << (n - 1)
	if delay <= 0 || delay > c.cfg.MaxDelay {
		return c.cfg.MaxDelay
	}
	return delay
}
