// Package recorder turns incoming BPM notifications into durable session
// rows, and repairs sessions left behind by an unclean exit.
package recorder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"pulsetrack/internal/db"
	"pulsetrack/internal/models"
)

// Recorder writes readings into the currently active session. It is driven
// by the connection manager's notification sink; a disconnect simply stops
// notifications arriving, so the same session resumes after a reconnect.
type Recorder struct {
	store *db.Store
	log   *logrus.Entry

	mu      sync.Mutex
	session *models.WorkoutSession
}

func New(store *db.Store, log *logrus.Entry) *Recorder {
	return &Recorder{store: store, log: log}
}

// Start opens a new active session. The store rejects it if another session
// is still active.
func (r *Recorder) Start(deviceName, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return fmt.Errorf("recorder already has session #%d: %w", r.session.ID, models.ErrActiveSessionExists)
	}

	session, err := r.store.CreateSession(deviceName, name)
	if err != nil {
		return err
	}

	r.session = session
	r.log.WithFields(logrus.Fields{"session": session.ID, "device": deviceName}).Info("recording started")
	return nil
}

// Record validates and stores one reading against the active session. A
// validation failure rejects that reading only; persistence failures are
// returned so data loss stays visible.
func (r *Recorder) Record(bpm int) error {
	r.mu.Lock()
	session := r.session
	r.mu.Unlock()

	if session == nil {
		r.log.WithField("bpm", bpm).Debug("dropping reading, no active session")
		return nil
	}

	_, err := r.store.InsertReading(session.ID, time.Now(), bpm)
	if errors.Is(err, models.ErrBPMOutOfRange) {
		r.log.WithField("bpm", bpm).Warn("rejecting implausible reading")
		return err
	}
	if err != nil {
		return fmt.Errorf("store reading: %w", err)
	}
	return nil
}

// Stop completes the active session: stats are computed in one pass over its
// readings and written together with the end timestamp in one transaction.
// A session that never received a reading is deleted instead.
func (r *Recorder) Stop() (*models.WorkoutSession, error) {
	r.mu.Lock()
	session := r.session
	r.session = nil
	r.mu.Unlock()

	if session == nil {
		return nil, errors.New("no recording in progress")
	}

	readings, err := r.store.ReadingsBySession(session.ID)
	if err != nil {
		return nil, fmt.Errorf("load readings: %w", err)
	}

	if len(readings) == 0 {
		r.log.WithField("session", session.ID).Info("no readings recorded, discarding session")
		if err := r.store.DeleteSession(session.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	avg, min, max := summarize(readings)
	endedAt := time.Now()
	if err := r.store.CompleteSession(session.ID, endedAt, avg, min, max); err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"session":  session.ID,
		"readings": len(readings),
		"avg_hr":   avg,
	}).Info("recording stopped")

	return r.store.Session(session.ID)
}

// Recording reports whether a session is currently open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil
}

// Session returns the active session, or nil.
func (r *Recorder) Session() *models.WorkoutSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// summarize computes avg/min/max in a single pass.
func summarize(readings []models.HeartRateReading) (avg, min, max int) {
	min = readings[0].BPM
	max = readings[0].BPM
	sum := 0
	for _, reading := range readings {
		sum += reading.BPM
		if reading.BPM < min {
			min = reading.BPM
		}
		if reading.BPM > max {
			max = reading.BPM
		}
	}
	avg = sum / len(readings)
	return avg, min, max
}
