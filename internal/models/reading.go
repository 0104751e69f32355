package models

import (
	"fmt"
	"time"
)

// Physiological bounds for a plausible heart-rate reading. Values outside
// this range are rejected before they reach storage.
const (
	MinBPM = 30
	MaxBPM = 250
)

// HeartRateReading is a single BPM observation tied to a session.
// Readings are immutable once stored.
type HeartRateReading struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	BPM       int       `gorm:"not null" json:"bpm"`
}

// ValidateBPM rejects values outside the plausible physiological range.
func ValidateBPM(bpm int) error {
	if bpm < MinBPM || bpm > MaxBPM {
		return fmt.Errorf("bpm %d outside [%d, %d]: %w", bpm, MinBPM, MaxBPM, ErrBPMOutOfRange)
	}
	return nil
}

// NewReading builds a validated reading for the given session.
func NewReading(sessionID uint, timestamp time.Time, bpm int) (*HeartRateReading, error) {
	if err := ValidateBPM(bpm); err != nil {
		return nil, err
	}
	return &HeartRateReading{
		SessionID: sessionID,
		Timestamp: timestamp,
		BPM:       bpm,
	}, nil
}
