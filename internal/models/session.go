package models

import (
	"time"
)

// WorkoutSession represents one recording session against a heart-rate strap.
// EndedAt == nil means the session is still active and accepting readings.
type WorkoutSession struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	EndedAt    *time.Time `gorm:"index" json:"ended_at"`
	DeviceName string     `json:"device_name"`
	Name       string     `json:"name"`

	// Summary stats, populated only when the session completes
	AvgHR          *int     `json:"avg_hr"`
	MinHR          *int     `json:"min_hr"`
	MaxHR          *int     `json:"max_hr"`
	DistanceMeters *float64 `json:"distance_meters"`

	// Relationships
	Readings []HeartRateReading `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE;" json:"readings,omitempty"`
}

// Active reports whether the session has no recorded end time.
func (s *WorkoutSession) Active() bool {
	return s.EndedAt == nil
}

// Duration returns the recorded length of a completed session, or the
// elapsed time so far for an active one.
func (s *WorkoutSession) Duration() time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return time.Since(s.StartedAt)
}

// DefaultSessionName pre-fills the session name from its start time.
func DefaultSessionName(startedAt time.Time) string {
	return "Workout " + startedAt.Format("Jan 2 15:04")
}
