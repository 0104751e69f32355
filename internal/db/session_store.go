package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pulsetrack/internal/models"
)

// CreateSession opens a new active session. The uniqueness of the active
// session is enforced here: the existence check and the insert run in the
// same transaction, so two racing callers cannot both succeed.
func (s *Store) CreateSession(deviceName, name string) (*models.WorkoutSession, error) {
	now := time.Now()
	if name == "" {
		name = models.DefaultSessionName(now)
	}

	session := models.WorkoutSession{
		StartedAt:  now,
		DeviceName: deviceName,
		Name:       name,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var active models.WorkoutSession
		err := tx.Where("ended_at IS NULL").First(&active).Error
		if err == nil {
			return fmt.Errorf("session #%d is still active: %w", active.ID, models.ErrActiveSessionExists)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// InsertReading validates and stores one BPM observation for a session.
func (s *Store) InsertReading(sessionID uint, timestamp time.Time, bpm int) (*models.HeartRateReading, error) {
	reading, err := models.NewReading(sessionID, timestamp, bpm)
	if err != nil {
		return nil, err
	}

	if err := s.db.Create(reading).Error; err != nil {
		return nil, err
	}

	return reading, nil
}

// CompleteSession writes the end timestamp and summary stats in a single
// transaction, transitioning the session out of the active state.
func (s *Store) CompleteSession(sessionID uint, endedAt time.Time, avgHR, minHR, maxHR int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var session models.WorkoutSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			return fmt.Errorf("session #%d not found: %w", sessionID, err)
		}

		session.EndedAt = &endedAt
		session.AvgHR = &avgHR
		session.MinHR = &minHR
		session.MaxHR = &maxHR

		return tx.Save(&session).Error
	})
}

// ActiveSession returns the session with no end time, or nil if none exists.
func (s *Store) ActiveSession() (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := s.db.Where("ended_at IS NULL").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Session retrieves a session by ID.
func (s *Store) Session(id uint) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	if err := s.db.First(&session, id).Error; err != nil {
		return nil, fmt.Errorf("session #%d not found", id)
	}
	return &session, nil
}

// Sessions returns completed sessions, newest first. limit <= 0 means all.
func (s *Store) Sessions(limit int) ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession

	q := s.db.Where("ended_at IS NOT NULL").Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

// CompletedSessionsEndedBefore returns completed sessions whose end time is
// older than the cutoff. Used by the retention sweep.
func (s *Store) CompletedSessionsEndedBefore(cutoff time.Time) ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession

	err := s.db.Where("ended_at IS NOT NULL AND ended_at < ?", cutoff).
		Order("ended_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// ReadingsBySession returns a session's readings in insertion order.
func (s *Store) ReadingsBySession(sessionID uint) ([]models.HeartRateReading, error) {
	var readings []models.HeartRateReading

	err := s.db.Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}

	return readings, nil
}

// DeleteSession removes a session and its readings. The cascade runs inside
// one transaction so a partial delete is never observable.
func (s *Store) DeleteSession(sessionID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.HeartRateReading{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.WorkoutSession{}, sessionID).Error
	})
}
