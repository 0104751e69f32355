package db

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pulsetrack/internal/models"
)

// Setting returns the stored value for key, and whether it was present.
func (s *Store) Setting(key string) (string, bool, error) {
	var setting models.Setting
	err := s.db.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return setting.Value, true, nil
}

// SetSetting upserts a key/value pair.
func (s *Store) SetSetting(key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
}

// RetentionDays returns the configured session retention window, falling
// back to the default when the setting is missing or malformed.
func (s *Store) RetentionDays() int {
	value, ok, err := s.Setting(models.SettingRetentionDays)
	if err != nil || !ok {
		return models.DefaultRetentionDays
	}
	days, err := strconv.Atoi(value)
	if err != nil || models.ValidateRetentionDays(days) != nil {
		return models.DefaultRetentionDays
	}
	return days
}

// SetRetentionDays validates and stores the retention window.
func (s *Store) SetRetentionDays(days int) error {
	if err := models.ValidateRetentionDays(days); err != nil {
		return err
	}
	return s.SetSetting(models.SettingRetentionDays, strconv.Itoa(days))
}
