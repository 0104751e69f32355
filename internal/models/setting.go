package models

import "fmt"

// Setting is a persisted key/value pair.
type Setting struct {
	Key   string `gorm:"primarykey" json:"key"`
	Value string `json:"value"`
}

// Keys for settings stored in the database.
const (
	SettingRetentionDays = "sessionRetentionDays"
)

// Retention window bounds, in days.
const (
	DefaultRetentionDays = 30
	MinRetentionDays     = 1
	MaxRetentionDays     = 3650
)

// ValidateRetentionDays checks the retention window bounds.
func ValidateRetentionDays(days int) error {
	if days < MinRetentionDays || days > MaxRetentionDays {
		return fmt.Errorf("retention must be between %d and %d days, got %d", MinRetentionDays, MaxRetentionDays, days)
	}
	return nil
}
