// Package config loads the connection knobs that must be known before the
// database is open. Runtime settings (like retention) live in the store.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults for the connection knobs.
const (
	DefaultConnectTimeout = 15 * time.Second
	DefaultScanTimeout    = 30 * time.Second
)

// Config holds the file-backed settings.
type Config struct {
	DeviceAddress string // target peripheral MAC address
	DeviceName    string // or substring of its advertised name

	DatabasePath string // override for the sqlite file location

	ConnectTimeout time.Duration
	ScanTimeout    time.Duration

	MaxReconnectAttempts uint
	ReconnectBaseDelay   time.Duration
	ReconnectMaxDelay    time.Duration
}

type tomlConfig struct {
	DeviceAddress string `toml:"device_address"`
	DeviceName    string `toml:"device_name"`
	DatabasePath  string `toml:"database_path"`

	ConnectTimeoutSeconds int `toml:"connect_timeout_seconds"`
	ScanTimeoutSeconds    int `toml:"scan_timeout_seconds"`

	MaxReconnectAttempts      uint `toml:"max_reconnect_attempts"`
	ReconnectBaseDelaySeconds int  `toml:"reconnect_base_delay_seconds"`
	ReconnectMaxDelaySeconds  int  `toml:"reconnect_max_delay_seconds"`
}

// Load reads config from ~/.config/pulsetrack/config.toml, falling back to
// defaults when the file is missing or a field is unset.
func Load() (*Config, error) {
	cfg := &Config{
		ConnectTimeout: DefaultConnectTimeout,
		ScanTimeout:    DefaultScanTimeout,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil // Use defaults
	}

	tomlPath := filepath.Join(home, ".config", "pulsetrack", "config.toml")
	if _, err := os.Stat(tomlPath); err != nil {
		return cfg, nil
	}

	var tc tomlConfig
	if _, err := toml.DecodeFile(tomlPath, &tc); err != nil {
		return nil, err
	}
	cfg.apply(tc)

	return cfg, nil
}

func (c *Config) apply(tc tomlConfig) {
	c.DeviceAddress = tc.DeviceAddress
	c.DeviceName = tc.DeviceName
	c.DatabasePath = tc.DatabasePath

	if tc.ConnectTimeoutSeconds > 0 {
		c.ConnectTimeout = time.Duration(tc.ConnectTimeoutSeconds) * time.Second
	}
	if tc.ScanTimeoutSeconds > 0 {
		c.ScanTimeout = time.Duration(tc.ScanTimeoutSeconds) * time.Second
	}
	if tc.MaxReconnectAttempts > 0 {
		c.MaxReconnectAttempts = tc.MaxReconnectAttempts
	}
	if tc.ReconnectBaseDelaySeconds > 0 {
		c.ReconnectBaseDelay = time.Duration(tc.ReconnectBaseDelaySeconds) * time.Second
	}
	if tc.ReconnectMaxDelaySeconds > 0 {
		c.ReconnectMaxDelay = time.Duration(tc.ReconnectMaxDelaySeconds) * time.Second
	}
}
