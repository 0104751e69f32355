package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{
		ConnectTimeout: DefaultConnectTimeout,
		ScanTimeout:    DefaultScanTimeout,
	}
	cfg.apply(tomlConfig{})

	if cfg.ConnectTimeout != 15*time.Second {
		t.Errorf("ConnectTimeout = %v, want 15s", cfg.ConnectTimeout)
	}
	if cfg.ScanTimeout != 30*time.Second {
		t.Errorf("ScanTimeout = %v, want 30s", cfg.ScanTimeout)
	}
	if cfg.DeviceAddress != "" || cfg.DeviceName != "" {
		t.Error("no device should be configured by default")
	}
}

func TestApply(t *testing.T) {
	cfg := &Config{
		ConnectTimeout: DefaultConnectTimeout,
		ScanTimeout:    DefaultScanTimeout,
	}
	cfg.apply(tomlConfig{
		DeviceAddress:             "C9:4B:12:00:11:22",
		ConnectTimeoutSeconds:     20,
		MaxReconnectAttempts:      8,
		ReconnectBaseDelaySeconds: 3,
		ReconnectMaxDelaySeconds:  45,
	})

	if cfg.DeviceAddress != "C9:4B:12:00:11:22" {
		t.Errorf("DeviceAddress = %q", cfg.DeviceAddress)
	}
	if cfg.ConnectTimeout != 20*time.Second {
		t.Errorf("ConnectTimeout = %v, want 20s", cfg.ConnectTimeout)
	}
	if cfg.MaxReconnectAttempts != 8 {
		t.Errorf("MaxReconnectAttempts = %d, want 8", cfg.MaxReconnectAttempts)
	}
	if cfg.ReconnectBaseDelay != 3*time.Second {
		t.Errorf("ReconnectBaseDelay = %v, want 3s", cfg.ReconnectBaseDelay)
	}
	if cfg.ReconnectMaxDelay != 45*time.Second {
		t.Errorf("ReconnectMaxDelay = %v, want 45s", cfg.ReconnectMaxDelay)
	}

	// Unset fields keep their previous values
	if cfg.ScanTimeout != DefaultScanTimeout {
		t.Errorf("ScanTimeout = %v, want default", cfg.ScanTimeout)
	}
}
