package ble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"

	"pulsetrack/internal/models"
)

// DeviceConfig identifies the target peripheral for a Device.
type DeviceConfig struct {
	// Address matches the peripheral's MAC address (or CoreBluetooth UUID)
	// exactly. Takes precedence over NameHint when set.
	Address string

	// NameHint matches by substring of the advertised local name.
	NameHint string

	// ScanTimeout bounds the scan phase of Connect.
	ScanTimeout time.Duration
}

// Device is the tinygo bluetooth implementation of Peripheral.
type Device struct {
	cfg     DeviceConfig
	adapter *bluetooth.Adapter
	log     *logrus.Entry

	mu    sync.Mutex
	peer  *bluetooth.Device
	char  *bluetooth.DeviceCharacteristic
	name  string
	drops chan error
}

// NewDevice creates a Device using the platform's default adapter.
func NewDevice(cfg DeviceConfig, log *logrus.Entry) *Device {
	if cfg.ScanTimeout <= 0 {
		cfg.ScanTimeout = 30 * time.Second
	}
	return &Device{
		cfg:     cfg,
		adapter: bluetooth.DefaultAdapter,
		log:     log,
		drops:   make(chan error, 1),
	}
}

// Connect scans for the configured peripheral and establishes the link.
func (d *Device) Connect(ctx context.Context) error {
	if err := d.adapter.Enable(); err != nil {
		return fmt.Errorf("enable BLE stack: %w", err)
	}

	// Drop events for an established link arrive through the adapter's
	// connect handler.
	d.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		if connected {
			return
		}
		d.log.WithField("device", device.Address.String()).Debug("link terminated")
		select {
		case d.drops <- fmt.Errorf("link to %s lost: %w", device.Address.String(), models.ErrUnexpectedDisconnect):
		default:
		}
	})

	result, err := d.scan(ctx)
	if err != nil {
		return err
	}

	d.log.WithFields(logrus.Fields{
		"address": result.Address.String(),
		"name":    result.LocalName(),
	}).Info("connecting to peripheral")

	peer, err := d.adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("connect to %s: %w", result.Address.String(), err)
	}

	d.mu.Lock()
	d.peer = &peer
	d.name = result.LocalName()
	d.mu.Unlock()

	return nil
}

// scan looks for an advertisement matching the configured address or name.
func (d *Device) scan(ctx context.Context) (bluetooth.ScanResult, error) {
	found := make(chan bluetooth.ScanResult, 1)

	go func() {
		err := d.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !d.matches(result) {
				return
			}
			select {
			case found <- result:
			default:
			}
		})
		if err != nil {
			d.log.WithError(err).Error("scan failed to start")
		}
	}()

	select {
	case result := <-found:
		if err := d.adapter.StopScan(); err != nil {
			return bluetooth.ScanResult{}, fmt.Errorf("stop scan: %w", err)
		}
		return result, nil
	case <-time.After(d.cfg.ScanTimeout):
		_ = d.adapter.StopScan()
		return bluetooth.ScanResult{}, fmt.Errorf("peripheral not found within %s", d.cfg.ScanTimeout)
	case <-ctx.Done():
		_ = d.adapter.StopScan()
		return bluetooth.ScanResult{}, ctx.Err()
	}
}

func (d *Device) matches(result bluetooth.ScanResult) bool {
	if d.cfg.Address != "" {
		return strings.EqualFold(result.Address.String(), d.cfg.Address)
	}
	if d.cfg.NameHint != "" {
		return strings.Contains(result.LocalName(), d.cfg.NameHint)
	}
	return false
}

// DiscoverHeartRate locates the heart-rate service and its measurement
// characteristic on the connected peer.
func (d *Device) DiscoverHeartRate() error {
	d.mu.Lock()
	peer := d.peer
	d.mu.Unlock()
	if peer == nil {
		return errors.New("not connected")
	}

	services, err := peer.DiscoverServices([]bluetooth.UUID{HeartRateServiceUUID})
	if err != nil {
		return fmt.Errorf("discover services: %w", err)
	}
	if len(services) == 0 {
		return fmt.Errorf("peripheral has no heart rate service: %w", models.ErrServiceNotFound)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{HeartRateMeasurementUUID})
	if err != nil {
		return fmt.Errorf("discover characteristics: %w", err)
	}
	if len(chars) == 0 {
		return fmt.Errorf("heart rate service has no measurement characteristic: %w", models.ErrServiceNotFound)
	}

	d.mu.Lock()
	d.char = &chars[0]
	d.mu.Unlock()

	return nil
}

// Subscribe enables measurement notifications and forwards each decoded BPM
// value to notify.
func (d *Device) Subscribe(notify func(bpm int)) error {
	d.mu.Lock()
	char := d.char
	d.mu.Unlock()
	if char == nil {
		return errors.New("heart rate characteristic not discovered")
	}

	err := char.EnableNotifications(func(buf []byte) {
		bpm, err := ParseHeartRateMeasurement(buf)
		if err != nil {
			d.log.WithError(err).Warn("discarding malformed notification")
			return
		}
		notify(bpm)
	})
	if err != nil {
		return fmt.Errorf("enable notifications: %w", err)
	}

	return nil
}

// Disconnect tears down the link.
func (d *Device) Disconnect() error {
	d.mu.Lock()
	peer := d.peer
	d.peer = nil
	d.char = nil
	d.mu.Unlock()

	if peer == nil {
		return nil
	}
	return peer.Disconnect()
}

// Drops receives an event when the established link terminates.
func (d *Device) Drops() <-chan error {
	return d.drops
}

// Name returns the peripheral's advertised name, once known.
func (d *Device) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}
