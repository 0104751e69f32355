package ble

import (
	"fmt"

	"tinygo.org/x/bluetooth"
)

// Assigned numbers for the Bluetooth Heart Rate profile.
var (
	HeartRateServiceUUID     = bluetooth.New16BitUUID(0x180D)
	HeartRateMeasurementUUID = bluetooth.New16BitUUID(0x2A37)
)

// Flag bits of the Heart Rate Measurement characteristic value.
const (
	hrFormatUint16 = 1 << 0 // bit 0: value is uint16 instead of uint8
)

// ParseHeartRateMeasurement decodes the BPM value from a Heart Rate
// Measurement notification payload. The first byte is a flags field; bit 0
// selects between an 8-bit and a little-endian 16-bit value.
func ParseHeartRateMeasurement(buf []byte) (int, error) {
	if len(buf) < 2 {
		return 0, fmt.Errorf("heart rate measurement too short: %d bytes", len(buf))
	}

	flags := buf[0]
	if flags&hrFormatUint16 != 0 {
		if len(buf) < 3 {
			return 0, fmt.Errorf("heart rate measurement truncated: 16-bit value needs 3 bytes, got %d", len(buf))
		}
		return int(buf[1]) | int(buf[2])<<8, nil
	}

	return int(buf[1]), nil
}
