package ble

import "testing"

func TestParseHeartRateMeasurement_Uint8(t *testing.T) {
	bpm, err := ParseHeartRateMeasurement([]byte{0x00, 75})
	if err != nil {
		t.Fatalf("ParseHeartRateMeasurement() error = %v", err)
	}
	if bpm != 75 {
		t.Errorf("bpm = %d, want 75", bpm)
	}
}

func TestParseHeartRateMeasurement_Uint16(t *testing.T) {
	// 0x012C = 300, little-endian
	bpm, err := ParseHeartRateMeasurement([]byte{0x01, 0x2C, 0x01})
	if err != nil {
		t.Fatalf("ParseHeartRateMeasurement() error = %v", err)
	}
	if bpm != 300 {
		t.Errorf("bpm = %d, want 300", bpm)
	}
}

func TestParseHeartRateMeasurement_IgnoresExtraFields(t *testing.T) {
	// Energy expended and RR intervals may follow the value
	bpm, err := ParseHeartRateMeasurement([]byte{0x10, 62, 0x34, 0x02})
	if err != nil {
		t.Fatalf("ParseHeartRateMeasurement() error = %v", err)
	}
	if bpm != 62 {
		t.Errorf("bpm = %d, want 62", bpm)
	}
}

func TestParseHeartRateMeasurement_Truncated(t *testing.T) {
	if _, err := ParseHeartRateMeasurement([]byte{}); err == nil {
		t.Error("empty payload should fail")
	}
	if _, err := ParseHeartRateMeasurement([]byte{0x00}); err == nil {
		t.Error("payload without value should fail")
	}
	if _, err := ParseHeartRateMeasurement([]byte{0x01, 0x2C}); err == nil {
		t.Error("truncated 16-bit payload should fail")
	}
}
