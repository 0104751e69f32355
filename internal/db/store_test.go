package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"pulsetrack/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateSession_ActiveUniqueness(t *testing.T) {
	store := testStore(t)

	first, err := store.CreateSession("Polar H10", "")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if !first.Active() {
		t.Fatal("new session should be active")
	}

	_, err = store.CreateSession("Polar H10", "second")
	if !errors.Is(err, models.ErrActiveSessionExists) {
		t.Fatalf("second CreateSession() error = %v, want ErrActiveSessionExists", err)
	}

	// Completing the first session frees the slot
	if err := store.CompleteSession(first.ID, time.Now(), 90, 80, 100); err != nil {
		t.Fatalf("CompleteSession() error = %v", err)
	}
	if _, err := store.CreateSession("Polar H10", "second"); err != nil {
		t.Fatalf("CreateSession() after completion error = %v", err)
	}
}

func TestCreateSession_DefaultName(t *testing.T) {
	store := testStore(t)

	session, err := store.CreateSession("Polar H10", "")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if session.Name == "" {
		t.Error("session name should be pre-filled")
	}
	if session.DeviceName != "Polar H10" {
		t.Errorf("device name = %q, want Polar H10", session.DeviceName)
	}
}

func TestInsertReading_RoundTrip(t *testing.T) {
	store := testStore(t)

	session, err := store.CreateSession("strap", "")
	if err != nil {
		t.Fatal(err)
	}

	want := []int{98, 102, 101, 99}
	base := time.Now()
	for i, bpm := range want {
		if _, err := store.InsertReading(session.ID, base.Add(time.Duration(i)*time.Second), bpm); err != nil {
			t.Fatalf("InsertReading(%d) error = %v", bpm, err)
		}
	}

	readings, err := store.ReadingsBySession(session.ID)
	if err != nil {
		t.Fatalf("ReadingsBySession() error = %v", err)
	}
	if len(readings) != len(want) {
		t.Fatalf("got %d readings, want %d", len(readings), len(want))
	}
	for i, reading := range readings {
		if reading.BPM != want[i] {
			t.Errorf("reading[%d].BPM = %d, want %d (insertion order must hold)", i, reading.BPM, want[i])
		}
	}
}

func TestInsertReading_RejectsOutOfRange(t *testing.T) {
	store := testStore(t)

	session, err := store.CreateSession("strap", "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.InsertReading(session.ID, time.Now(), 300); !errors.Is(err, models.ErrBPMOutOfRange) {
		t.Fatalf("InsertReading(300) error = %v, want ErrBPMOutOfRange", err)
	}

	readings, err := store.ReadingsBySession(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(readings) != 0 {
		t.Errorf("rejected reading must not be stored, got %d rows", len(readings))
	}
}

func TestCompleteSession(t *testing.T) {
	store := testStore(t)

	session, err := store.CreateSession("strap", "")
	if err != nil {
		t.Fatal(err)
	}

	endedAt := time.Now()
	if err := store.CompleteSession(session.ID, endedAt, 90, 80, 100); err != nil {
		t.Fatalf("CompleteSession() error = %v", err)
	}

	active, err := store.ActiveSession()
	if err != nil {
		t.Fatal(err)
	}
	if active != nil {
		t.Error("completed session still reported active")
	}

	got, err := store.Session(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.EndedAt == nil || got.EndedAt.Unix() != endedAt.Unix() {
		t.Errorf("EndedAt = %v, want %v", got.EndedAt, endedAt)
	}
	if got.AvgHR == nil || *got.AvgHR != 90 {
		t.Errorf("AvgHR = %v, want 90", got.AvgHR)
	}
	if got.MinHR == nil || *got.MinHR != 80 {
		t.Errorf("MinHR = %v, want 80", got.MinHR)
	}
	if got.MaxHR == nil || *got.MaxHR != 100 {
		t.Errorf("MaxHR = %v, want 100", got.MaxHR)
	}
}

func TestDeleteSession_Cascades(t *testing.T) {
	store := testStore(t)

	session, err := store.CreateSession("strap", "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.InsertReading(session.ID, time.Now(), 100+i); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.DeleteSession(session.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	if _, err := store.Session(session.ID); err == nil {
		t.Error("deleted session still present")
	}

	readings, err := store.ReadingsBySession(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(readings) != 0 {
		t.Errorf("cascade left %d readings behind", len(readings))
	}
}

func TestRetentionDays(t *testing.T) {
	store := testStore(t)

	if got := store.RetentionDays(); got != models.DefaultRetentionDays {
		t.Errorf("default retention = %d, want %d", got, models.DefaultRetentionDays)
	}

	if err := store.SetRetentionDays(90); err != nil {
		t.Fatalf("SetRetentionDays() error = %v", err)
	}
	if got := store.RetentionDays(); got != 90 {
		t.Errorf("retention = %d, want 90", got)
	}

	if err := store.SetRetentionDays(0); err == nil {
		t.Error("SetRetentionDays(0) should fail")
	}
	if err := store.SetRetentionDays(4000); err == nil {
		t.Error("SetRetentionDays(4000) should fail")
	}

	// A corrupted stored value falls back to the default
	if err := store.SetSetting(models.SettingRetentionDays, "not-a-number"); err != nil {
		t.Fatal(err)
	}
	if got := store.RetentionDays(); got != models.DefaultRetentionDays {
		t.Errorf("retention with bad value = %d, want default %d", got, models.DefaultRetentionDays)
	}
}

func TestSettings_Upsert(t *testing.T) {
	store := testStore(t)

	if _, ok, err := store.Setting("missing"); err != nil || ok {
		t.Fatalf("Setting(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := store.SetSetting("theme", "dark"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetSetting("theme", "light"); err != nil {
		t.Fatal(err)
	}

	value, ok, err := store.Setting("theme")
	if err != nil || !ok {
		t.Fatalf("Setting(theme) = ok=%v err=%v", ok, err)
	}
	if value != "light" {
		t.Errorf("value = %q, want light", value)
	}
}
