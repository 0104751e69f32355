package monitor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testCoordinator(fake *fakePeripheral, maxAttempts uint) (*Manager, *Coordinator) {
	manager := NewManager(fake, time.Second, testLog())
	coordinator := NewCoordinator(manager, CoordinatorConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    4 * time.Millisecond,
	}, testLog())
	return manager, coordinator
}

func TestTrigger_DuplicateIsNoOp(t *testing.T) {
	fake := newFakePeripheral()
	fake.connectGate = make(chan struct{})
	manager, coordinator := testCoordinator(fake, 3)

	coordinator.Trigger(nil)
	// Let the first attempt get in flight before the duplicates arrive.
	waitForKind(t, manager.States(), StateReconnecting)

	coordinator.Trigger(nil)
	coordinator.Trigger(nil)
	time.Sleep(20 * time.Millisecond)

	if calls := fake.calls(); calls != 1 {
		t.Fatalf("connect attempts = %d, want exactly 1 in flight", calls)
	}

	close(fake.connectGate)
	waitForKind(t, manager.States(), StateReady)
}

func TestReconnect_SucceedsOnRetry(t *testing.T) {
	fake := newFakePeripheral()
	fake.connectErr = errors.New("strap still out of range")
	manager, coordinator := testCoordinator(fake, 5)

	bpm := 104
	coordinator.Trigger(&bpm)
	waitForKind(t, manager.States(), StateReconnecting)

	// Let the second attempt find the strap again.
	fake.mu.Lock()
	fake.connectErr = nil
	fake.mu.Unlock()

	state := waitForKind(t, manager.States(), StateReady)
	if state.Kind != StateReady {
		t.Fatalf("state = %v, want ready", state)
	}
	if calls := fake.calls(); calls < 1 {
		t.Errorf("connect attempts = %d", calls)
	}
}

func TestReconnect_ExhaustsAttempts(t *testing.T) {
	fake := newFakePeripheral()
	fake.connectErr = errors.New("strap gone")
	manager, coordinator := testCoordinator(fake, 3)

	bpm := 112
	coordinator.Trigger(&bpm)

	state := waitForKind(t, manager.States(), StateFailed)
	if state.Message != "Could not reconnect after 3 attempts." {
		t.Errorf("failure message = %q", state.Message)
	}
	if state.LastKnownBPM == nil || *state.LastKnownBPM != 112 {
		t.Errorf("LastKnownBPM = %v, want 112", state.LastKnownBPM)
	}
	if calls := fake.calls(); calls != 3 {
		t.Errorf("connect attempts = %d, want exactly the configured 3", calls)
	}
}

func TestRetryNow_ResetsSequence(t *testing.T) {
	fake := newFakePeripheral()
	fake.connectErr = errors.New("strap gone")
	manager, coordinator := testCoordinator(fake, 2)

	coordinator.Trigger(nil)
	waitForKind(t, manager.States(), StateFailed)
	callsAtFailure := fake.calls()

	// The strap is back; a manual retry starts over from attempt 1.
	fake.mu.Lock()
	fake.connectErr = nil
	fake.mu.Unlock()

	coordinator.RetryNow()
	waitForKind(t, manager.States(), StateReady)

	if fake.calls() != callsAtFailure+1 {
		t.Errorf("manual retry made %d attempts, want 1", fake.calls()-callsAtFailure)
	}
}

func TestBackoff_MonotonicAndCapped(t *testing.T) {
	coordinator := &Coordinator{cfg: CoordinatorConfig{
		BaseDelay: 2 * time.Second,
		MaxDelay:  60 * time.Second,
	}}

	var prev time.Duration
	for n := uint(1); n <= 10; n++ {
		delay := coordinator.backoff(n)
		if delay < prev {
			t.Errorf("backoff(%d) = %v, shrank from %v", n, delay, prev)
		}
		if delay > 60*time.Second {
			t.Errorf("backoff(%d) = %v, exceeds cap", n, delay)
		}
		prev = delay
	}

	if got := coordinator.backoff(1); got != 2*time.Second {
		t.Errorf("backoff(1) = %v, want base delay", got)
	}
	if got := coordinator.backoff(10); got != 60*time.Second {
		t.Errorf("backoff(10) = %v, want cap", got)
	}
}

func TestCoordinator_GuardClearedAfterFailure(t *testing.T) {
	fake := newFakePeripheral()
	fake.connectErr = errors.New("transient")
	manager, coordinator := testCoordinator(fake, 3)

	coordinator.Trigger(nil)
	waitForKind(t, manager.States(), StateFailed)

	// A wedged guard would make this second sequence a no-op.
	fake.mu.Lock()
	fake.connectErr = nil
	fake.mu.Unlock()

	coordinator.Trigger(nil)
	waitForKind(t, manager.States(), StateReady)
}

func TestManagerEstablish_UsableAfterCoordinator(t *testing.T) {
	// The coordinator reuses the manager's attempt flow; make sure a plain
	// Connect still works after a failed sequence.
	fake := newFakePeripheral()
	fake.connectErr = errors.New("gone")
	manager, coordinator := testCoordinator(fake, 2)

	coordinator.Trigger(nil)
	waitForKind(t, manager.States(), StateFailed)

	fake.mu.Lock()
	fake.connectErr = nil
	fake.mu.Unlock()

	if err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() after failed reconnection = %v", err)
	}
	waitForKind(t, manager.States(), StateReady)
}
