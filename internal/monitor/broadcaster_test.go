package monitor

import "testing"

func TestBroadcaster_DeliversInOrder(t *testing.T) {
	b := NewStateBroadcaster()

	first := b.Subscribe()
	second := b.Subscribe()

	transitions := []ConnectionState{
		Connecting(),
		Discovering(),
		Ready(),
		Disconnected(),
		Reconnecting(1, nil),
	}
	for _, state := range transitions {
		b.publish(state)
	}

	for _, sub := range []<-chan ConnectionState{first, second} {
		for i, want := range transitions {
			got := <-sub
			if got.Kind != want.Kind {
				t.Fatalf("transition %d = %v, want %v", i, got.Kind, want.Kind)
			}
		}
	}
}

func TestBroadcaster_Current(t *testing.T) {
	b := NewStateBroadcaster()

	if got := b.Current(); got.Kind != StateDisconnected {
		t.Errorf("initial state = %v, want disconnected", got)
	}

	bpm := 72
	b.publish(Failed(&bpm, "Could not reconnect after 5 attempts."))

	got := b.Current()
	if got.Kind != StateFailed {
		t.Fatalf("state = %v, want failed", got)
	}
	if got.LastKnownBPM == nil || *got.LastKnownBPM != 72 {
		t.Errorf("LastKnownBPM = %v, want 72", got.LastKnownBPM)
	}
}

func TestBroadcaster_LateSubscriberSeesOnlyNewTransitions(t *testing.T) {
	b := NewStateBroadcaster()
	b.publish(Connecting())

	sub := b.Subscribe()
	b.publish(Ready())

	got := <-sub
	if got.Kind != StateReady {
		t.Errorf("late subscriber got %v, want ready", got.Kind)
	}
}
