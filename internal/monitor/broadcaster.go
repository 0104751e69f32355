package monitor

import "sync"

// subscriberBuffer bounds how far a subscriber may lag before publishers
// block on it. Transitions are never dropped: every subscriber sees every
// transition, in order.
const subscriberBuffer = 64

// StateBroadcaster fans out connection state transitions to subscribers.
// Publishes happen under the lock, so subscribers observe transitions in
// the order they occurred.
type StateBroadcaster struct {
	mu      sync.Mutex
	current ConnectionState
	subs    []chan ConnectionState
}

// NewStateBroadcaster starts in the disconnected state.
func NewStateBroadcaster() *StateBroadcaster {
	return &StateBroadcaster{current: Disconnected()}
}

// Subscribe returns a channel that receives every subsequent transition.
func (b *StateBroadcaster) Subscribe() <-chan ConnectionState {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan ConnectionState, subscriberBuffer)
	b.subs = append(b.subs, ch)
	return ch
}

// Current returns the most recently published state.
func (b *StateBroadcaster) Current() ConnectionState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// publish records the transition and delivers it to every subscriber.
func (b *StateBroadcaster) publish(state ConnectionState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = state
	for _, ch := range b.subs {
		ch <- state
	}
}
