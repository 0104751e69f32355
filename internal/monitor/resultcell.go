package monitor

import "sync"

// resultCell is a single-assignment result slot for the timeout-vs-success
// race. The first resolve wins; every later resolve is discarded. Waiters
// unblock once, when the winning value lands.
type resultCell struct {
	mu       sync.Mutex
	resolved bool
	err      error
	done     chan struct{}
}

func newResultCell() *resultCell {
	return &resultCell{done: make(chan struct{})}
}

// resolve stores err if the cell is still empty. Returns true if this call
// won the race.
func (c *resultCell) resolve(err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resolved {
		return false
	}
	c.resolved = true
	c.err = err
	close(c.done)
	return true
}

// wait blocks until the cell resolves and returns the winning value.
func (c *resultCell) wait() error {
	<-c.done
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
