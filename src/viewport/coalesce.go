package viewport

import (
	"sync"
	"time"
)

// frameInterval approximates one display refresh at 60Hz.
const frameInterval = 16 * time.Millisecond

// Coalescer defers work to the next display-refresh tick so bursts of
// pointer-move events recompute geometry at most once per frame. Only the
// most recent deferred func runs; intermediate frames are dropped, but the
// one that does run always reflects the last sampled state.
type Coalescer struct {
	mu       sync.Mutex
	interval time.Duration
	pending  func()
	timer    *time.Timer
}

// NewCoalescer returns a frame-rate coalescer.
func NewCoalescer() *Coalescer {
	return &Coalescer{interval: frameInterval}
}

// NewCoalescerWithInterval is the test hook for shorter ticks.
func NewCoalescerWithInterval(d time.Duration) *Coalescer {
	return &Coalescer{interval: d}
}

// Defer schedules fn for the next tick, replacing any not-yet-run fn.
func (c *Coalescer) Defer(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = fn
	if c.timer != nil {
		return // a tick is already scheduled; it will pick up the new fn
	}
	c.timer = time.AfterFunc(c.interval, c.fire)
}

func (c *Coalescer) fire() {
	c.mu.Lock()
	fn := c.pending
	c.pending = nil
	c.timer = nil
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Flush runs any pending fn immediately. Used on gesture end so the
// committed state reflects the last sampled pointer positions even when the
// final frame had not ticked yet.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	fn := c.pending
	c.pending = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
