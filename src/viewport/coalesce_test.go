package viewport

import (
	"sync/atomic"
	"testing"
	"time"
)

// TestCoalescer_LastWriteWins: a burst of deferred funcs runs once, and the
// run reflects the last sampled state.
func TestCoalescer_LastWriteWins(t *testing.T) {
	c := NewCoalescerWithInterval(20 * time.Millisecond)
	var got int32
	for i := 1; i <= 5; i++ {
		v := int32(i)
		c.Defer(func() { atomic.StoreInt32(&got, v) })
	}
	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&got) != 5 {
		t.Fatalf("ran with stale state: got %d, want 5", got)
	}
}

func TestCoalescer_RunsAtMostOncePerTick(t *testing.T) {
	c := NewCoalescerWithInterval(25 * time.Millisecond)
	var runs int32
	for i := 0; i < 10; i++ {
		c.Defer(func() { atomic.AddInt32(&runs, 1) })
	}
	time.Sleep(60 * time.Millisecond)
	if got := atomic.LoadInt32(&runs); got != 1 {
		t.Fatalf("burst ran %d times, want 1", got)
	}
}

// TestCoalescer_FlushRunsPendingNow: gesture end must not wait for the tick.
func TestCoalescer_FlushRunsPendingNow(t *testing.T) {
	c := NewCoalescerWithInterval(time.Hour)
	var ran int32
	c.Defer(func() { atomic.StoreInt32(&ran, 1) })
	c.Flush()
	if atomic.LoadInt32(&ran) != 1 {
		t.Fatalf("Flush did not run the pending func")
	}
	// the cancelled timer must not run it again
	c.Flush()
	if atomic.LoadInt32(&ran) != 1 {
		t.Fatalf("pending func ran twice")
	}
}

func TestCoalescer_FlushWithoutPending(t *testing.T) {
	c := NewCoalescerWithInterval(10 * time.Millisecond)
	c.Flush() // must not panic
}
