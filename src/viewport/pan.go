package viewport

import "sync"

// PanAccumulator turns a stream of relative pan deltas into per-frame Pan
// commits without losing movement. Frame coalescing replaces pending work,
// which is lossless only for absolute recomputes (a pinch re-derives its
// window from gesture start); relative deltas landing inside one frame must
// be summed or the replaced frames would drop their movement. Add sums the
// deltas and the deferred commit consumes the sum, so the window after Flush
// reflects every sampled pointer delta.
type PanAccumulator struct {
	ctrl *Controller
	co   *Coalescer

	mu     sync.Mutex
	dx, dy float64
}

// NewPanAccumulator returns a frame-rate pan accumulator committing to ctrl.
func NewPanAccumulator(ctrl *Controller) *PanAccumulator {
	return &PanAccumulator{ctrl: ctrl, co: NewCoalescer()}
}

// Add accumulates one event's fractional deltas and schedules a commit on
// the next frame.
func (p *PanAccumulator) Add(dx, dy float64) {
	p.mu.Lock()
	p.dx += dx
	p.dy += dy
	p.mu.Unlock()
	p.co.Defer(p.commit)
}

// commit consumes the accumulated deltas in one Pan. The reset happens
// before the Pan so a concurrent Add is never double-counted.
func (p *PanAccumulator) commit() {
	p.mu.Lock()
	dx, dy := p.dx, p.dy
	p.dx, p.dy = 0, 0
	p.mu.Unlock()
	if dx == 0 && dy == 0 {
		return
	}
	p.ctrl.Pan(dx, dy)
}

// Flush commits any accumulated movement immediately (gesture-end path).
// The direct commit after the coalescer flush covers a delta added while a
// frame was mid-fire.
func (p *PanAccumulator) Flush() {
	p.co.Flush()
	p.commit()
}
