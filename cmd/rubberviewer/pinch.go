package main

import (
	"math"

	"github.com/aiminilabs0/pingponglab/src/viewport"
)

// pinchTracker turns raw multi-pointer events into controller pinch calls.
// It is deliberately free of any UI types so the gesture math is testable:
// the overlay feeds it pointer down/move/up with overlay-local coordinates.
//
// The gesture anchor (the midpoint between the two pointers at gesture
// start) is converted to a fractional window position once, at start; every
// update re-derives the window from that fixed anchor and the start
// distance, so fingers moving independently cannot make the view drift.
// Moves are coalesced to one geometry recompute per frame; losing a pointer
// flushes the pending frame and commits.
type pinchTracker struct {
	ctrl *viewport.Controller
	co   *viewport.Coalescer

	w, h     float32
	pointers map[int]pointerPos
	active   bool
}

type pointerPos struct{ x, y float32 }

func newPinchTracker(ctrl *viewport.Controller) *pinchTracker {
	return &pinchTracker{
		ctrl:     ctrl,
		co:       viewport.NewCoalescer(),
		pointers: map[int]pointerPos{},
	}
}

// Resize tells the tracker the overlay's current pixel size.
func (p *pinchTracker) Resize(w, h float32) { p.w, p.h = w, h }

func (p *pinchTracker) distance() float64 {
	var pts []pointerPos
	for _, pos := range p.pointers {
		pts = append(pts, pos)
		if len(pts) == 2 {
			break
		}
	}
	if len(pts) < 2 {
		return 0
	}
	return math.Hypot(float64(pts[0].x-pts[1].x), float64(pts[0].y-pts[1].y))
}

func (p *pinchTracker) midpoint() (float32, float32) {
	var pts []pointerPos
	for _, pos := range p.pointers {
		pts = append(pts, pos)
		if len(pts) == 2 {
			break
		}
	}
	return (pts[0].x + pts[1].x) / 2, (pts[0].y + pts[1].y) / 2
}

// Down registers a pointer. The second pointer starts the gesture.
func (p *pinchTracker) Down(id int, x, y float32) {
	p.pointers[id] = pointerPos{x, y}
	if p.active || len(p.pointers) != 2 {
		return
	}
	d := p.distance()
	if d <= 0 {
		return
	}
	mx, my := p.midpoint()
	fx, fy := pixelToFrac(mx, my, p.w, p.h)
	if p.ctrl.BeginPinch(d, fx, fy) {
		p.active = true
	}
}

// Move updates a pointer and defers a window recompute to the next frame.
func (p *pinchTracker) Move(id int, x, y float32) {
	if _, ok := p.pointers[id]; !ok {
		return
	}
	p.pointers[id] = pointerPos{x, y}
	if !p.active {
		return
	}
	d := p.distance()
	if d <= 0 {
		return
	}
	ctrl := p.ctrl
	p.co.Defer(func() { ctrl.PinchTo(d) })
}

// Up removes a pointer. Dropping below two pointers flushes the pending
// frame and commits the gesture; any remaining pointer state is kept so a
// new second touch can start a fresh gesture.
func (p *pinchTracker) Up(id int) {
	delete(p.pointers, id)
	if p.active && len(p.pointers) < 2 {
		p.co.Flush()
		p.ctrl.EndPinch()
		p.active = false
	}
}

// Active reports whether a pinch is in progress.
func (p *pinchTracker) Active() bool { return p.active }

// Nearest returns the id of the tracked pointer closest to a position, or -1
// when none is tracked. Fyne's touch events carry no pointer ids, so the
// overlay matches lifts and moves to the nearest known pointer.
func (p *pinchTracker) Nearest(x, y float32) int {
	best, bestD := -1, math.MaxFloat64
	for id, pos := range p.pointers {
		d := math.Hypot(float64(pos.x-x), float64(pos.y-y))
		if d < bestD {
			bestD = d
			best = id
		}
	}
	return best
}

// Count returns the number of tracked pointers.
func (p *pinchTracker) Count() int { return len(p.pointers) }
