// Package viewport owns the chart view window: autoscale bounds, anchor
// preserving zoom and pan, two-finger pinch tracking, and the guard that
// keeps the render backend's own change notifications from feeding back into
// the controller.
package viewport

import "math"

// Point is a projected item position in data space.
type Point struct {
	X, Y float64
}

// Window is the visible coordinate region: a pair of closed intervals.
type Window struct {
	XMin, XMax float64
	YMin, YMax float64
}

// SpanX returns the x interval width.
func (w Window) SpanX() float64 { return w.XMax - w.XMin }

// SpanY returns the y interval width.
func (w Window) SpanY() float64 { return w.YMax - w.YMin }

// Valid reports whether both spans are positive and finite. Degenerate
// windows are expected transient states, not errors; callers treat them as
// "no geometry to do".
func (w Window) Valid() bool {
	return w.SpanX() > 0 && w.SpanY() > 0 &&
		!math.IsInf(w.SpanX(), 0) && !math.IsInf(w.SpanY(), 0) &&
		!math.IsNaN(w.SpanX()) && !math.IsNaN(w.SpanY())
}

// Contains reports whether a point lies inside the window on both axes.
func (w Window) Contains(p Point) bool {
	return p.X >= w.XMin && p.X <= w.XMax && p.Y >= w.YMin && p.Y <= w.YMax
}

// Covers reports whether o lies entirely within w.
func (w Window) Covers(o Window) bool {
	return w.XMin <= o.XMin && w.XMax >= o.XMax && w.YMin <= o.YMin && w.YMax >= o.YMax
}

// At returns the data-space point sitting at the fractional position
// (fx, fy) within the window.
func (w Window) At(fx, fy float64) (float64, float64) {
	return w.XMin + fx*w.SpanX(), w.YMin + fy*w.SpanY()
}

// Autoscale padding: 5% of the span per side, at least half a coordinate
// unit so single-point sets still get a visible window.
const (
	padFraction = 0.05
	padMinimum  = 0.5
)

// minSpanFraction floors a zoomed-in span at this fraction of the autoscale
// bounds span, preventing degenerate zero-span windows.
const minSpanFraction = 0.05

// Autoscale returns the padded tight bounding box of the points, or false
// for an empty set.
func Autoscale(pts []Point) (Window, bool) {
	if len(pts) == 0 {
		return Window{}, false
	}
	w := Window{
		XMin: math.Inf(1), XMax: math.Inf(-1),
		YMin: math.Inf(1), YMax: math.Inf(-1),
	}
	for _, p := range pts {
		if p.X < w.XMin {
			w.XMin = p.X
		}
		if p.X > w.XMax {
			w.XMax = p.X
		}
		if p.Y < w.YMin {
			w.YMin = p.Y
		}
		if p.Y > w.YMax {
			w.YMax = p.Y
		}
	}
	padX := math.Max(w.SpanX()*padFraction, padMinimum)
	padY := math.Max(w.SpanY()*padFraction, padMinimum)
	w.XMin -= padX
	w.XMax += padX
	w.YMin -= padY
	w.YMax += padY
	return w, true
}
