package viewport

import (
	"sync"
	"time"

	"github.com/aiminilabs0/pingponglab/src/applog"
)

// Timing of the re-entrancy guard. The disarm delay is measured from the
// last programmatic push in a burst; the notify debounce coalesces the
// several notifications a backend may emit for one logical gesture.
const (
	DefaultDisarmDelay    = 300 * time.Millisecond
	DefaultNotifyDebounce = 120 * time.Millisecond
)

// Controller owns the current view window. All window mutation funnels
// through it; every other component treats the window as a read-only input
// for the duration of one recompute pass. Methods are safe to call from
// timer goroutines as well as the event loop.
type Controller struct {
	mu sync.Mutex

	win    Window
	hasWin bool

	bounds    Window
	hasBounds bool

	onChange []func(Window)

	// re-entrancy guard
	suppressed     bool
	disarmDelay    time.Duration
	notifyDebounce time.Duration
	disarmTimer    *time.Timer
	notifyTimer    *time.Timer
	onNotify       func()

	pinch pinchState
}

type pinchState struct {
	active    bool
	startWin  Window
	startDist float64
	fx, fy    float64 // fractional anchor within the start window
	last      Window
	haveLast  bool
}

// NewController returns a controller with no window and default guard timing.
func NewController() *Controller {
	return &Controller{
		disarmDelay:    DefaultDisarmDelay,
		notifyDebounce: DefaultNotifyDebounce,
	}
}

// SetGuardTiming overrides the guard delays (shortened in tests).
func (c *Controller) SetGuardTiming(disarm, debounce time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disarmDelay = disarm
	c.notifyDebounce = debounce
}

// Current returns the window, if one exists.
func (c *Controller) Current() (Window, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.win, c.hasWin
}

// Bounds returns the autoscale bounds last given to the controller.
func (c *Controller) Bounds() (Window, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds, c.hasBounds
}

// SetBounds records the autoscale bounds of the active (filtered) dataset.
// Bounds clamp zoom-out and floor zoom-in; they do not move the window.
func (c *Controller) SetBounds(pts []Point) {
	b, ok := Autoscale(pts)
	c.mu.Lock()
	c.bounds, c.hasBounds = b, ok
	c.mu.Unlock()
}

// OnChange registers a subscriber invoked after every committed window
// replacement. Subscribers run on the committing goroutine.
func (c *Controller) OnChange(fn func(Window)) {
	c.mu.Lock()
	c.onChange = append(c.onChange, fn)
	c.mu.Unlock()
}

// SetWindow replaces the window and notifies subscribers.
func (c *Controller) SetWindow(w Window) {
	c.mu.Lock()
	c.win = w
	c.hasWin = true
	subs := c.onChange
	c.mu.Unlock()
	for _, fn := range subs {
		fn(w)
	}
}

// RequestAutoscale replaces the window with the autoscale bounds of pts.
// A no-op for an empty set.
func (c *Controller) RequestAutoscale(pts []Point) bool {
	b, ok := Autoscale(pts)
	if !ok {
		return false
	}
	c.mu.Lock()
	c.bounds, c.hasBounds = b, true
	c.mu.Unlock()
	c.SetWindow(b)
	return true
}

// ShouldAutoscale reports whether the current window has gone stale for the
// given (already filtered) point set: true iff a window exists and at least
// one point escapes it on either axis. Used after filter changes to decide
// between keeping the preserved view and autoscaling.
func (c *Controller) ShouldAutoscale(pts []Point) bool {
	c.mu.Lock()
	win, has := c.win, c.hasWin
	c.mu.Unlock()
	if !has {
		return false
	}
	for _, p := range pts {
		if !win.Contains(p) {
			return true
		}
	}
	return false
}

// Zoom rescales both spans by scale about the fractional anchor (fx, fy)
// within the current window and commits the result. scale < 1 zooms in.
// Returns false without committing when there is no window, when the request
// is invalid, or when a zoom-out is refused because the window already covers
// the data bounds.
func (c *Controller) Zoom(scale, fx, fy float64) (Window, bool) {
	c.mu.Lock()
	if !c.hasWin || scale <= 0 || !c.win.Valid() {
		c.mu.Unlock()
		return Window{}, false
	}
	if scale > 1 && c.hasBounds && c.win.Covers(c.bounds) {
		// Already showing everything; unbounded zoom-out would only add
		// empty space.
		c.mu.Unlock()
		return Window{}, false
	}
	next := zoomWindow(c.win, c.bounds, c.hasBounds, scale, fx, fy)
	c.mu.Unlock()
	c.SetWindow(next)
	return next, true
}

// Pan shifts the window by fractions of its own spans and commits.
func (c *Controller) Pan(dxFrac, dyFrac float64) (Window, bool) {
	c.mu.Lock()
	if !c.hasWin || !c.win.Valid() {
		c.mu.Unlock()
		return Window{}, false
	}
	next := c.win
	dx := dxFrac * next.SpanX()
	dy := dyFrac * next.SpanY()
	next.XMin += dx
	next.XMax += dx
	next.YMin += dy
	next.YMax += dy
	c.mu.Unlock()
	c.SetWindow(next)
	return next, true
}

// zoomWindow computes the anchor-preserving rescale of cur. The anchor keeps
// its fractional position, so the data point under the cursor (or between
// two fingers) stays put. Zoom-in spans are floored at minSpanFraction of
// the bounds span; zoom-out results are clamped back inside the bounds.
func zoomWindow(cur, bounds Window, hasBounds bool, scale, fx, fy float64) Window {
	spanX := cur.SpanX() * scale
	spanY := cur.SpanY() * scale
	if hasBounds {
		if minX := bounds.SpanX() * minSpanFraction; spanX < minX {
			spanX = minX
		}
		if minY := bounds.SpanY() * minSpanFraction; spanY < minY {
			spanY = minY
		}
	}
	ax, ay := cur.At(fx, fy)
	next := Window{
		XMin: ax - fx*spanX,
		XMax: ax + (1-fx)*spanX,
		YMin: ay - fy*spanY,
		YMax: ay + (1-fy)*spanY,
	}
	if scale > 1 && hasBounds {
		next = clampInto(next, bounds)
	}
	return next
}

// clampInto shifts w back inside b per axis; an axis wider than the bounds
// collapses to the bounds interval.
func clampInto(w, b Window) Window {
	if w.SpanX() >= b.SpanX() {
		w.XMin, w.XMax = b.XMin, b.XMax
	} else if w.XMin < b.XMin {
		d := b.XMin - w.XMin
		w.XMin += d
		w.XMax += d
	} else if w.XMax > b.XMax {
		d := w.XMax - b.XMax
		w.XMin -= d
		w.XMax -= d
	}
	if w.SpanY() >= b.SpanY() {
		w.YMin, w.YMax = b.YMin, b.YMax
	} else if w.YMin < b.YMin {
		d := b.YMin - w.YMin
		w.YMin += d
		w.YMax += d
	} else if w.YMax > b.YMax {
		d := w.YMax - b.YMax
		w.YMin -= d
		w.YMax -= d
	}
	return w
}

// BeginPinch starts a two-finger gesture: records the start window, the
// start distance between the pointers, and the fractional anchor of the
// gesture midpoint. The data-space anchor is fixed here and never recomputed
// per frame, so independently moving fingers cannot make the view drift.
func (c *Controller) BeginPinch(startDist, fx, fy float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasWin || startDist <= 0 || !c.win.Valid() {
		return false
	}
	c.pinch = pinchState{
		active:    true,
		startWin:  c.win,
		startDist: startDist,
		fx:        fx,
		fy:        fy,
	}
	return true
}

// PinchTo recomputes the window for the current pointer distance, always
// from the gesture's start window. The result is committed immediately so
// the view tracks the fingers; EndPinch makes the last one authoritative.
func (c *Controller) PinchTo(dist float64) (Window, bool) {
	c.mu.Lock()
	if !c.pinch.active || dist <= 0 {
		c.mu.Unlock()
		return Window{}, false
	}
	scale := c.pinch.startDist / dist
	next := zoomWindow(c.pinch.startWin, c.bounds, c.hasBounds, scale, c.pinch.fx, c.pinch.fy)
	if scale > 1 && c.hasBounds && c.pinch.startWin.Covers(c.bounds) {
		// Same refusal as Zoom: spreading fingers on a fully zoomed-out view
		// keeps the start window.
		next = c.pinch.startWin
	}
	c.pinch.last = next
	c.pinch.haveLast = true
	c.mu.Unlock()
	c.SetWindow(next)
	return next, true
}

// EndPinch commits the last computed pinch window, if any, and clears
// gesture state. Called when the pointer count drops below two.
func (c *Controller) EndPinch() {
	c.mu.Lock()
	last, have := c.pinch.last, c.pinch.haveLast
	c.pinch = pinchState{}
	c.mu.Unlock()
	if have {
		c.SetWindow(last)
	}
}

// PinchActive reports whether a two-finger gesture is in progress.
func (c *Controller) PinchActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pinch.active
}

// SetNotifyFunc registers the recompute callback fired (debounced) for
// backend notifications that survive the guard.
func (c *Controller) SetNotifyFunc(fn func()) {
	c.mu.Lock()
	c.onNotify = fn
	c.mu.Unlock()
}

// MarkPush arms the suppression guard. Called immediately before every
// programmatic window push to the render backend; the disarm timer restarts
// on each push so a rapid burst stays suppressed until the burst ends.
func (c *Controller) MarkPush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suppressed = true
	if c.disarmTimer != nil {
		c.disarmTimer.Stop()
	}
	c.disarmTimer = time.AfterFunc(c.disarmDelay, func() {
		c.mu.Lock()
		c.suppressed = false
		c.mu.Unlock()
	})
}

// Suppressed reports whether the guard is armed.
func (c *Controller) Suppressed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suppressed
}

// OnBackendEvent feeds one backend change notification through the guard.
// Armed: the event is an echo of our own push and is discarded. Disarmed:
// the event came from a user gesture inside the backend; it is coalesced
// briefly and then triggers the recompute callback.
func (c *Controller) OnBackendEvent() {
	c.mu.Lock()
	if c.suppressed {
		c.mu.Unlock()
		applog.Debugf("viewport: suppressed backend notification")
		return
	}
	if c.notifyTimer != nil {
		c.notifyTimer.Stop()
	}
	fn := c.onNotify
	c.notifyTimer = time.AfterFunc(c.notifyDebounce, func() {
		if fn != nil {
			fn()
		}
	})
	c.mu.Unlock()
}
