// Package render translates the filtered, projected, decluttered item set
// and the current view window into draw calls against a chart backend, and
// forwards the backend's own change notifications back into the viewport
// controller's guard.
package render

import (
	"image"

	"github.com/aiminilabs0/pingponglab/src/viewport"
)

// MarkerGroup is one dot-size bucket of markers sharing a style.
type MarkerGroup struct {
	Size float64
	Xs   []float64
	Ys   []float64
}

// Label is one decluttered text label at a data position.
type Label struct {
	X, Y float64
	Text string
}

// Frame is everything a backend needs for one draw pass.
type Frame struct {
	Title  string
	Window viewport.Window
	Width  int
	Height int

	Groups []MarkerGroup
	// Halo positions draw as an oversized low-opacity layer behind the
	// markers; the layer never intercepts pointer events.
	HaloXs, HaloYs []float64
	HaloSize       float64
	Labels         []Label

	// Autoscaled frames get nice rounded ticks; windowed frames keep the
	// exact committed ranges.
	Autoscaled bool
}

// Backend is the rendering collaborator: an imperative "set these traces and
// this view window" call plus change notifications whenever its view window
// changes for any reason, programmatic pushes included.
type Backend interface {
	Draw(f Frame) (image.Image, error)
	// SetNotify registers the hook the backend calls after every view
	// window change it observes.
	SetNotify(fn func())
}
