package main

import (
	"image/color"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"github.com/aiminilabs0/pingponglab/src/viewport"
)

// wheel zoom factors per scroll notch
const (
	wheelZoomIn  = 0.9
	wheelZoomOut = 1.1
)

// chartOverlay sits on top of the chart image and owns all pointer input:
// wheel zoom about the cursor, drag pan, tap-to-select, hover lookups, and
// the touch pinch gesture. It draws nothing but a transparent hit area.
type chartOverlay struct {
	widget.BaseWidget

	state *uiState
	pinch *pinchTracker

	pan *viewport.PanAccumulator

	hoverIdx  int
	nextTouch int
}

func newChartOverlay(state *uiState) *chartOverlay {
	o := &chartOverlay{
		state:    state,
		pinch:    newPinchTracker(state.ctrl),
		pan:      viewport.NewPanAccumulator(state.ctrl),
		hoverIdx: -1,
	}
	o.ExtendBaseWidget(o)
	return o
}

func (o *chartOverlay) CreateRenderer() fyne.WidgetRenderer {
	hit := canvas.NewRectangle(color.Transparent)
	return &overlayRenderer{overlay: o, hit: hit, objs: []fyne.CanvasObject{hit}}
}

type overlayRenderer struct {
	overlay *chartOverlay
	hit     *canvas.Rectangle
	objs    []fyne.CanvasObject
}

func (r *overlayRenderer) Destroy() {}
func (r *overlayRenderer) Layout(size fyne.Size) {
	r.hit.Resize(size)
	r.overlay.pinch.Resize(size.Width, size.Height)
}
func (r *overlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *overlayRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *overlayRenderer) Refresh()                     {}

// Scrolled zooms about the cursor. Scrolling up zooms in.
func (o *chartOverlay) Scrolled(ev *fyne.ScrollEvent) {
	sz := o.Size()
	fx, fy := pixelToFrac(ev.Position.X, ev.Position.Y, sz.Width, sz.Height)
	scale := wheelZoomOut
	if ev.Scrolled.DY > 0 {
		scale = wheelZoomIn
	}
	o.state.ctrl.Zoom(scale, fx, fy)
}

// Dragged pans the window by the drag delta. Deltas feed the accumulator,
// which sums everything sampled inside a frame and commits one Pan per frame;
// the redraw itself runs through the bridge on commit. During a pinch the
// drag stream moves the nearest tracked finger instead.
func (o *chartOverlay) Dragged(ev *fyne.DragEvent) {
	if o.pinch.Active() {
		if id := o.pinch.Nearest(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY); id >= 0 {
			o.pinch.Move(id, ev.Position.X, ev.Position.Y)
		}
		return
	}
	sz := o.Size()
	x0, y0, x1, y1 := plotRect(sz.Width, sz.Height)
	dxFrac := -float64(ev.Dragged.DX) / float64(x1-x0)
	dyFrac := float64(ev.Dragged.DY) / float64(y1-y0) // screen y is inverted
	o.pan.Add(dxFrac, dyFrac)
}

// DragEnd flushes the accumulated pan so the committed window reflects the
// last sampled pointer position.
func (o *chartOverlay) DragEnd() {
	o.pan.Flush()
}

// Tapped selects the nearest marker within a small pixel radius and pins it
// to the detail panel.
func (o *chartOverlay) Tapped(ev *fyne.PointEvent) {
	sz := o.Size()
	win, has := o.state.ctrl.Current()
	if !has {
		return
	}
	idx, d := nearestItem(o.state.plotPoints(), win, ev.Position.X, ev.Position.Y, sz.Width, sz.Height)
	if idx < 0 || d > tapRadiusPx {
		o.state.clearSelection()
		return
	}
	o.state.selectItem(idx)
}

const tapRadiusPx = 18

// MouseIn implements desktop.Hoverable.
func (o *chartOverlay) MouseIn(ev *desktop.MouseEvent) { o.MouseMoved(ev) }

// MouseMoved updates the hover readout with the nearest marker.
func (o *chartOverlay) MouseMoved(ev *desktop.MouseEvent) {
	sz := o.Size()
	win, has := o.state.ctrl.Current()
	if !has {
		return
	}
	idx, d := nearestItem(o.state.plotPoints(), win, ev.Position.X, ev.Position.Y, sz.Width, sz.Height)
	if idx >= 0 && d > hoverRadiusPx {
		idx = -1
	}
	if idx == o.hoverIdx {
		return
	}
	o.hoverIdx = idx
	o.state.setHover(idx)
}

const hoverRadiusPx = 24

// MouseOut clears the hover readout.
func (o *chartOverlay) MouseOut() {
	o.hoverIdx = -1
	o.state.setHover(-1)
}

// TouchDown feeds the pinch tracker on touch platforms. Fyne reports touches
// without pointer ids, so ids are allocated per down event and lifts are
// matched back by proximity; a second finger starts the pinch, and while it
// is active Dragged routes finger movement to the tracker instead of panning.
func (o *chartOverlay) TouchDown(ev *mobile.TouchEvent) {
	o.nextTouch++
	o.pinch.Down(o.nextTouch, ev.Position.X, ev.Position.Y)
}

// TouchUp ends the nearest tracked pointer; below two fingers the gesture
// commits.
func (o *chartOverlay) TouchUp(ev *mobile.TouchEvent) {
	if id := o.pinch.Nearest(ev.Position.X, ev.Position.Y); id >= 0 {
		o.pinch.Up(id)
	}
}

// TouchCancel is treated like a lift.
func (o *chartOverlay) TouchCancel(ev *mobile.TouchEvent) { o.TouchUp(ev) }
