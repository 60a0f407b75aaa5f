package render

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/aiminilabs0/pingponglab/src/applog"
	"github.com/aiminilabs0/pingponglab/src/declutter"
	"github.com/aiminilabs0/pingponglab/src/ranking"
	"github.com/aiminilabs0/pingponglab/src/viewport"
)

// PlotItem is one filtered catalog entry ready to draw: its projection plus
// label text and declutter priority.
type PlotItem struct {
	ranking.Projection
	Label    string
	Priority int
}

// Default label exclusion box in pixels: roughly one label's footprint.
const (
	DefaultMinLabelDx = 58.0
	DefaultMinLabelDy = 16.0
)

// haloFactor scales the biggest marker up to the bestseller halo size.
const haloFactor = 2.4

// Stats summarizes one render pass; the visible count is a user-facing
// signal of how much the declutterer hid.
type Stats struct {
	Total   int // candidates after filtering
	Visible int // drawn and labeled
}

// Bridge drives the draw cycle: it listens for committed window changes,
// re-runs the declutterer for the new window, pushes a frame to the backend,
// and hands the resulting image to the UI. Backend notifications triggered
// by its own pushes are routed through the controller's guard.
type Bridge struct {
	ctrl    *viewport.Controller
	backend Backend

	mu         sync.Mutex
	items      []PlotItem
	width      int
	height     int
	minLabelDx float64
	minLabelDy float64
	title      string
	onImage    func(image.Image, Stats)
}

// NewBridge wires a controller and a backend together. The backend's change
// notifications flow into the controller's guard; surviving notifications
// and every committed window change trigger a redraw.
func NewBridge(ctrl *viewport.Controller, backend Backend) *Bridge {
	b := &Bridge{
		ctrl:       ctrl,
		backend:    backend,
		width:      900,
		height:     600,
		minLabelDx: DefaultMinLabelDx,
		minLabelDy: DefaultMinLabelDy,
	}
	backend.SetNotify(ctrl.OnBackendEvent)
	ctrl.SetNotifyFunc(b.Redraw)
	ctrl.OnChange(func(viewport.Window) { b.Redraw() })
	return b
}

// OnImage registers the sink for rendered images.
func (b *Bridge) OnImage(fn func(image.Image, Stats)) {
	b.mu.Lock()
	b.onImage = fn
	b.mu.Unlock()
}

// SetTitle sets the chart title used on subsequent frames.
func (b *Bridge) SetTitle(s string) {
	b.mu.Lock()
	b.title = s
	b.mu.Unlock()
}

// Resize updates the pixel size; the declutterer sees the new dimensions on
// the next pass.
func (b *Bridge) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	b.mu.Lock()
	b.width, b.height = w, h
	b.mu.Unlock()
}

// SetLabelSpacing overrides the label exclusion box.
func (b *Bridge) SetLabelSpacing(dx, dy float64) {
	b.mu.Lock()
	b.minLabelDx, b.minLabelDy = dx, dy
	b.mu.Unlock()
}

// SetData replaces the plotted item set after a load or filter change. The
// preserved window is kept unless some item now falls outside it, in which
// case the view autoscales to the new set (a stale view that hides data is
// worse than losing the zoom).
func (b *Bridge) SetData(items []PlotItem) {
	b.mu.Lock()
	b.items = items
	b.mu.Unlock()

	pts := make([]viewport.Point, len(items))
	for i, it := range items {
		pts[i] = viewport.Point{X: it.X, Y: it.Y}
	}
	b.ctrl.SetBounds(pts)
	if _, has := b.ctrl.Current(); !has || b.ctrl.ShouldAutoscale(pts) {
		if b.ctrl.RequestAutoscale(pts) {
			return // OnChange already redrew
		}
	}
	b.Redraw()
}

// Redraw runs one full pass for the current window: declutter, frame, draw.
func (b *Bridge) Redraw() {
	win, has := b.ctrl.Current()
	if !has {
		return
	}
	img, stats, err := b.renderFrame(win)
	if err != nil {
		applog.Warnf("redraw: %v", err)
		return
	}
	b.mu.Lock()
	sink := b.onImage
	b.mu.Unlock()
	if sink != nil {
		sink(img, stats)
	}
}

// Export renders the current dataset into an explicit window and size
// without touching bridge state, for PNG export and the HTTP endpoint.
func (b *Bridge) Export(win viewport.Window, w, h int) (image.Image, error) {
	b.mu.Lock()
	items := b.items
	title := b.title
	dx, dy := b.minLabelDx, b.minLabelDy
	b.mu.Unlock()
	f, _ := buildFrame(items, win, w, h, dx, dy, title)
	f.Autoscaled = b.isAutoscaled(win)
	b.ctrl.MarkPush()
	return b.backend.Draw(f)
}

// isAutoscaled reports whether a window is exactly the current autoscale
// bounds, which is when rounded "nice" ticks are safe to substitute.
func (b *Bridge) isAutoscaled(win viewport.Window) bool {
	bounds, has := b.ctrl.Bounds()
	return has && bounds == win
}

func (b *Bridge) renderFrame(win viewport.Window) (image.Image, Stats, error) {
	b.mu.Lock()
	items := b.items
	w, h := b.width, b.height
	dx, dy := b.minLabelDx, b.minLabelDy
	title := b.title
	b.mu.Unlock()

	if !win.Valid() {
		return nil, Stats{}, fmt.Errorf("degenerate window %+v", win)
	}
	f, stats := buildFrame(items, win, w, h, dx, dy, title)
	f.Autoscaled = b.isAutoscaled(win)
	// arm the guard before the push so the backend's echo notification is
	// recognized as ours
	b.ctrl.MarkPush()
	img, err := b.backend.Draw(f)
	if err != nil {
		return nil, stats, err
	}
	return img, stats, nil
}

// buildFrame declutters the items for the window and packs the accepted
// subset into a frame. Rejected items are fully absent from the frame, not
// drawn dimly.
func buildFrame(items []PlotItem, win viewport.Window, w, h int, dx, dy float64, title string) (Frame, Stats) {
	cands := make([]declutter.Candidate, len(items))
	for i, it := range items {
		cands[i] = declutter.Candidate{X: it.X, Y: it.Y, Priority: it.Priority, Index: i}
	}
	accepted := declutter.Select(cands, win, float64(w), float64(h), dx, dy)

	f := Frame{
		Title:  title,
		Window: win,
		Width:  w,
		Height: h,
	}
	groups := map[float64]*MarkerGroup{}
	maxSize := 0.0
	for _, c := range accepted {
		it := items[c.Index]
		g := groups[it.MarkerSize]
		if g == nil {
			g = &MarkerGroup{Size: it.MarkerSize}
			groups[it.MarkerSize] = g
		}
		g.Xs = append(g.Xs, it.X)
		g.Ys = append(g.Ys, it.Y)
		if it.MarkerSize > maxSize {
			maxSize = it.MarkerSize
		}
		if it.Halo {
			f.HaloXs = append(f.HaloXs, it.X)
			f.HaloYs = append(f.HaloYs, it.Y)
		}
		f.Labels = append(f.Labels, Label{X: it.X, Y: it.Y, Text: it.Label})
	}
	// stable group order: by size, descending
	for _, size := range sortedSizesDesc(groups) {
		f.Groups = append(f.Groups, *groups[size])
	}
	f.HaloSize = maxSize * haloFactor
	return f, Stats{Total: len(items), Visible: len(accepted)}
}

func sortedSizesDesc(groups map[float64]*MarkerGroup) []float64 {
	out := make([]float64, 0, len(groups))
	for s := range groups {
		out = append(out, s)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}
