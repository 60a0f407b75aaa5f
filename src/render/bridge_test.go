package render

import (
	"image"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aiminilabs0/pingponglab/src/catalog"
	"github.com/aiminilabs0/pingponglab/src/ranking"
	"github.com/aiminilabs0/pingponglab/src/viewport"
)

// fakeBackend records frames and echoes a notification after every draw,
// like a real backend does.
type fakeBackend struct {
	notify func()
	draws  int32
	last   Frame
}

func (f *fakeBackend) SetNotify(fn func()) { f.notify = fn }
func (f *fakeBackend) Draw(fr Frame) (image.Image, error) {
	atomic.AddInt32(&f.draws, 1)
	f.last = fr
	if f.notify != nil {
		f.notify()
	}
	return image.NewRGBA(image.Rect(0, 0, fr.Width, fr.Height)), nil
}

func plotItem(name string, x, y float64, prio int, halo bool) PlotItem {
	return PlotItem{
		Projection: ranking.Projection{
			Item:       catalog.Key{Brand: "b", Name: name},
			X:          x,
			Y:          y,
			MarkerSize: 6,
			Halo:       halo,
		},
		Label:    name,
		Priority: prio,
	}
}

func TestBridge_SetDataAutoscalesFirstLoad(t *testing.T) {
	ctrl := viewport.NewController()
	be := &fakeBackend{}
	b := NewBridge(ctrl, be)
	var images int32
	b.OnImage(func(image.Image, Stats) { atomic.AddInt32(&images, 1) })

	b.SetData([]PlotItem{plotItem("a", 1, 1, 1, false), plotItem("b", 9, 9, 2, false)})
	if _, has := ctrl.Current(); !has {
		t.Fatalf("first load must create a window")
	}
	if atomic.LoadInt32(&images) == 0 {
		t.Fatalf("no image delivered")
	}
}

// TestBridge_EchoSuppressed: the backend's post-draw notification must not
// trigger another draw cycle.
func TestBridge_EchoSuppressed(t *testing.T) {
	ctrl := viewport.NewController()
	ctrl.SetGuardTiming(50*time.Millisecond, 5*time.Millisecond)
	be := &fakeBackend{}
	b := NewBridge(ctrl, be)

	b.SetData([]PlotItem{plotItem("a", 1, 1, 1, false), plotItem("b", 9, 9, 2, false)})
	n := atomic.LoadInt32(&be.draws)
	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt32(&be.draws); got != n {
		t.Fatalf("echo notification caused %d extra draws", got-n)
	}
}

// TestBridge_UserGestureRedraws: a backend notification arriving while the
// guard is disarmed triggers one debounced recompute.
func TestBridge_UserGestureRedraws(t *testing.T) {
	ctrl := viewport.NewController()
	ctrl.SetGuardTiming(10*time.Millisecond, 15*time.Millisecond)
	be := &fakeBackend{}
	b := NewBridge(ctrl, be)
	b.SetData([]PlotItem{plotItem("a", 1, 1, 1, false), plotItem("b", 9, 9, 2, false)})
	time.Sleep(30 * time.Millisecond) // let the push guard disarm

	n := atomic.LoadInt32(&be.draws)
	ctrl.OnBackendEvent() // simulated user gesture inside the backend
	time.Sleep(40 * time.Millisecond)
	if got := atomic.LoadInt32(&be.draws); got != n+1 {
		t.Fatalf("gesture notification drew %d times, want 1", got-n)
	}
}

func TestBridge_SetDataKeepsWindowWhenItemsInside(t *testing.T) {
	ctrl := viewport.NewController()
	be := &fakeBackend{}
	b := NewBridge(ctrl, be)
	b.SetData([]PlotItem{plotItem("a", 1, 1, 1, false), plotItem("b", 9, 9, 2, false)})
	before, _ := ctrl.Current()

	// a filtered-down subset still inside the window keeps the view
	b.SetData([]PlotItem{plotItem("a", 1, 1, 1, false)})
	after, _ := ctrl.Current()
	if after != before {
		t.Fatalf("window discarded though items stayed inside: %+v -> %+v", before, after)
	}

	// an item outside the preserved window forces an autoscale
	b.SetData([]PlotItem{plotItem("far", 50, 50, 1, false)})
	after2, _ := ctrl.Current()
	if after2 == before {
		t.Fatalf("stale window kept though items escaped it")
	}
}

func TestBridge_AutoscaledFlagFollowsWindow(t *testing.T) {
	ctrl := viewport.NewController()
	be := &fakeBackend{}
	b := NewBridge(ctrl, be)

	b.SetData([]PlotItem{plotItem("a", 1, 1, 1, false), plotItem("b", 9, 9, 2, false)})
	if !be.last.Autoscaled {
		t.Fatalf("autoscaled first load must render nice ticks")
	}

	if _, ok := ctrl.Zoom(0.5, 0.5, 0.5); !ok {
		t.Fatalf("zoom refused")
	}
	if be.last.Autoscaled {
		t.Fatalf("zoomed window must keep exact bounds, not nice ticks")
	}
}

func TestBuildFrame_RejectedItemsFullyAbsent(t *testing.T) {
	win := viewport.Window{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	items := []PlotItem{
		plotItem("keep", 10, 10, 1, false),
		plotItem("drop", 11, 11, 2, false), // collides with keep at this zoom
		plotItem("also", 90, 90, 3, false),
	}
	f, stats := buildFrame(items, win, 100, 100, 20, 20, "")
	if stats.Total != 3 || stats.Visible != 2 {
		t.Fatalf("stats = %+v, want total 3 visible 2", stats)
	}
	n := 0
	for _, g := range f.Groups {
		n += len(g.Xs)
	}
	if n != 2 || len(f.Labels) != 2 {
		t.Fatalf("rejected item leaked into frame: %d markers %d labels", n, len(f.Labels))
	}
}

func TestBuildFrame_HaloLayer(t *testing.T) {
	win := viewport.Window{XMin: 0, XMax: 100, YMin: 0, YMax: 100}
	items := []PlotItem{
		plotItem("seller", 10, 10, 1, true),
		plotItem("plain", 90, 90, 2, false),
	}
	f, _ := buildFrame(items, win, 400, 300, 20, 20, "")
	if len(f.HaloXs) != 1 || f.HaloXs[0] != 10 {
		t.Fatalf("halo layer wrong: %v", f.HaloXs)
	}
	if f.HaloSize <= 6 {
		t.Fatalf("halo must be oversized, got %v", f.HaloSize)
	}
}

func TestChartBackend_DrawAndNotify(t *testing.T) {
	be := NewChartBackend()
	var notified int32
	be.SetNotify(func() { atomic.AddInt32(&notified, 1) })
	f := Frame{
		Window: viewport.Window{XMin: 0, XMax: 10, YMin: 0, YMax: 10},
		Width:  320,
		Height: 240,
		Groups: []MarkerGroup{{Size: 6, Xs: []float64{2, 8}, Ys: []float64{3, 7}}},
	}
	img, err := be.Draw(f)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Fatalf("image size %v", img.Bounds())
	}
	if atomic.LoadInt32(&notified) != 1 {
		t.Fatalf("backend must notify after draw")
	}
}

func TestChartBackend_RejectsDegenerateInput(t *testing.T) {
	be := NewChartBackend()
	if _, err := be.Draw(Frame{Width: 0, Height: 100, Window: viewport.Window{XMin: 0, XMax: 1, YMin: 0, YMax: 1}}); err == nil {
		t.Fatalf("zero width must error")
	}
	if _, err := be.Draw(Frame{Width: 100, Height: 100, Window: viewport.Window{XMin: 5, XMax: 5, YMin: 0, YMax: 1}}); err == nil {
		t.Fatalf("degenerate window must error")
	}
}
