package viewport

import (
	"math"
	"testing"
)

func TestAutoscale_EmptySet(t *testing.T) {
	if _, ok := Autoscale(nil); ok {
		t.Fatalf("empty set must yield no bounds")
	}
}

func TestAutoscale_PaddedBBox(t *testing.T) {
	pts := []Point{{1, 2}, {21, 42}}
	w, ok := Autoscale(pts)
	if !ok {
		t.Fatalf("no bounds")
	}
	// spans 20 and 40, pads 1 and 2 per side
	if w.XMin != 0 || w.XMax != 22 {
		t.Fatalf("x bounds [%v,%v], want [0,22]", w.XMin, w.XMax)
	}
	if w.YMin != 0 || w.YMax != 44 {
		t.Fatalf("y bounds [%v,%v], want [0,44]", w.YMin, w.YMax)
	}
}

func TestAutoscale_MinimumPadding(t *testing.T) {
	// Single point: zero span, so the absolute 0.5 minimum applies.
	w, ok := Autoscale([]Point{{3, 7}})
	if !ok {
		t.Fatalf("no bounds")
	}
	if w.XMin != 2.5 || w.XMax != 3.5 || w.YMin != 6.5 || w.YMax != 7.5 {
		t.Fatalf("bounds %+v, want 0.5 pad per side", w)
	}
	if !w.Valid() {
		t.Fatalf("padded single-point bounds must be a valid window")
	}
}

func TestWindow_Valid(t *testing.T) {
	cases := []struct {
		w    Window
		want bool
	}{
		{Window{0, 10, 0, 10}, true},
		{Window{0, 0, 0, 10}, false},
		{Window{10, 0, 0, 10}, false},
		{Window{0, math.NaN(), 0, 10}, false},
		{Window{0, math.Inf(1), 0, 10}, false},
	}
	for i, c := range cases {
		if got := c.w.Valid(); got != c.want {
			t.Errorf("case %d: Valid() = %v, want %v", i, got, c.want)
		}
	}
}

func TestWindow_At(t *testing.T) {
	w := Window{10, 20, 100, 200}
	x, y := w.At(0.25, 0.5)
	if x != 12.5 || y != 150 {
		t.Fatalf("At = (%v,%v), want (12.5,150)", x, y)
	}
}

func TestWindow_Covers(t *testing.T) {
	outer := Window{0, 10, 0, 10}
	inner := Window{2, 8, 2, 8}
	if !outer.Covers(inner) || inner.Covers(outer) {
		t.Fatalf("Covers wrong")
	}
	if !outer.Covers(outer) {
		t.Fatalf("a window must cover itself")
	}
}
