package main

import (
	"math"
	"testing"

	"github.com/aiminilabs0/pingponglab/src/viewport"
)

func TestPixelToFrac_Corners(t *testing.T) {
	w, h := float32(800), float32(500)
	x0, y0, x1, y1 := plotRect(w, h)

	fx, fy := pixelToFrac(x0, y1, w, h)
	if fx != 0 || fy != 0 {
		t.Fatalf("bottom-left: got (%v,%v)", fx, fy)
	}
	fx, fy = pixelToFrac(x1, y0, w, h)
	if fx != 1 || fy != 1 {
		t.Fatalf("top-right: got (%v,%v)", fx, fy)
	}
}

func TestPixelToFrac_ClampsOutside(t *testing.T) {
	fx, fy := pixelToFrac(-50, 10000, 800, 500)
	if fx != 0 || fy != 0 {
		t.Fatalf("outside must clamp, got (%v,%v)", fx, fy)
	}
}

func TestDataToPixel_RoundTrip(t *testing.T) {
	win := viewport.Window{XMin: 10, XMax: 110, YMin: 5, YMax: 55}
	w, h := float32(900), float32(600)
	px, py := dataToPixel(60, 30, win, w, h)
	fx, fy := pixelToFrac(px, py, w, h)
	gx, gy := fracToData(fx, fy, win)
	if math.Abs(gx-60) > 0.1 || math.Abs(gy-30) > 0.1 {
		t.Fatalf("round trip drifted to (%v,%v)", gx, gy)
	}
}

func TestNearestItem(t *testing.T) {
	win := viewport.Window{XMin: 0, XMax: 10, YMin: 0, YMax: 10}
	pts := []viewport.Point{{X: 2, Y: 2}, {X: 8, Y: 8}}
	w, h := float32(800), float32(500)

	px, py := dataToPixel(8, 8, win, w, h)
	idx, d := nearestItem(pts, win, px+3, py, w, h)
	if idx != 1 {
		t.Fatalf("nearest = %d, want 1", idx)
	}
	if d < 2.5 || d > 3.5 {
		t.Fatalf("distance = %v, want ~3", d)
	}
}

func TestNearestItem_Empty(t *testing.T) {
	win := viewport.Window{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	if idx, _ := nearestItem(nil, win, 0, 0, 100, 100); idx != -1 {
		t.Fatalf("empty set must give -1, got %d", idx)
	}
}

func TestTruncatePath(t *testing.T) {
	if got := truncatePath("/short", 20); got != "/short" {
		t.Fatalf("short path changed: %q", got)
	}
	long := "/very/long/path/to/some/catalog.yaml"
	got := truncatePath(long, 16)
	if len([]rune(got)) > 16 {
		t.Fatalf("truncated path too long: %q", got)
	}
	if got[len(got)-5:] != ".yaml" {
		t.Fatalf("tail not kept: %q", got)
	}
}

func TestLabelSpacing(t *testing.T) {
	sx, sy := labelSpacing("sparse")
	nx, ny := labelSpacing("normal")
	dx, dy := labelSpacing("dense")
	if !(sx > nx && nx > dx) || !(sy > ny && ny > dy) {
		t.Fatalf("spacing not ordered: sparse(%v,%v) normal(%v,%v) dense(%v,%v)", sx, sy, nx, ny, dx, dy)
	}
}
