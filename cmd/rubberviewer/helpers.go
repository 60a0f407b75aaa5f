package main

import (
	"math"

	"github.com/aiminilabs0/pingponglab/src/viewport"
)

// Plot-area gutters of the rendered chart image, in image pixels. Gesture
// anchors and hover hit-testing map through the plot rect, not the full
// image, so the point under the cursor is the one that stays put.
const (
	gutterLeft   = float32(42)
	gutterRight  = float32(14)
	gutterTop    = float32(16)
	gutterBottom = float32(32)
)

// plotRect returns the plot area inside a w x h chart image.
func plotRect(w, h float32) (x0, y0, x1, y1 float32) {
	x0 = gutterLeft
	y0 = gutterTop
	x1 = w - gutterRight
	y1 = h - gutterBottom
	if x1 <= x0 {
		x0, x1 = 0, w
	}
	if y1 <= y0 {
		y0, y1 = 0, h
	}
	return
}

// pixelToFrac maps an overlay pixel position to fractional window
// coordinates, clamped to [0,1]. Screen y grows downward while the window's
// y grows upward, so fy is inverted.
func pixelToFrac(px, py, w, h float32) (float64, float64) {
	x0, y0, x1, y1 := plotRect(w, h)
	fx := float64((px - x0) / (x1 - x0))
	fy := 1 - float64((py-y0)/(y1-y0))
	return clamp01(fx), clamp01(fy)
}

// fracToData resolves fractional window coordinates to data space.
func fracToData(fx, fy float64, win viewport.Window) (float64, float64) {
	return win.At(fx, fy)
}

// dataToPixel maps a data point back onto overlay pixels.
func dataToPixel(x, y float64, win viewport.Window, w, h float32) (float32, float32) {
	x0, y0, x1, y1 := plotRect(w, h)
	fx := (x - win.XMin) / win.SpanX()
	fy := (y - win.YMin) / win.SpanY()
	return x0 + float32(fx)*(x1-x0), y1 - float32(fy)*(y1-y0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// nearestItem returns the index of the plotted item closest to the overlay
// pixel position, and its pixel distance. -1 for an empty set or no window.
func nearestItem(pts []viewport.Point, win viewport.Window, px, py, w, h float32) (int, float64) {
	if len(pts) == 0 || !win.Valid() {
		return -1, 0
	}
	best := -1
	bestD := math.MaxFloat64
	for i, p := range pts {
		ix, iy := dataToPixel(p.X, p.Y, win, w, h)
		d := math.Hypot(float64(ix-px), float64(iy-py))
		if d < bestD {
			bestD = d
			best = i
		}
	}
	return best, bestD
}

func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	if n <= 3 {
		return p[len(p)-n:]
	}
	return "…" + p[len(p)-(n-1):]
}
