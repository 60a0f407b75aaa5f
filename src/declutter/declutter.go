// Package declutter selects which markers may carry a text label at the
// current view window and pixel size. The selection is a pure function of
// its inputs and is re-run after every committed window or filter change.
package declutter

import (
	"sort"

	"github.com/aiminilabs0/pingponglab/src/viewport"
)

// Candidate is one labeled marker competing for screen space.
type Candidate struct {
	X, Y     float64 // data space
	Priority int     // smaller = placed first; ties keep input order
	Index    int     // caller's index into its own item slice
}

// Select returns the maximal priority-ordered subset of candidates whose
// pixel positions do not collide. Two candidates collide only when they are
// within the threshold on BOTH axes (an exclusion box, not a radius), so a
// greedy accept needs to clear only one axis. A degenerate window bypasses
// decluttering and returns the input unchanged, since zero-span windows are
// expected transients during filter changes.
func Select(cands []Candidate, win viewport.Window, pixelW, pixelH, minPixelDx, minPixelDy float64) []Candidate {
	if !win.Valid() || len(cands) == 0 {
		return cands
	}
	ordered := make([]Candidate, len(cands))
	copy(ordered, cands)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	type px struct{ x, y float64 }
	toPixel := func(c Candidate) px {
		return px{
			x: (c.X - win.XMin) / win.SpanX() * pixelW,
			y: (c.Y - win.YMin) / win.SpanY() * pixelH,
		}
	}

	accepted := make([]Candidate, 0, len(ordered))
	acceptedPx := make([]px, 0, len(ordered))
	for _, c := range ordered {
		p := toPixel(c)
		ok := true
		for _, q := range acceptedPx {
			dx := p.x - q.x
			if dx < 0 {
				dx = -dx
			}
			dy := p.y - q.y
			if dy < 0 {
				dy = -dy
			}
			if dx <= minPixelDx && dy <= minPixelDy {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, c)
			acceptedPx = append(acceptedPx, p)
		}
	}
	return accepted
}
