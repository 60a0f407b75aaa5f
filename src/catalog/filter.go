package catalog

import (
	"math"

	"github.com/aiminilabs0/pingponglab/src/scale"
)

// Filter is the candidate-subset predicate applied before projection and
// decluttering. Range bounds use NaN for "unset". Hardness bounds are on the
// canonical scale; each item's native hardness is converted before comparison.
// An item with a missing measurement passes the range predicates keyed on that
// measurement: absence of data never hides an item from the base projection.
type Filter struct {
	HardnessMin float64 // canonical scale, NaN = unset
	HardnessMax float64
	WeightMin   float64 // grams, NaN = unset
	WeightMax   float64
	Brands      map[string]bool // nil = all brands
	Bestseller  bool            // true = bestsellers only

	bestsellers map[Key]bool
}

// NewFilter returns a filter with every predicate unset.
func NewFilter() Filter {
	return Filter{
		HardnessMin: math.NaN(),
		HardnessMax: math.NaN(),
		WeightMin:   math.NaN(),
		WeightMax:   math.NaN(),
	}
}

// WithBestsellers attaches the bestseller membership used by the
// bestseller-only predicate.
func (f Filter) WithBestsellers(set map[Key]bool) Filter {
	f.bestsellers = set
	return f
}

// Active reports whether any predicate is set.
func (f Filter) Active() bool {
	return !math.IsNaN(f.HardnessMin) || !math.IsNaN(f.HardnessMax) ||
		!math.IsNaN(f.WeightMin) || !math.IsNaN(f.WeightMax) ||
		f.Brands != nil || f.Bestseller
}

// Match reports whether one item passes the filter.
func (f Filter) Match(it Item, reg *scale.Registry) bool {
	if f.Brands != nil && !f.Brands[it.Brand] {
		return false
	}
	if f.Bestseller && !f.bestsellers[it.Key.Fold()] {
		return false
	}
	if it.HasHardness() {
		h := it.Hardness
		if reg != nil {
			h = reg.ToCanonical(it.Hardness, it.HardnessIn)
		}
		if !math.IsNaN(f.HardnessMin) && h < f.HardnessMin {
			return false
		}
		if !math.IsNaN(f.HardnessMax) && h > f.HardnessMax {
			return false
		}
	}
	if it.HasWeight() {
		if !math.IsNaN(f.WeightMin) && it.Weight < f.WeightMin {
			return false
		}
		if !math.IsNaN(f.WeightMax) && it.Weight > f.WeightMax {
			return false
		}
	}
	return true
}

// Apply returns the items passing the filter, preserving input order.
func (f Filter) Apply(items []Item, reg *scale.Registry) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it, reg) {
			out = append(out, it)
		}
	}
	return out
}
