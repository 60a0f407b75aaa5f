// Package ranking turns an item's positions in the ordered metric tables into
// chart coordinates and discrete display tiers. Rank 1 is best; the
// projection inverts rank order so the best item sits at the highest
// coordinate on its axis.
package ranking

import (
	"github.com/aiminilabs0/pingponglab/src/catalog"
)

// Table is one ordered metric table with O(1) rank lookup on folded keys.
type Table struct {
	order []catalog.Key
	index map[catalog.Key]int
}

// NewTable builds a table from a best-first ordered key list.
func NewTable(keys []catalog.Key) *Table {
	t := &Table{order: keys, index: make(map[catalog.Key]int, len(keys))}
	for i, k := range keys {
		f := k.Fold()
		if _, dup := t.index[f]; dup {
			continue // first occurrence wins
		}
		t.index[f] = i
	}
	return t
}

// Len returns the table size.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Keys returns the table's keys in rank order. Callers must not mutate it.
func (t *Table) Keys() []catalog.Key {
	if t == nil {
		return nil
	}
	return t.order
}

// Rank returns the 1-based rank of a key and whether it is listed.
func (t *Table) Rank(k catalog.Key) (int, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[k.Fold()]
	if !ok {
		return 0, false
	}
	return i + 1, true
}

// Tables bundles the session's rank tables and bestseller membership.
type Tables struct {
	Spin        *Table
	Speed       *Table
	Control     *Table
	Bestsellers map[catalog.Key]bool
}

// NewTables builds the lookup tables from a loaded catalog source.
func NewTables(src *catalog.Source) *Tables {
	return &Tables{
		Spin:        NewTable(src.Spin),
		Speed:       NewTable(src.Speed),
		Control:     NewTable(src.Control),
		Bestsellers: src.BestsellerSet(),
	}
}

// ControlTier is the coarse control-difficulty bucket.
type ControlTier int

const (
	TierEasy ControlTier = iota
	TierMedium
	TierHard
	TierUnknown
)

func (ct ControlTier) String() string {
	switch ct {
	case TierEasy:
		return "Easy"
	case TierMedium:
		return "Med"
	case TierHard:
		return "Hard"
	default:
		return "?"
	}
}

// Coarse tier thresholds over the normalized control rank: the best-ranked
// 40% are Easy, the next 40% Med, the rest Hard.
const (
	tierEasyMax = 0.4
	tierMedMax  = 0.8
)

// MarkerSizeCount is the size of the marker palette.
const MarkerSizeCount = 7

// markerSizes is the descending dot-width palette; the best-controlled
// rubbers draw largest.
var markerSizes = [MarkerSizeCount]float64{9, 8, 7, 6, 5, 4.5, 4}

// markerSizeDefault is used when an item has no control rank.
const markerSizeDefault = 6

// Projection is an item's chart position and display tiers.
type Projection struct {
	Item catalog.Key

	X, Y float64

	ControlRank  int // 1-based, 0 when unranked
	ControlTotal int
	ControlTier  ControlTier
	// IndicatorBucket is the fine equal-width bucket of the normalized
	// control rank, 0-based, for the compact N-step visual indicator.
	IndicatorBucket int

	MarkerSize float64
	Halo       bool // bestseller halo layer behind the marker
}

// IndicatorBuckets is the bucket count of the fine control indicator.
const IndicatorBuckets = 5

// normControl maps a 1-based rank over total into [0, 1).
func normControl(rank, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(rank-1) / float64(total)
}

// bucket maps a normalized value in [0,1) onto n equal-width buckets,
// clamping pathological inputs into range.
func bucket(norm float64, n int) int {
	b := int(norm * float64(n))
	if b < 0 {
		b = 0
	}
	if b >= n {
		b = n - 1
	}
	return b
}

// controlTier buckets a normalized control rank onto the coarse 3-tier scale.
func controlTier(norm float64) ControlTier {
	switch {
	case norm < tierEasyMax:
		return TierEasy
	case norm < tierMedMax:
		return TierMedium
	default:
		return TierHard
	}
}

// Project computes an item's chart position and tiers. ok is false when the
// item is missing a spin or speed rank: such an item has no valid chart
// position and is excluded from the visualized set entirely. A missing
// control rank is not excluding; the item plots with neutral tier and size.
func (tb *Tables) Project(it catalog.Item) (Projection, bool) {
	spinRank, ok := tb.Spin.Rank(it.Key)
	if !ok {
		return Projection{}, false
	}
	speedRank, ok := tb.Speed.Rank(it.Key)
	if !ok {
		return Projection{}, false
	}
	p := Projection{
		Item: it.Key,
		X:    float64(tb.Spin.Len() - spinRank + 1),
		Y:    float64(tb.Speed.Len() - speedRank + 1),
		Halo: tb.Bestsellers[it.Key.Fold()],
	}
	if cr, ok := tb.Control.Rank(it.Key); ok {
		norm := normControl(cr, tb.Control.Len())
		p.ControlRank = cr
		p.ControlTotal = tb.Control.Len()
		p.ControlTier = controlTier(norm)
		p.IndicatorBucket = bucket(norm, IndicatorBuckets)
		p.MarkerSize = markerSizes[bucket(norm, MarkerSizeCount)]
	} else {
		p.ControlTier = TierUnknown
		p.IndicatorBucket = IndicatorBuckets / 2
		p.MarkerSize = markerSizeDefault
	}
	return p, true
}

// ProjectAll projects every item that has both required ranks, preserving
// input order.
func (tb *Tables) ProjectAll(items []catalog.Item) []Projection {
	out := make([]Projection, 0, len(items))
	for _, it := range items {
		if p, ok := tb.Project(it); ok {
			out = append(out, p)
		}
	}
	return out
}
