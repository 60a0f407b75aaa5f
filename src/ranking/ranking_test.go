package ranking

import (
	"math"
	"testing"

	"github.com/aiminilabs0/pingponglab/src/catalog"
)

func k(brand, name string) catalog.Key { return catalog.Key{Brand: brand, Name: name} }

func item(brand, name string) catalog.Item {
	return catalog.Item{Key: k(brand, name), Weight: math.NaN(), Hardness: math.NaN()}
}

// TestProject_InvertsRank checks the worked scenario: spin table [A,B,C]
// (size 3), item B has 1-based rank 2, so x = 3 - 2 + 1 = 2.
func TestProject_InvertsRank(t *testing.T) {
	tb := &Tables{
		Spin:  NewTable([]catalog.Key{k("m", "A"), k("m", "B"), k("m", "C")}),
		Speed: NewTable([]catalog.Key{k("m", "B"), k("m", "A"), k("m", "C")}),
	}
	p, ok := tb.Project(item("m", "B"))
	if !ok {
		t.Fatalf("B not projected")
	}
	if p.X != 2 {
		t.Fatalf("x = %v, want 2", p.X)
	}
	// B is speed rank 1 (best) so y is the table maximum
	if p.Y != 3 {
		t.Fatalf("y = %v, want 3", p.Y)
	}
}

// TestProject_StrictlyDecreasingInRank: better rank, strictly higher coordinate.
func TestProject_StrictlyDecreasingInRank(t *testing.T) {
	keys := []catalog.Key{k("m", "a"), k("m", "b"), k("m", "c"), k("m", "d")}
	tb := &Tables{Spin: NewTable(keys), Speed: NewTable(keys)}
	prevX := math.Inf(1)
	for _, key := range keys {
		p, ok := tb.Project(catalog.Item{Key: key})
		if !ok {
			t.Fatalf("%v not projected", key)
		}
		if p.X >= prevX {
			t.Fatalf("x not strictly decreasing with rank: %v then %v", prevX, p.X)
		}
		prevX = p.X
	}
}

// TestProject_MissingRankExcludes: no spin or no speed rank means no position.
func TestProject_MissingRankExcludes(t *testing.T) {
	tb := &Tables{
		Spin:  NewTable([]catalog.Key{k("m", "A")}),
		Speed: NewTable([]catalog.Key{k("m", "B")}),
	}
	if _, ok := tb.Project(item("m", "A")); ok {
		t.Fatalf("item without speed rank must be excluded")
	}
	if _, ok := tb.Project(item("m", "B")); ok {
		t.Fatalf("item without spin rank must be excluded")
	}
	all := tb.ProjectAll([]catalog.Item{item("m", "A"), item("m", "B")})
	if len(all) != 0 {
		t.Fatalf("ProjectAll kept %d items, want 0", len(all))
	}
}

// TestProject_CaseInsensitiveLookup: table lookups fold case and whitespace.
func TestProject_CaseInsensitiveLookup(t *testing.T) {
	keys := []catalog.Key{k("Butterfly", "Tenergy 05")}
	tb := &Tables{Spin: NewTable(keys), Speed: NewTable(keys)}
	if _, ok := tb.Project(item(" butterfly", "TENERGY 05")); !ok {
		t.Fatalf("folded key did not resolve")
	}
}

func TestControlTier_Thresholds(t *testing.T) {
	// 10 ranked items: ranks 1-4 are Easy (norm 0.0-0.3), 5-8 Med, 9-10 Hard.
	cases := []struct {
		rank int
		want ControlTier
	}{
		{1, TierEasy}, {4, TierEasy},
		{5, TierMedium}, {8, TierMedium},
		{9, TierHard}, {10, TierHard},
	}
	for _, c := range cases {
		got := controlTier(normControl(c.rank, 10))
		if got != c.want {
			t.Errorf("rank %d: tier %v, want %v", c.rank, got, c.want)
		}
	}
}

// TestTiers_NeverDisagree: the coarse tier and fine indicator bucket derive
// from the same normalized rank, so their orderings can never invert.
func TestTiers_NeverDisagree(t *testing.T) {
	total := 37
	prevTier := TierEasy
	prevBucket := 0
	for rank := 1; rank <= total; rank++ {
		norm := normControl(rank, total)
		tier := controlTier(norm)
		b := bucket(norm, IndicatorBuckets)
		if tier < prevTier || b < prevBucket {
			t.Fatalf("rank %d: tier/bucket regressed (%v/%d after %v/%d)", rank, tier, b, prevTier, prevBucket)
		}
		prevTier, prevBucket = tier, b
	}
}

// TestMarkerSize_MonotonicallyDecreasing: worse control rank never draws larger.
func TestMarkerSize_MonotonicallyDecreasing(t *testing.T) {
	keys := make([]catalog.Key, 20)
	for i := range keys {
		keys[i] = k("m", string(rune('a'+i)))
	}
	tb := &Tables{Spin: NewTable(keys), Speed: NewTable(keys), Control: NewTable(keys)}
	prev := math.Inf(1)
	for _, key := range keys {
		p, _ := tb.Project(catalog.Item{Key: key})
		if p.MarkerSize > prev {
			t.Fatalf("marker size grew with worse rank: %v after %v", p.MarkerSize, prev)
		}
		prev = p.MarkerSize
	}
}

func TestProject_MissingControlIsNeutral(t *testing.T) {
	keys := []catalog.Key{k("m", "A")}
	tb := &Tables{Spin: NewTable(keys), Speed: NewTable(keys), Control: NewTable(nil)}
	p, ok := tb.Project(item("m", "A"))
	if !ok {
		t.Fatalf("item with no control rank must still project")
	}
	if p.ControlTier != TierUnknown || p.MarkerSize != markerSizeDefault {
		t.Fatalf("neutral defaults wrong: tier=%v size=%v", p.ControlTier, p.MarkerSize)
	}
}

func TestProject_BestsellerHalo(t *testing.T) {
	keys := []catalog.Key{k("m", "A"), k("m", "B")}
	tb := &Tables{
		Spin:        NewTable(keys),
		Speed:       NewTable(keys),
		Bestsellers: map[catalog.Key]bool{k("m", "A").Fold(): true},
	}
	pa, _ := tb.Project(item("m", "A"))
	pb, _ := tb.Project(item("m", "B"))
	if !pa.Halo || pb.Halo {
		t.Fatalf("halo flags wrong: A=%v B=%v", pa.Halo, pb.Halo)
	}
}
