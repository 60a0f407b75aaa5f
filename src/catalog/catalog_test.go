package catalog

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/aiminilabs0/pingponglab/src/scale"
)

func wf(v float64) *float64 { return &v }

func TestKeyFold(t *testing.T) {
	a := Key{Brand: " Butterfly ", Name: "Tenergy 05"}
	b := Key{Brand: "butterfly", Name: "TENERGY 05"}
	if a.Fold() != b.Fold() {
		t.Fatalf("folded keys differ: %v vs %v", a.Fold(), b.Fold())
	}
}

func TestLoadSourceYAML(t *testing.T) {
	doc := `
items:
  - brand: Butterfly
    name: Tenergy 05
    weight: 47
    hardness: 36
    hardnessCountry: japan
  - brand: DHS
    name: Hurricane 3
    hardness: 39
    hardnessCountry: china
  - brand: Nittaku
    name: Fastarc G-1
spin:
  - {brand: Butterfly, name: Tenergy 05}
  - {brand: DHS, name: Hurricane 3}
speed:
  - {brand: Butterfly, name: Tenergy 05}
priority:
  - {brand: Butterfly, name: Tenergy 05}
bestsellers:
  - {brand: Butterfly, name: Tenergy 05}
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := LoadSourceYAML(path)
	if err != nil {
		t.Fatalf("LoadSourceYAML: %v", err)
	}
	if len(src.Items) != 3 || len(src.Spin) != 2 || len(src.Speed) != 1 {
		t.Fatalf("unexpected sizes: items=%d spin=%d speed=%d", len(src.Items), len(src.Spin), len(src.Speed))
	}
	// missing weight must load as NaN, not zero
	if !math.IsNaN(src.Items[1].Weight) {
		t.Fatalf("missing weight loaded as %v, want NaN", src.Items[1].Weight)
	}
	// item with no measurements at all
	it := src.Items[2]
	if it.HasWeight() || it.HasHardness() {
		t.Fatalf("item without measurements reports HasWeight=%v HasHardness=%v", it.HasWeight(), it.HasHardness())
	}
	if !src.BestsellerSet()[Key{Brand: "butterfly", Name: "tenergy 05"}] {
		t.Fatalf("bestseller membership not folded")
	}
}

func TestSource_PriorityOf(t *testing.T) {
	src := &Source{Priority: []Key{
		{Brand: "A", Name: "one"},
		{Brand: "B", Name: "two"},
	}}
	if p := src.PriorityOf(Key{Brand: "b", Name: "Two"}); p != 2 {
		t.Fatalf("listed item priority = %d, want 2", p)
	}
	if p := src.PriorityOf(Key{Brand: "C", Name: "three"}); p != 3 {
		t.Fatalf("unlisted item priority = %d, want 3", p)
	}
}

func TestFilter_MissingMeasurementPasses(t *testing.T) {
	reg := scale.NewRegistry()
	f := NewFilter()
	f.HardnessMin = 45
	f.WeightMax = 46
	noData := Item{Key: Key{Brand: "X", Name: "nodata"}, Weight: math.NaN(), Hardness: math.NaN()}
	if !f.Match(noData, reg) {
		t.Fatalf("item without measurements must pass measurement-keyed filters")
	}
	soft := Item{Key: Key{Brand: "X", Name: "soft"}, Weight: math.NaN(), Hardness: 33, HardnessIn: "japan"}
	// japan 33 == canonical 40, below the 45 floor
	if f.Match(soft, reg) {
		t.Fatalf("soft rubber must be rejected by hardness floor")
	}
	heavy := Item{Key: Key{Brand: "X", Name: "heavy"}, Weight: 50, Hardness: math.NaN()}
	if f.Match(heavy, reg) {
		t.Fatalf("heavy rubber must be rejected by weight ceiling")
	}
}

func TestFilter_BrandAndBestseller(t *testing.T) {
	f := NewFilter()
	f.Brands = map[string]bool{"Butterfly": true}
	in := Item{Key: Key{Brand: "Butterfly", Name: "T05"}, Weight: math.NaN(), Hardness: math.NaN()}
	out := Item{Key: Key{Brand: "DHS", Name: "H3"}, Weight: math.NaN(), Hardness: math.NaN()}
	if !f.Match(in, nil) || f.Match(out, nil) {
		t.Fatalf("brand filter wrong")
	}
	f = NewFilter().WithBestsellers(map[Key]bool{in.Key.Fold(): true})
	f.Bestseller = true
	if !f.Match(in, nil) || f.Match(out, nil) {
		t.Fatalf("bestseller filter wrong")
	}
}

func TestFilter_ApplyPreservesOrder(t *testing.T) {
	items := []Item{
		{Key: Key{Brand: "A", Name: "1"}, Weight: 40, Hardness: math.NaN()},
		{Key: Key{Brand: "B", Name: "2"}, Weight: 60, Hardness: math.NaN()},
		{Key: Key{Brand: "C", Name: "3"}, Weight: 45, Hardness: math.NaN()},
	}
	f := NewFilter()
	f.WeightMax = 50
	got := f.Apply(items, nil)
	if len(got) != 2 || got[0].Brand != "A" || got[1].Brand != "C" {
		t.Fatalf("Apply order wrong: %v", got)
	}
}

func TestLoadItemsJSON(t *testing.T) {
	doc := `[
  {"brand": "Yasaka", "name": "Rakza 7", "weight": 48, "hardness": 47.5, "hardnessCountry": "germany"},
  {"brand": "Stiga", "name": "DNA Pro M"}
]`
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err := LoadItemsJSON(path)
	if err != nil {
		t.Fatalf("LoadItemsJSON: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].Hardness != 47.5 || !math.IsNaN(items[1].Hardness) {
		t.Fatalf("hardness fields wrong: %v %v", items[0].Hardness, items[1].Hardness)
	}
}

func TestParseCellFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		nan  bool
	}{
		{"47.5", 47.5, false},
		{"47,5", 47.5, false},
		{"", 0, true},
		{"n/a", 0, true},
	}
	for _, c := range cases {
		got := parseCellFloat(c.in)
		if c.nan != math.IsNaN(got) || (!c.nan && got != c.want) {
			t.Errorf("parseCellFloat(%q) = %v", c.in, got)
		}
	}
}
