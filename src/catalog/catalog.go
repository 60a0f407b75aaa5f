// Package catalog holds the rubber catalog data model and the loaders that
// bring collaborator-supplied data (items, rank tables, bestseller list) into
// memory. Rank tables are loaded once and treated as immutable for the session.
package catalog

import (
	"math"
	"strings"
)

// Key identifies one rubber by brand and name.
type Key struct {
	Brand string `json:"brand" yaml:"brand"`
	Name  string `json:"name" yaml:"name"`
}

// Fold normalizes a key for lookups so case or whitespace drift in source
// tables does not orphan an item.
func (k Key) Fold() Key {
	return Key{
		Brand: strings.ToLower(strings.TrimSpace(k.Brand)),
		Name:  strings.ToLower(strings.TrimSpace(k.Name)),
	}
}

func (k Key) String() string { return k.Brand + " " + k.Name }

// Item is one catalog entry. Weight and Hardness use NaN for "not measured";
// a missing measurement excludes the item only from filters and displays keyed
// on that measurement, never from the base projection.
type Item struct {
	Key         `yaml:",inline"`
	Weight      float64 `json:"weight" yaml:"weight"`                     // grams, NaN when unknown
	Hardness    float64 `json:"hardness" yaml:"hardness"`                 // native scale, NaN when unknown
	HardnessIn  string  `json:"hardnessCountry" yaml:"hardnessCountry"`   // country whose scale Hardness is on
	Description string  `json:"description,omitempty" yaml:"description"` // free text, rendered elsewhere
}

// HasWeight reports whether the weight measurement is present.
func (it Item) HasWeight() bool { return !math.IsNaN(it.Weight) && it.Weight > 0 }

// HasHardness reports whether the hardness measurement is present.
func (it Item) HasHardness() bool { return !math.IsNaN(it.Hardness) }

// Source bundles the catalog items with the externally supplied rank tables.
// The spin/speed/control lists are ordered best-first; Priority orders default
// label/display precedence; Bestsellers is a disjoint membership list.
type Source struct {
	Items       []Item
	Spin        []Key
	Speed       []Key
	Control     []Key
	Priority    []Key
	Bestsellers []Key
}

// BestsellerSet returns the bestseller membership keyed by folded key.
func (s *Source) BestsellerSet() map[Key]bool {
	set := make(map[Key]bool, len(s.Bestsellers))
	for _, k := range s.Bestsellers {
		set[k.Fold()] = true
	}
	return set
}

// PriorityOf returns an item's display priority: its position in the priority
// table when present (smaller = labeled first), otherwise one past the table
// so unlisted items sort last while keeping their original relative order.
func (s *Source) PriorityOf(k Key) int {
	want := k.Fold()
	for i, p := range s.Priority {
		if p.Fold() == want {
			return i + 1
		}
	}
	return len(s.Priority) + 1
}

// Brands returns the distinct brands present in the item list, in first-seen order.
func (s *Source) Brands() []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range s.Items {
		b := strings.TrimSpace(it.Brand)
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}
