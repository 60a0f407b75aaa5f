// Package scale converts sponge hardness values between country-specific
// three-point scales. All conversions pass through the canonical (German)
// scale, so any country can be mapped to any other with two hops.
package scale

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Anchors are the soft/medium/hard reference hardness values of one scale,
// strictly ascending.
type Anchors [3]float64

// Canonical is the German scale every other scale converts through.
const Canonical = "germany"

// CanonicalAnchors are the canonical-scale reference points paired
// positionally with each country's anchors.
var CanonicalAnchors = Anchors{40, 47.5, 55}

// Convert maps v from the src anchor scale onto the dst anchor scale with
// segment-wise linear interpolation. The fraction is deliberately not clamped
// to [0,1]: values outside the anchor range extrapolate along the nearest
// segment's slope, which keeps the mapping monotonic at the tails. A NaN or
// infinite input yields a non-finite output rather than an error.
func Convert(v float64, src, dst Anchors) float64 {
	for i := 0; i < 2; i++ {
		if v <= src[i+1] || i == 1 {
			t := (v - src[i]) / (src[i+1] - src[i])
			return dst[i] + t*(dst[i+1]-dst[i])
		}
	}
	return v // unreachable, the last segment always matches
}

// Registry holds the known country scales, keyed by lower-cased country name.
type Registry struct {
	anchors map[string]Anchors
}

// NewRegistry returns a registry preloaded with the built-in country scales.
func NewRegistry() *Registry {
	return &Registry{anchors: map[string]Anchors{
		"germany": CanonicalAnchors,
		"japan":   {33, 36, 44},
		"china":   {30, 36, 42},
	}}
}

// Set adds or replaces a country scale. Anchors must be strictly ascending.
func (r *Registry) Set(country string, a Anchors) error {
	if !(a[0] < a[1] && a[1] < a[2]) {
		return fmt.Errorf("scale %q: anchors %v not strictly ascending", country, a)
	}
	r.anchors[normCountry(country)] = a
	return nil
}

// Lookup returns the anchors for a country and whether it is registered.
func (r *Registry) Lookup(country string) (Anchors, bool) {
	a, ok := r.anchors[normCountry(country)]
	return a, ok
}

// Countries returns the registered country names, sorted.
func (r *Registry) Countries() []string {
	out := make([]string, 0, len(r.anchors))
	for k := range r.anchors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ToCanonical converts a native-scale value to the canonical scale.
// An unknown country is the identity: the value passes through unchanged.
func (r *Registry) ToCanonical(v float64, country string) float64 {
	a, ok := r.Lookup(country)
	if !ok {
		return v
	}
	return Convert(v, a, CanonicalAnchors)
}

// FromCanonical converts a canonical-scale value to a country's native scale.
// An unknown country is the identity.
func (r *Registry) FromCanonical(v float64, country string) float64 {
	a, ok := r.Lookup(country)
	if !ok {
		return v
	}
	return Convert(v, CanonicalAnchors, a)
}

// FromCanonicalAll renders a canonical value in every registered scale,
// keyed by country. Used to display slider bounds in multiple scales at once.
func (r *Registry) FromCanonicalAll(v float64) map[string]float64 {
	out := make(map[string]float64, len(r.anchors))
	for country, a := range r.anchors {
		out[country] = Convert(v, CanonicalAnchors, a)
	}
	return out
}

func normCountry(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// scalesDoc is the YAML shape of a scale registry file:
//
//	scales:
//	  japan: [33, 36, 44]
type scalesDoc struct {
	Scales map[string][3]float64 `yaml:"scales"`
}

// LoadYAML merges country scales from a YAML document into the registry,
// replacing any built-in entries with the same name.
func (r *Registry) LoadYAML(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scales: %w", err)
	}
	var doc scalesDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse scales: %w", err)
	}
	for country, a := range doc.Scales {
		if err := r.Set(country, Anchors(a)); err != nil {
			return err
		}
	}
	return nil
}
