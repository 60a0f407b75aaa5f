package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/aiminilabs0/pingponglab/src/applog"
)

// itemDoc is the on-disk shape of one item. Pointers distinguish "absent"
// from zero so missing measurements load as NaN.
type itemDoc struct {
	Brand           string   `json:"brand" yaml:"brand"`
	Name            string   `json:"name" yaml:"name"`
	Weight          *float64 `json:"weight" yaml:"weight"`
	Hardness        *float64 `json:"hardness" yaml:"hardness"`
	HardnessCountry string   `json:"hardnessCountry" yaml:"hardnessCountry"`
	Description     string   `json:"description" yaml:"description"`
}

func (d itemDoc) item() Item {
	it := Item{
		Key:         Key{Brand: strings.TrimSpace(d.Brand), Name: strings.TrimSpace(d.Name)},
		Weight:      math.NaN(),
		Hardness:    math.NaN(),
		HardnessIn:  strings.TrimSpace(d.HardnessCountry),
		Description: d.Description,
	}
	if d.Weight != nil {
		it.Weight = *d.Weight
	}
	if d.Hardness != nil {
		it.Hardness = *d.Hardness
	}
	return it
}

// sourceDoc is the YAML shape of a full catalog source file: items inline
// plus the four ordered tables and the bestseller list.
type sourceDoc struct {
	Items       []itemDoc `yaml:"items"`
	Spin        []Key     `yaml:"spin"`
	Speed       []Key     `yaml:"speed"`
	Control     []Key     `yaml:"control"`
	Priority    []Key     `yaml:"priority"`
	Bestsellers []Key     `yaml:"bestsellers"`
}

// LoadSourceYAML reads a complete catalog source (items + rank tables) from
// one YAML document.
func LoadSourceYAML(path string) (*Source, error) {
	defer applog.TimeTrack(time.Now(), "load catalog source")
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var doc sourceDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	src := &Source{
		Spin:        doc.Spin,
		Speed:       doc.Speed,
		Control:     doc.Control,
		Priority:    doc.Priority,
		Bestsellers: doc.Bestsellers,
	}
	src.Items = make([]Item, 0, len(doc.Items))
	for _, d := range doc.Items {
		src.Items = append(src.Items, d.item())
	}
	applog.Infof("catalog: %d items, spin=%d speed=%d control=%d priority=%d bestsellers=%d",
		len(src.Items), len(src.Spin), len(src.Speed), len(src.Control), len(src.Priority), len(src.Bestsellers))
	return src, nil
}

// LoadItemsJSON reads a JSON array of items (measurement fields optional).
func LoadItemsJSON(path string) ([]Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	var docs []itemDoc
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}
	out := make([]Item, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.item())
	}
	return out, nil
}

// LoadItemsXLSX imports items from the first sheet of a spreadsheet. The
// expected header row is: Brand, Name, Weight, Hardness, Country,
// Description. Blank measurement cells load as NaN; rows without a brand and
// name are skipped.
func LoadItemsXLSX(path string) ([]Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	var out []Item
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		cell := func(j int) string {
			if j < len(row) {
				return strings.TrimSpace(row[j])
			}
			return ""
		}
		brand, name := cell(0), cell(1)
		if brand == "" && name == "" {
			continue
		}
		it := Item{
			Key:         Key{Brand: brand, Name: name},
			Weight:      parseCellFloat(cell(2)),
			Hardness:    parseCellFloat(cell(3)),
			HardnessIn:  cell(4),
			Description: cell(5),
		}
		out = append(out, it)
	}
	applog.Debugf("spreadsheet import: %d items from %s", len(out), path)
	return out, nil
}

func parseCellFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	// tolerate decimal commas from locale-formatted sheets
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
