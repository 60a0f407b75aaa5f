package main

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/aiminilabs0/pingponglab/src/catalog"
	"github.com/aiminilabs0/pingponglab/src/ranking"
	"github.com/aiminilabs0/pingponglab/src/scale"
)

const exportSheet = "Rubbers"

var exportHeader = []interface{}{
	"Brand", "Name", "Spin rank", "Speed rank", "Control rank", "Control tier",
	"Hardness (germany)", "Weight (g)", "Bestseller",
}

// exportXLSX writes one row per item. Ranks come from the shared tables;
// items without a spin or speed rank are still exported, with blank rank
// cells, since a spreadsheet reader may want the full inventory.
func exportXLSX(path string, items []catalog.Item, tables *ranking.Tables, reg *scale.Registry) (int, error) {
	f := excelize.NewFile()
	defer f.Close()
	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return 0, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	if err := setRow(f, 1, exportHeader); err != nil {
		return 0, err
	}
	for i, it := range items {
		row := []interface{}{it.Brand, it.Name}
		row = append(row, rankCell(tables.Spin, it.Key), rankCell(tables.Speed, it.Key), rankCell(tables.Control, it.Key))
		if p, ok := tables.Project(it); ok {
			row = append(row, p.ControlTier.String())
		} else {
			row = append(row, "")
		}
		row = append(row, hardnessCell(it, reg), weightCell(it), tables.Bestsellers[it.Key.Fold()])
		if err := setRow(f, i+2, row); err != nil {
			return 0, err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return 0, err
	}
	return len(items), nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(exportSheet, cell, &values)
}

func rankCell(t *ranking.Table, k catalog.Key) interface{} {
	if r, ok := t.Rank(k); ok {
		return r
	}
	return ""
}

func hardnessCell(it catalog.Item, reg *scale.Registry) interface{} {
	if !it.HasHardness() {
		return ""
	}
	v := reg.ToCanonical(it.Hardness, it.HardnessIn)
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.1f", v)
}

func weightCell(it catalog.Item) interface{} {
	if !it.HasWeight() {
		return ""
	}
	return it.Weight
}
