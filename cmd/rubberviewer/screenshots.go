package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/aiminilabs0/pingponglab/src/applog"
	"github.com/aiminilabs0/pingponglab/src/catalog"
	"github.com/aiminilabs0/pingponglab/src/ranking"
	"github.com/aiminilabs0/pingponglab/src/render"
	"github.com/aiminilabs0/pingponglab/src/scale"
	"github.com/aiminilabs0/pingponglab/src/viewport"
)

// Screenshot render size. Matches the default on-screen chart closely
// enough that the PNGs are representative.
const (
	screenshotW = 1100
	screenshotH = 680
)

// RunScreenshotsMode renders the chart headlessly into outDir and returns.
// It produces an autoscaled overview, a zoomed-in crop, and a
// bestsellers-only view, which is enough to eyeball a catalog change
// without starting the UI.
func RunScreenshotsMode(catalogPath, scalesPath, outDir string) error {
	if catalogPath == "" {
		return fmt.Errorf("screenshots mode needs -catalog")
	}
	reg := scale.NewRegistry()
	if scalesPath != "" {
		if err := reg.LoadYAML(scalesPath); err != nil {
			return fmt.Errorf("load scales: %w", err)
		}
	}
	src, err := catalog.LoadSourceYAML(catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	tables := ranking.NewTables(src)

	shots := []struct {
		name   string
		filter catalog.Filter
		zoom   float64 // <1 zooms the autoscaled window in about its center
	}{
		{name: "overview", filter: catalog.NewFilter()},
		{name: "zoomed", filter: catalog.NewFilter(), zoom: 0.45},
		{name: "bestsellers", filter: func() catalog.Filter {
			f := catalog.NewFilter()
			f.Bestseller = true
			return f
		}()},
	}
	for _, shot := range shots {
		f := shot.filter.WithBestsellers(src.BestsellerSet())
		items := projectFiltered(tables, src, f.Apply(src.Items, reg))
		if len(items) == 0 {
			applog.Warnf("screenshot %s: no items, skipping", shot.name)
			continue
		}
		img, err := renderShot(items, shot.zoom)
		if err != nil {
			return fmt.Errorf("render %s: %w", shot.name, err)
		}
		img = render.DrawStatus(img, fmt.Sprintf("%s - %d rubbers", shot.name, len(items)))
		path := filepath.Join(outDir, shot.name+".png")
		if err := writePNG(path, img); err != nil {
			return err
		}
		applog.Infof("wrote %s (%d items)", path, len(items))
	}
	return nil
}

// projectFiltered projects filtered items into plot items, dropping the
// unranked ones.
func projectFiltered(tables *ranking.Tables, src *catalog.Source, filtered []catalog.Item) []render.PlotItem {
	out := make([]render.PlotItem, 0, len(filtered))
	for _, it := range filtered {
		p, ok := tables.Project(it)
		if !ok {
			continue
		}
		out = append(out, render.PlotItem{
			Projection: p,
			Label:      it.Name,
			Priority:   src.PriorityOf(it.Key),
		})
	}
	return out
}

func renderShot(items []render.PlotItem, zoom float64) (image.Image, error) {
	ctrl := viewport.NewController()
	backend := render.NewChartBackend()
	bridge := render.NewBridge(ctrl, backend)
	bridge.SetTitle("Spin vs Speed")
	bridge.Resize(screenshotW, screenshotH)
	bridge.SetData(items)
	if zoom > 0 && zoom < 1 {
		ctrl.Zoom(zoom, 0.5, 0.5)
	}
	win, ok := ctrl.Current()
	if !ok {
		return nil, fmt.Errorf("no window after autoscale")
	}
	return bridge.Export(win, screenshotW, screenshotH)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
