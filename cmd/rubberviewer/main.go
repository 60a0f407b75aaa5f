package main

import (
	"flag"
	"fmt"
	"image"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/aiminilabs0/pingponglab/src/applog"
	"github.com/aiminilabs0/pingponglab/src/catalog"
	"github.com/aiminilabs0/pingponglab/src/ranking"
	"github.com/aiminilabs0/pingponglab/src/render"
	"github.com/aiminilabs0/pingponglab/src/scale"
	"github.com/aiminilabs0/pingponglab/src/viewport"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	catalogPath string
	scalesPath  string

	reg    *scale.Registry
	source *catalog.Source
	tables *ranking.Tables

	ctrl    *viewport.Controller
	backend *render.ChartBackend
	bridge  *render.Bridge

	filter       catalog.Filter
	hardnessUnit string // country whose scale hardness displays in
	labelDensity string // "sparse", "normal", "dense"

	// plotted set, aligned: plotItems[i] projects plotCatalog[i]
	plotMu      sync.Mutex
	plotItems   []render.PlotItem
	plotCatalog []catalog.Item

	selected []int // indices into plotCatalog, pinned detail cards

	// widgets
	chartImg    *canvas.Image
	overlay     *chartOverlay
	statusLabel *widget.Label
	hoverLabel  *widget.Label
	detailLabel *widget.Label
	brandSelect *widget.Select

	watcher *catalog.Watcher
}

func main() {
	var catalogFlag, scalesFlag, logLevel, screenshotsDir string
	flag.StringVar(&catalogFlag, "catalog", "", "Path to catalog source YAML")
	flag.StringVar(&scalesFlag, "scales", "", "Optional hardness scales YAML")
	flag.StringVar(&logLevel, "loglevel", "info", "Log level (debug|info|warn|error)")
	flag.StringVar(&screenshotsDir, "screenshots", "", "Render chart PNGs into this directory and exit")
	flag.Parse()
	applog.SetLogLevel(logLevel)

	if screenshotsDir != "" {
		if err := RunScreenshotsMode(catalogFlag, scalesFlag, screenshotsDir); err != nil {
			applog.Errorf("screenshots: %v", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.pingponglab.rubberviewer")
	w := a.NewWindow("Rubber Chart")
	w.Resize(fyne.NewSize(1200, 820))

	state := &uiState{
		app:          a,
		window:       w,
		catalogPath:  catalogFlag,
		scalesPath:   scalesFlag,
		reg:          scale.NewRegistry(),
		ctrl:         viewport.NewController(),
		backend:      render.NewChartBackend(),
		filter:       catalog.NewFilter(),
		hardnessUnit: scale.Canonical,
		labelDensity: "normal",
	}
	state.bridge = render.NewBridge(state.ctrl, state.backend)
	state.bridge.SetTitle("Spin vs Speed")
	loadPrefs(state)

	// chart canvas and overlay
	state.chartImg = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.chartImg.FillMode = canvas.ImageFillContain
	state.chartImg.SetMinSize(fyne.NewSize(900, 560))
	state.overlay = newChartOverlay(state)
	state.statusLabel = widget.NewLabel("")
	state.hoverLabel = widget.NewLabel("")
	state.detailLabel = widget.NewLabel("Tap a marker to pin details.")
	state.detailLabel.Wrapping = fyne.TextWrapWord

	state.bridge.OnImage(func(img image.Image, stats render.Stats) {
		fyne.Do(func() {
			state.chartImg.Image = img
			state.chartImg.Refresh()
			state.statusLabel.SetText(fmt.Sprintf("%d of %d labeled", stats.Visible, stats.Total))
		})
	})

	// zoom controls
	zoomIn := widget.NewButton("+", func() { state.ctrl.Zoom(0.8, 0.5, 0.5) })
	zoomOut := widget.NewButton("−", func() { state.ctrl.Zoom(1.25, 0.5, 0.5) })
	resetBtn := widget.NewButton("Reset", func() { state.ctrl.RequestAutoscale(state.plotPoints()) })

	// display controls
	unitSelect := widget.NewSelect(state.reg.Countries(), func(v string) {
		state.hardnessUnit = v
		savePrefs(state)
		state.refreshDetail()
	})
	unitSelect.Selected = state.hardnessUnit
	densitySelect := widget.NewSelect([]string{"sparse", "normal", "dense"}, nil)
	densitySelect.Selected = state.labelDensity

	// filter controls
	state.brandSelect = widget.NewSelect([]string{"All"}, nil)
	state.brandSelect.Selected = "All"
	bestsellerChk := widget.NewCheck("Bestsellers", nil)

	hardnessMin := widget.NewSlider(30, 65)
	hardnessMin.Step = 0.5
	hardnessMin.Value = 30
	hardnessMax := widget.NewSlider(30, 65)
	hardnessMax.Step = 0.5
	hardnessMax.Value = 65
	hardnessBounds := widget.NewLabel("")
	weightMin := widget.NewSlider(30, 75)
	weightMin.Value = 30
	weightMax := widget.NewSlider(30, 75)
	weightMax.Value = 75

	prefs := a.Preferences()
	hardnessMin.Value = prefs.FloatWithFallback("filterHardnessMin", hardnessMin.Value)
	hardnessMax.Value = prefs.FloatWithFallback("filterHardnessMax", hardnessMax.Value)
	weightMin.Value = prefs.FloatWithFallback("filterWeightMin", weightMin.Value)
	weightMax.Value = prefs.FloatWithFallback("filterWeightMax", weightMax.Value)
	bestsellerChk.Checked = prefs.BoolWithFallback("filterBestsellers", false)

	updateHardnessBounds := func() {
		lo, hi := hardnessMin.Value, hardnessMax.Value
		hardnessBounds.SetText(fmt.Sprintf("Hardness %s .. %s", state.multiScale(lo), state.multiScale(hi)))
	}
	updateHardnessBounds()

	applyRanges := func() {
		f := catalog.NewFilter()
		if hardnessMin.Value > 30 {
			f.HardnessMin = hardnessMin.Value
		}
		if hardnessMax.Value < 65 {
			f.HardnessMax = hardnessMax.Value
		}
		if weightMin.Value > 30 {
			f.WeightMin = weightMin.Value
		}
		if weightMax.Value < 75 {
			f.WeightMax = weightMax.Value
		}
		if state.brandSelect.Selected != "" && state.brandSelect.Selected != "All" {
			f.Brands = map[string]bool{state.brandSelect.Selected: true}
		}
		f.Bestseller = bestsellerChk.Checked
		state.filter = f
		prefs.SetFloat("filterHardnessMin", hardnessMin.Value)
		prefs.SetFloat("filterHardnessMax", hardnessMax.Value)
		prefs.SetFloat("filterWeightMin", weightMin.Value)
		prefs.SetFloat("filterWeightMax", weightMax.Value)
		prefs.SetBool("filterBestsellers", bestsellerChk.Checked)
		savePrefs(state)
		state.applyFilter()
	}
	applyRanges()

	hardnessMin.OnChanged = func(v float64) {
		if v > hardnessMax.Value {
			hardnessMax.SetValue(v)
		}
		updateHardnessBounds()
		applyRanges()
	}
	hardnessMax.OnChanged = func(v float64) {
		if v < hardnessMin.Value {
			hardnessMin.SetValue(v)
		}
		updateHardnessBounds()
		applyRanges()
	}
	weightMin.OnChanged = func(v float64) { applyRanges() }
	weightMax.OnChanged = func(v float64) { applyRanges() }
	state.brandSelect.OnChanged = func(string) { applyRanges() }
	bestsellerChk.OnChanged = func(bool) { applyRanges() }
	densitySelect.OnChanged = func(v string) {
		state.labelDensity = v
		savePrefs(state)
		dx, dy := labelSpacing(v)
		state.bridge.SetLabelSpacing(dx, dy)
		state.bridge.Redraw()
	}
	dx, dy := labelSpacing(state.labelDensity)
	state.bridge.SetLabelSpacing(dx, dy)

	clearSel := widget.NewButton("Clear", func() { state.clearSelection() })

	top := container.NewHBox(
		widget.NewButton("Open…", func() { openCatalogDialog(state) }),
		widget.NewButton("Reload", func() { state.loadAll() }),
		widget.NewLabel("Zoom:"), zoomIn, zoomOut, resetBtn,
		widget.NewLabel("Scale:"), unitSelect,
		widget.NewLabel("Labels:"), densitySelect,
		state.statusLabel,
	)
	filters := container.NewVBox(
		container.NewHBox(widget.NewLabel("Brand:"), state.brandSelect, bestsellerChk),
		hardnessBounds,
		container.NewGridWithColumns(2, hardnessMin, hardnessMax),
		widget.NewLabel("Weight (g)"),
		container.NewGridWithColumns(2, weightMin, weightMax),
	)
	side := container.NewVBox(
		widget.NewLabel("Details"),
		clearSel,
		state.detailLabel,
	)
	chartStack := container.NewStack(state.chartImg, state.overlay)
	center := container.NewBorder(nil, container.NewVBox(state.hoverLabel, filters), nil, nil, chartStack)
	w.SetContent(container.NewBorder(top, nil, nil, side, center))

	buildMenus(state)

	// Redraw at the new width when the window resizes; polling mirrors how
	// the rest of the app treats the canvas as the source of truth.
	done := make(chan struct{})
	w.SetOnClosed(func() {
		savePrefs(state)
		if state.watcher != nil {
			state.watcher.Close()
		}
		close(done)
	})
	go func() {
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		prevW := 0
		for {
			select {
			case <-done:
				return
			case <-t.C:
				c := w.Canvas()
				if c == nil {
					continue
				}
				cw := int(c.Size().Width)
				if cw != prevW && cw > 0 {
					prevW = cw
					pw, ph := chartSize(cw)
					state.bridge.Resize(pw, ph)
					fyne.Do(func() { state.bridge.Redraw() })
				}
			}
		}
	}()

	state.loadAll()
	w.ShowAndRun()
}

// chartSize computes the rendered chart size from the window width, keeping
// a wide aspect with sane bounds.
func chartSize(winW int) (int, int) {
	w := int(float64(winW)*0.95) - 240 // leave room for the detail panel
	if w < 700 {
		w = 700
	}
	h := int(float64(w) * 0.62)
	if h < 420 {
		h = 420
	}
	if h > 760 {
		h = 760
	}
	return w, h
}

// labelSpacing maps the density setting to the declutter exclusion box.
func labelSpacing(density string) (float64, float64) {
	switch density {
	case "sparse":
		return 92, 26
	case "dense":
		return 34, 10
	default:
		return render.DefaultMinLabelDx, render.DefaultMinLabelDy
	}
}

func buildMenus(state *uiState) {
	recent := fyne.NewMenuItem("Open Recent", nil)
	var recentItems []*fyne.MenuItem
	for _, path := range state.app.Preferences().StringListWithFallback("recentCatalogs", nil) {
		p := path
		recentItems = append(recentItems, fyne.NewMenuItem(truncatePath(p, 40), func() {
			state.catalogPath = p
			savePrefs(state)
			state.loadAll()
		}))
	}
	recent.ChildMenu = fyne.NewMenu("", recentItems...)
	recent.Disabled = len(recentItems) == 0

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openCatalogDialog(state) }),
		recent,
		fyne.NewMenuItem("Reload", func() { state.loadAll() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Chart…", func() { exportChartPNG(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

// rememberRecent records the current catalog in the recent-files list and
// refreshes the menu.
func (state *uiState) rememberRecent() {
	p := state.app.Preferences()
	out := []string{state.catalogPath}
	for _, s := range p.StringListWithFallback("recentCatalogs", nil) {
		if s != state.catalogPath && len(out) < 5 {
			out = append(out, s)
		}
	}
	p.SetStringList("recentCatalogs", out)
	fyne.Do(func() { buildMenus(state) })
}

func openCatalogDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.catalogPath = rc.URI().Path()
		savePrefs(state)
		state.loadAll()
	}, state.window)
	d.Show()
}

// loadAll loads scales and catalog, rebuilds the rank tables and replots.
// Called at startup, on Reload, and by the file watcher.
func (state *uiState) loadAll() {
	if state.scalesPath != "" {
		if err := state.reg.LoadYAML(state.scalesPath); err != nil {
			applog.Warnf("scales: %v", err)
		}
	}
	if state.catalogPath == "" {
		if _, err := os.Stat("catalog.yaml"); err == nil {
			state.catalogPath = "catalog.yaml"
		} else {
			return
		}
	}
	src, err := catalog.LoadSourceYAML(state.catalogPath)
	if err != nil {
		applog.Errorf("load catalog: %v", err)
		if state.window != nil {
			fyne.Do(func() { dialog.ShowError(err, state.window) })
		}
		return
	}
	state.source = src
	state.tables = ranking.NewTables(src)
	fyne.Do(func() { state.window.SetTitle("Rubber Chart - " + truncatePath(state.catalogPath, 48)) })

	opts := append([]string{"All"}, src.Brands()...)
	fyne.Do(func() {
		state.brandSelect.Options = opts
		if state.brandSelect.Selected == "" {
			state.brandSelect.Selected = "All"
		}
		state.brandSelect.Refresh()
	})

	state.rememberRecent()
	state.applyFilter()
	state.rewatch()
}

// rewatch points the file watcher at the current catalog path.
func (state *uiState) rewatch() {
	if state.watcher != nil {
		state.watcher.Close()
		state.watcher = nil
	}
	w, err := catalog.WatchFile(state.catalogPath, func() { state.loadAll() })
	if err != nil {
		applog.Warnf("watch catalog: %v", err)
		return
	}
	state.watcher = w
}

// applyFilter recomputes the plotted set from the current filter and hands
// it to the bridge. The bridge keeps the view window unless the new set
// escapes it.
func (state *uiState) applyFilter() {
	if state.source == nil || state.tables == nil {
		return
	}
	f := state.filter.WithBestsellers(state.source.BestsellerSet())
	filtered := f.Apply(state.source.Items, state.reg)

	items := make([]render.PlotItem, 0, len(filtered))
	cat := make([]catalog.Item, 0, len(filtered))
	for _, it := range filtered {
		p, ok := state.tables.Project(it)
		if !ok {
			continue // no rank, no position
		}
		items = append(items, render.PlotItem{
			Projection: p,
			Label:      it.Name,
			Priority:   state.source.PriorityOf(it.Key),
		})
		cat = append(cat, it)
	}
	state.plotMu.Lock()
	state.plotItems = items
	state.plotCatalog = cat
	state.selected = nil
	state.plotMu.Unlock()
	applog.Debugf("filter: %d of %d items plotted", len(items), len(state.source.Items))
	if len(items) == 0 {
		img := render.DrawStatus(render.Blank(900, 560), "no rubbers match the current filter")
		fyne.Do(func() {
			state.chartImg.Image = img
			state.chartImg.Refresh()
			state.statusLabel.SetText("0 of 0 labeled")
		})
	} else {
		state.bridge.SetData(items)
	}
	state.refreshDetail()
}

// plotPoints returns the plotted positions for hit-testing.
func (state *uiState) plotPoints() []viewport.Point {
	state.plotMu.Lock()
	defer state.plotMu.Unlock()
	pts := make([]viewport.Point, len(state.plotItems))
	for i, it := range state.plotItems {
		pts[i] = viewport.Point{X: it.X, Y: it.Y}
	}
	return pts
}

// selectItem pins an item (up to three) to the detail panel.
func (state *uiState) selectItem(idx int) {
	state.plotMu.Lock()
	for _, s := range state.selected {
		if s == idx {
			state.plotMu.Unlock()
			return
		}
	}
	state.selected = append(state.selected, idx)
	if len(state.selected) > 3 {
		state.selected = state.selected[len(state.selected)-3:]
	}
	state.plotMu.Unlock()
	state.refreshDetail()
}

func (state *uiState) clearSelection() {
	state.plotMu.Lock()
	state.selected = nil
	state.plotMu.Unlock()
	state.refreshDetail()
}

// setHover updates the hover readout line under the chart.
func (state *uiState) setHover(idx int) {
	text := ""
	state.plotMu.Lock()
	if idx >= 0 && idx < len(state.plotCatalog) {
		it := state.plotCatalog[idx]
		p := state.plotItems[idx]
		text = fmt.Sprintf("%s %s: spin %.0f, speed %.0f, control %s", it.Brand, it.Name, p.X, p.Y, p.ControlTier)
	}
	state.plotMu.Unlock()
	fyne.Do(func() { state.hoverLabel.SetText(text) })
}

// refreshDetail rebuilds the pinned detail cards.
func (state *uiState) refreshDetail() {
	state.plotMu.Lock()
	var cards []string
	for _, idx := range state.selected {
		if idx < 0 || idx >= len(state.plotCatalog) {
			continue
		}
		cards = append(cards, state.detailCard(state.plotCatalog[idx], state.plotItems[idx]))
	}
	state.plotMu.Unlock()
	text := "Tap a marker to pin details."
	if len(cards) > 0 {
		text = strings.Join(cards, "\n\n")
	}
	fyne.Do(func() { state.detailLabel.SetText(text) })
}

// detailCard formats one pinned item. Hardness converts from the item's
// native scale into the preferred display scale; a missing measurement
// renders as a dash rather than excluding the item.
func (state *uiState) detailCard(it catalog.Item, p render.PlotItem) string {
	hardness := "-"
	if it.HasHardness() {
		canonical := state.reg.ToCanonical(it.Hardness, it.HardnessIn)
		shown := state.reg.FromCanonical(canonical, state.hardnessUnit)
		if !math.IsNaN(shown) {
			hardness = fmt.Sprintf("%.1f (%s)", shown, state.hardnessUnit)
		}
	}
	weight := "-"
	if it.HasWeight() {
		weight = fmt.Sprintf("%.0f g", it.Weight)
	}
	star := ""
	if p.Halo {
		star = " ★"
	}
	return fmt.Sprintf("%s %s%s\nspin %.0f, speed %.0f\ncontrol %s (%d/%d)\nhardness %s, %s",
		it.Brand, it.Name, star, p.X, p.Y, p.ControlTier, p.ControlRank, p.ControlTotal, hardness, weight)
}

// multiScale renders one canonical hardness value in every registered scale.
func (state *uiState) multiScale(canonical float64) string {
	all := state.reg.FromCanonicalAll(canonical)
	parts := make([]string, 0, len(all))
	for _, country := range state.reg.Countries() {
		parts = append(parts, fmt.Sprintf("%s %.1f", country, all[country]))
	}
	return strings.Join(parts, " / ")
}

func savePrefs(state *uiState) {
	p := state.app.Preferences()
	p.SetString("catalogPath", state.catalogPath)
	p.SetString("hardnessUnit", state.hardnessUnit)
	p.SetString("labelDensity", state.labelDensity)
}

func loadPrefs(state *uiState) {
	p := state.app.Preferences()
	if state.catalogPath == "" {
		state.catalogPath = p.StringWithFallback("catalogPath", "")
	}
	state.hardnessUnit = p.StringWithFallback("hardnessUnit", state.hardnessUnit)
	state.labelDensity = p.StringWithFallback("labelDensity", state.labelDensity)
}
