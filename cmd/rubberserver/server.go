package main

import (
	"fmt"
	"image/png"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aiminilabs0/pingponglab/src/applog"
	"github.com/aiminilabs0/pingponglab/src/catalog"
	"github.com/aiminilabs0/pingponglab/src/ranking"
	"github.com/aiminilabs0/pingponglab/src/render"
	"github.com/aiminilabs0/pingponglab/src/scale"
	"github.com/aiminilabs0/pingponglab/src/viewport"
)

// chart.png size limits; oversize requests clamp rather than fail
const (
	chartMinDim   = 200
	chartMaxDim   = 3000
	chartDefaultW = 1100
	chartDefaultH = 680
)

// server holds one loaded catalog and serves it read-only. The file watcher
// swaps the snapshot on catalog writes; requests read whatever snapshot is
// current.
type server struct {
	reg *scale.Registry

	mu     sync.RWMutex
	source *catalog.Source
	tables *ranking.Tables
}

func newServer(reg *scale.Registry) *server {
	return &server{reg: reg}
}

// setSource installs a new catalog snapshot.
func (s *server) setSource(src *catalog.Source) {
	s.mu.Lock()
	s.source = src
	s.tables = ranking.NewTables(src)
	s.mu.Unlock()
}

func (s *server) snapshot() (*catalog.Source, *ranking.Tables) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source, s.tables
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), cors.Default())
	r.GET("/api/items", s.handleItems)
	r.GET("/api/scales", s.handleScales)
	r.GET("/chart.png", s.handleChart)
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

// itemJSON is the wire shape of one plotted item. Measurements are pointers
// so missing values serialize as null instead of NaN (which JSON rejects).
type itemJSON struct {
	Brand       string   `json:"brand"`
	Name        string   `json:"name"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	ControlTier string   `json:"controlTier"`
	ControlRank int      `json:"controlRank,omitempty"`
	Bestseller  bool     `json:"bestseller"`
	Hardness    *float64 `json:"hardness"`
	Weight      *float64 `json:"weight"`
	Description string   `json:"description,omitempty"`
}

func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// queryFilter builds a catalog filter from query parameters. Filters act on
// the plotted set only; they never carry view-window state.
func (s *server) queryFilter(c *gin.Context, src *catalog.Source) catalog.Filter {
	f := catalog.NewFilter()
	f.HardnessMin = queryFloat(c, "hmin", f.HardnessMin)
	f.HardnessMax = queryFloat(c, "hmax", f.HardnessMax)
	f.WeightMin = queryFloat(c, "wmin", f.WeightMin)
	f.WeightMax = queryFloat(c, "wmax", f.WeightMax)
	if brand := c.Query("brand"); brand != "" {
		f.Brands = map[string]bool{brand: true}
	}
	f.Bestseller = c.Query("bestsellers") == "1" || c.Query("bestsellers") == "true"
	return f.WithBestsellers(src.BestsellerSet())
}

// handleItems returns every ranked item with its chart position, optionally
// filtered by brand/bestsellers/hardness/weight query parameters. Hardness is
// reported on the canonical scale; ?scale= converts it.
func (s *server) handleItems(c *gin.Context) {
	src, tables := s.snapshot()
	if src == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded"})
		return
	}
	target := c.DefaultQuery("scale", scale.Canonical)
	if _, ok := s.reg.Lookup(target); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown scale %q", target)})
		return
	}
	filtered := s.queryFilter(c, src).Apply(src.Items, s.reg)
	out := make([]itemJSON, 0, len(filtered))
	for _, it := range filtered {
		p, ok := tables.Project(it)
		if !ok {
			continue
		}
		j := itemJSON{
			Brand:       it.Brand,
			Name:        it.Name,
			X:           p.X,
			Y:           p.Y,
			ControlTier: p.ControlTier.String(),
			ControlRank: p.ControlRank,
			Bestseller:  p.Halo,
			Weight:      optional(it.Weight),
			Description: it.Description,
		}
		if it.HasHardness() {
			canonical := s.reg.ToCanonical(it.Hardness, it.HardnessIn)
			j.Hardness = optional(s.reg.FromCanonical(canonical, target))
		}
		out = append(out, j)
	}
	c.JSON(http.StatusOK, gin.H{"items": out, "scale": target})
}

// handleScales lists the registered hardness scales with their anchors.
func (s *server) handleScales(c *gin.Context) {
	out := gin.H{}
	for _, country := range s.reg.Countries() {
		a, _ := s.reg.Lookup(country)
		out[country] = []float64{a[0], a[1], a[2]}
	}
	c.JSON(http.StatusOK, gin.H{"canonical": scale.Canonical, "scales": out})
}

// handleChart renders the chart to PNG. Without window query parameters the
// view autoscales to the plotted set; xmin/xmax/ymin/ymax select a window.
func (s *server) handleChart(c *gin.Context) {
	src, tables := s.snapshot()
	if src == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not loaded"})
		return
	}
	w := clampDim(queryInt(c, "w", chartDefaultW))
	h := clampDim(queryInt(c, "h", chartDefaultH))

	filtered := s.queryFilter(c, src).Apply(src.Items, s.reg)
	items := make([]render.PlotItem, 0, len(filtered))
	for _, it := range filtered {
		p, ok := tables.Project(it)
		if !ok {
			continue
		}
		items = append(items, render.PlotItem{Projection: p, Label: it.Name, Priority: src.PriorityOf(it.Key)})
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no plottable items"})
		return
	}

	ctrl := viewport.NewController()
	backend := render.NewChartBackend()
	bridge := render.NewBridge(ctrl, backend)
	bridge.SetTitle("Spin vs Speed")
	bridge.Resize(w, h)
	bridge.SetData(items)

	win, haveWin := ctrl.Current()
	if c.Query("xmin") != "" || c.Query("xmax") != "" || c.Query("ymin") != "" || c.Query("ymax") != "" {
		req := viewport.Window{
			XMin: queryFloat(c, "xmin", win.XMin),
			XMax: queryFloat(c, "xmax", win.XMax),
			YMin: queryFloat(c, "ymin", win.YMin),
			YMax: queryFloat(c, "ymax", win.YMax),
		}
		if !req.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window"})
			return
		}
		win, haveWin = req, true
	}
	if !haveWin {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no view window"})
		return
	}
	img, err := bridge.Export(win, w, h)
	if err != nil {
		applog.Errorf("chart render: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := png.Encode(c.Writer, img); err != nil {
		applog.Warnf("chart write: %v", err)
	}
}

func queryInt(c *gin.Context, name string, def int) int {
	s := c.Query(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func queryFloat(c *gin.Context, name string, def float64) float64 {
	s := c.Query(name)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func clampDim(v int) int {
	if v < chartMinDim {
		return chartMinDim
	}
	if v > chartMaxDim {
		return chartMaxDim
	}
	return v
}
