package render

import (
	"bytes"
	"fmt"
	"image"
	png "image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/aiminilabs0/pingponglab/src/applog"
)

// marker and halo styling
var (
	markerColor = drawing.Color{R: 54, G: 114, B: 196, A: 255}
	haloColor   = drawing.Color{R: 240, G: 170, B: 40, A: 60}
	labelColor  = drawing.Color{R: 30, G: 30, B: 30, A: 255}
)

// dotStyle renders points only, no connecting line.
func dotStyle(col drawing.Color, dotWidth float64) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    dotWidth,
		DotColor:    col,
	}
}

// ChartBackend renders frames to PNG images with go-chart. It satisfies the
// Backend contract literally: after every Draw it fires the notify hook,
// which is exactly the echo the viewport guard has to suppress.
type ChartBackend struct {
	notify func()
}

// NewChartBackend returns a ready backend.
func NewChartBackend() *ChartBackend { return &ChartBackend{} }

// SetNotify registers the view-change hook.
func (b *ChartBackend) SetNotify(fn func()) { b.notify = fn }

// Draw renders one frame. The halo series goes first so it sits behind the
// markers; labels render last.
func (b *ChartBackend) Draw(f Frame) (image.Image, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("render: bad pixel size %dx%d", f.Width, f.Height)
	}
	if !f.Window.Valid() {
		return nil, fmt.Errorf("render: degenerate window %+v", f.Window)
	}

	series := []chart.Series{}
	if len(f.HaloXs) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "bestsellers",
			XValues: f.HaloXs,
			YValues: f.HaloYs,
			Style:   dotStyle(haloColor, f.HaloSize),
		})
	}
	for _, g := range f.Groups {
		if len(g.Xs) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			XValues: g.Xs,
			YValues: g.Ys,
			Style:   dotStyle(markerColor, g.Size),
		})
	}
	if len(f.Labels) > 0 {
		anns := make([]chart.Value2, 0, len(f.Labels))
		for _, l := range f.Labels {
			anns = append(anns, chart.Value2{XValue: l.X, YValue: l.Y, Label: l.Text})
		}
		series = append(series, chart.AnnotationSeries{
			Annotations: anns,
			Style: chart.Style{
				StrokeWidth: 1,
				StrokeColor: drawing.Color{R: 180, G: 180, B: 180, A: 255},
				FillColor:   drawing.Color{R: 255, G: 255, B: 255, A: 220},
				FontColor:   labelColor,
				FontSize:    9,
			},
		})
	}

	aw := axisWindow(f)
	xAxis := chart.XAxis{
		Name:  "Spin",
		Range: &chart.ContinuousRange{Min: aw.XMin, Max: aw.XMax},
	}
	yAxis := chart.YAxis{
		Name:  "Speed",
		Range: &chart.ContinuousRange{Min: aw.YMin, Max: aw.YMax},
	}
	if f.Autoscaled {
		xAxis.Ticks = niceTicks(aw.XMin, aw.XMax, 8)
		yAxis.Ticks = niceTicks(aw.YMin, aw.YMax, 6)
	}

	ch := chart.Chart{
		Title:      f.Title,
		Width:      f.Width,
		Height:     f.Height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	if b.notify != nil {
		b.notify()
	}
	applog.Debugf("render: %d series, window x=[%.2f,%.2f] y=[%.2f,%.2f]",
		len(series), f.Window.XMin, f.Window.XMax, f.Window.YMin, f.Window.YMax)
	return img, nil
}

// Blank returns an empty white image for error fallbacks, so the UI still
// visibly updates when a render fails.
func Blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}
