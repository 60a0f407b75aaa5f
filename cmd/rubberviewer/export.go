package main

import (
	"fmt"
	"image/png"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/aiminilabs0/pingponglab/src/applog"
	"github.com/aiminilabs0/pingponglab/src/render"
)

// Export renders at a fixed high resolution, independent of the window size.
const (
	exportW = 1600
	exportH = 1000
)

// exportChartPNG writes the current view to a PNG chosen in a save dialog.
// The exported image is re-rendered at export resolution and stamped with
// the visible/total counts, so it reads the same as the on-screen chart.
func exportChartPNG(state *uiState) {
	win, has := state.ctrl.Current()
	if !has {
		dialog.ShowInformation("Export", "Nothing to export yet.", state.window)
		return
	}
	d := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		img, err := state.bridge.Export(win, exportW, exportH)
		if err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		state.plotMu.Lock()
		total := len(state.plotItems)
		state.plotMu.Unlock()
		img = render.DrawStatus(img, fmt.Sprintf("%d rubbers - %s", total, truncatePath(state.catalogPath, 40)))
		if err := png.Encode(wc, img); err != nil {
			dialog.ShowError(err, state.window)
			return
		}
		applog.Infof("exported chart to %s", wc.URI().Path())
	}, state.window)
	d.SetFileName("rubbers.png")
	d.Show()
}
