package main

import (
	"fmt"
	"image/png"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/aiminilabs0/pingponglab/src/catalog"
	"github.com/aiminilabs0/pingponglab/src/render"
	"github.com/aiminilabs0/pingponglab/src/viewport"
)

// newChartCmd renders the scatter chart to a PNG without the UI, with the
// same filter knobs as the viewer and an optional explicit view window.
func newChartCmd(env *rankEnv) *cobra.Command {
	var (
		w, h                   int
		brand                  string
		bestsellers            bool
		xmin, xmax, ymin, ymax float64
	)
	cmd := &cobra.Command{
		Use:   "chart OUT.png",
		Short: "Render the spin/speed chart to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.load(true); err != nil {
				return err
			}
			f := catalog.NewFilter()
			if brand != "" {
				f.Brands = map[string]bool{brand: true}
			}
			f.Bestseller = bestsellers
			f = f.WithBestsellers(env.source.BestsellerSet())

			items := make([]render.PlotItem, 0, len(env.source.Items))
			for _, it := range f.Apply(env.source.Items, env.reg) {
				p, ok := env.tables.Project(it)
				if !ok {
					continue
				}
				items = append(items, render.PlotItem{
					Projection: p,
					Label:      it.Name,
					Priority:   env.source.PriorityOf(it.Key),
				})
			}
			if len(items) == 0 {
				return fmt.Errorf("no plottable items after filtering")
			}

			ctrl := viewport.NewController()
			bridge := render.NewBridge(ctrl, render.NewChartBackend())
			bridge.SetTitle("Spin vs Speed")
			bridge.Resize(w, h)
			bridge.SetData(items)

			win, ok := ctrl.Current()
			if !ok {
				return fmt.Errorf("no view window")
			}
			if !math.IsNaN(xmin) || !math.IsNaN(xmax) || !math.IsNaN(ymin) || !math.IsNaN(ymax) {
				req := win
				if !math.IsNaN(xmin) {
					req.XMin = xmin
				}
				if !math.IsNaN(xmax) {
					req.XMax = xmax
				}
				if !math.IsNaN(ymin) {
					req.YMin = ymin
				}
				if !math.IsNaN(ymax) {
					req.YMax = ymax
				}
				if !req.Valid() {
					return fmt.Errorf("invalid window x=[%v,%v] y=[%v,%v]", req.XMin, req.XMax, req.YMin, req.YMax)
				}
				win = req
			}
			img, err := bridge.Export(win, w, h)
			if err != nil {
				return err
			}
			out, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer out.Close()
			if err := png.Encode(out, img); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d items)\n", args[0], len(items))
			return nil
		},
	}
	cmd.Flags().IntVar(&w, "width", 1100, "image width in pixels")
	cmd.Flags().IntVar(&h, "height", 680, "image height in pixels")
	cmd.Flags().StringVar(&brand, "brand", "", "keep only this brand")
	cmd.Flags().BoolVar(&bestsellers, "bestsellers", false, "keep only bestsellers")
	cmd.Flags().Float64Var(&xmin, "xmin", math.NaN(), "view window x min (default: autoscale)")
	cmd.Flags().Float64Var(&xmax, "xmax", math.NaN(), "view window x max")
	cmd.Flags().Float64Var(&ymin, "ymin", math.NaN(), "view window y min")
	cmd.Flags().Float64Var(&ymax, "ymax", math.NaN(), "view window y max")
	return cmd
}
