// rubberrank is the terminal companion to the chart viewer: it answers the
// quick questions (top lists, hardness conversions, spreadsheet export)
// without starting a UI.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aiminilabs0/pingponglab/src/applog"
	"github.com/aiminilabs0/pingponglab/src/catalog"
	"github.com/aiminilabs0/pingponglab/src/ranking"
	"github.com/aiminilabs0/pingponglab/src/scale"
)

type rankEnv struct {
	catalogPath string
	scalesPath  string
	logLevel    string

	reg    *scale.Registry
	source *catalog.Source
	tables *ranking.Tables
}

// load resolves the registry and catalog once per invocation. convert works
// without a catalog; everything else needs one.
func (e *rankEnv) load(needCatalog bool) error {
	applog.SetLogLevel(e.logLevel)
	e.reg = scale.NewRegistry()
	if e.scalesPath != "" {
		if err := e.reg.LoadYAML(e.scalesPath); err != nil {
			return fmt.Errorf("load scales: %w", err)
		}
	}
	if !needCatalog {
		return nil
	}
	if e.catalogPath == "" {
		return fmt.Errorf("missing --catalog")
	}
	src, err := catalog.LoadSourceYAML(e.catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	e.source = src
	e.tables = ranking.NewTables(src)
	return nil
}

func newRootCmd() *cobra.Command {
	env := &rankEnv{}
	root := &cobra.Command{
		Use:           "rubberrank",
		Short:         "Query and export the rubber catalog from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&env.catalogPath, "catalog", "", "catalog source YAML")
	root.PersistentFlags().StringVar(&env.scalesPath, "scales", "", "optional hardness scales YAML")
	root.PersistentFlags().StringVar(&env.logLevel, "loglevel", "warn", "log level (debug|info|warn|error)")
	root.AddCommand(newTopCmd(env), newConvertCmd(env), newExportCmd(env), newChartCmd(env))
	return root
}

func newTopCmd(env *rankEnv) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:       "top {spin|speed|control}",
		Short:     "Print the best-ranked rubbers for one metric",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"spin", "speed", "control"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.load(true); err != nil {
				return err
			}
			var tbl *ranking.Table
			switch args[0] {
			case "spin":
				tbl = env.tables.Spin
			case "speed":
				tbl = env.tables.Speed
			case "control":
				tbl = env.tables.Control
			default:
				return fmt.Errorf("unknown metric %q", args[0])
			}
			for i, k := range tbl.Keys() {
				if i >= n {
					break
				}
				star := ""
				if env.tables.Bestsellers[k.Fold()] {
					star = " ★"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s %s%s\n", i+1, k.Brand, k.Name, star)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "how many entries to print")
	return cmd
}

func newConvertCmd(env *rankEnv) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "convert VALUE",
		Short: "Convert a hardness value between country scales",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.load(false); err != nil {
				return err
			}
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("bad value %q", args[0])
			}
			if _, ok := env.reg.Lookup(from); !ok {
				return fmt.Errorf("unknown scale %q (have %s)", from, strings.Join(env.reg.Countries(), ", "))
			}
			canonical := env.reg.ToCanonical(v, from)
			if to != "" && to != "all" {
				if _, ok := env.reg.Lookup(to); !ok {
					return fmt.Errorf("unknown scale %q (have %s)", to, strings.Join(env.reg.Countries(), ", "))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%.1f\n", env.reg.FromCanonical(canonical, to))
				return nil
			}
			all := env.reg.FromCanonicalAll(canonical)
			countries := make([]string, 0, len(all))
			for c := range all {
				countries = append(countries, c)
			}
			sort.Strings(countries)
			for _, c := range countries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %.1f\n", c, all[c])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", scale.Canonical, "source scale")
	cmd.Flags().StringVar(&to, "to", "all", "target scale, or 'all'")
	return cmd
}

func newExportCmd(env *rankEnv) *cobra.Command {
	var brand string
	var bestsellers bool
	cmd := &cobra.Command{
		Use:   "export OUT.xlsx",
		Short: "Export the (optionally filtered) catalog with ranks to a spreadsheet",
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
			items := f.Apply(env.source.Items, env.reg)
			n, err := exportXLSX(args[0], items, env.tables, env.reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", n, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&brand, "brand", "", "keep only this brand")
	cmd.Flags().BoolVar(&bestsellers, "bestsellers", false, "keep only bestsellers")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rubberrank:", err)
		os.Exit(1)
	}
}
