package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"linkmap/internal/crossfilter"
	"linkmap/internal/export"
)

var exportBrush string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render both panels to SVG or PNG files",
	Long:  "Loads the data, optionally applies a brush given in data units, and writes scatter and choropleth images to the output directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var sel *crossfilter.Rect
		if exportBrush != "" {
			r, err := parseBrush(exportBrush)
			if err != nil {
				return err
			}
			sel = &r
		}

		opts, err := sessionOptions(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		coord := crossfilter.NewCoordinator()
		coord.Initialize(opts.Records, opts.Features)
		coord.ApplyBrush(sel)

		paths, err := export.WriteFiles(cfg.Export.Dir, cfg.Export.Format, export.Panels{
			Records:    coord.Records(),
			Features:   coord.Features(),
			Threshold:  opts.Threshold,
			Cleared:    opts.Cleared,
			Projection: opts.Projection,
			Width:      cfg.Export.Width,
			Height:     cfg.Export.Height,
		})
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d/%d\n", coord.State(), crossfilter.Kept(coord.Records()), len(coord.Records()))
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.String("out-dir", "", "output directory")
	f.String("format", "", "svg or png")
	f.Int("width", 0, "panel width in pixels")
	f.Int("height", 0, "panel height in pixels")
	f.StringVar(&exportBrush, "brush", "", "brush as x0,x1,y0,y1 in data units")
	bindFlags(v, map[string]string{
		"export.dir":    "out-dir",
		"export.format": "format",
		"export.width":  "width",
		"export.height": "height",
	}, exportCmd)
	rootCmd.AddCommand(exportCmd)
}

// parseBrush reads "x0,x1,y0,y1". The rectangle is used as written.
func parseBrush(s string) (crossfilter.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return crossfilter.Rect{}, eris.Errorf("brush %q: want x0,x1,y0,y1", s)
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return crossfilter.Rect{}, eris.Wrapf(err, "brush %q: value %d", s, i+1)
		}
		vals[i] = f
	}
	return crossfilter.Rect{X0: vals[0], X1: vals[1], Y0: vals[2], Y1: vals[3]}, nil
}
