// Package export renders both panels to SVG or PNG files.
package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"linkmap/internal/crossfilter"
	"linkmap/internal/geom"
	"linkmap/internal/scale"
)

// Panels is a snapshot of everything both views draw.
type Panels struct {
	Records    []crossfilter.Record
	Features   []geom.Feature
	Threshold  scale.Threshold
	Cleared    string
	Projection geom.Projection
	Width      int
	Height     int
}

// provider maps a format name to a go-chart renderer.
func provider(format string) (chart.RendererProvider, string, error) {
	switch strings.ToLower(format) {
	case "svg":
		return chart.SVG, "svg", nil
	case "png":
		return chart.PNG, "png", nil
	default:
		return nil, "", eris.Errorf("export: unsupported format %q", format)
	}
}

// WriteFiles renders scatter.<ext> and choropleth.<ext> into dir and returns
// the written paths.
func WriteFiles(dir, format string, p Panels) ([]string, error) {
	rp, ext, err := provider(format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrap(err, "export: create output dir")
	}
	log := zap.L().With(zap.String("component", "export"))

	jobs := []struct {
		name   string
		render func(f *os.File) error
	}{
		{"scatter", func(f *os.File) error { return Scatter(f, rp, p) }},
		{"choropleth", func(f *os.File) error { return Choropleth(f, rp, p) }},
	}
	paths := make([]string, 0, len(jobs))
	for _, job := range jobs {
		path := filepath.Join(dir, job.name+"."+ext)
		f, err := os.Create(path)
		if err != nil {
			return paths, eris.Wrapf(err, "export: create %s", path)
		}
		err = job.render(f)
		if cerr := f.Close(); err == nil && cerr != nil {
			err = eris.Wrapf(cerr, "export: close %s", path)
		}
		if err != nil {
			return paths, err
		}
		log.Info("panel exported", zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

func hexColor(hex string) drawing.Color {
	if hex == "" {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
