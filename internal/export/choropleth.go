package export

import (
	"io"
	"math"

	"github.com/rotisserie/eris"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"linkmap/internal/crossfilter"
	"linkmap/internal/geom"
)

// viewport places projected coordinates on the canvas; y is flipped so north
// points up.
type viewport struct {
	k, tx, ty float64
}

func (v viewport) apply(pt [2]float64) (int, int) {
	return int(math.Round(v.tx + v.k*pt[0])), int(math.Round(v.ty - v.k*pt[1]))
}

// fitViewport uses the fixed Albers USA framing (scale = width*1.25, centered)
// and otherwise fits the projected bounds into the canvas.
func fitViewport(proj geom.Projection, projected []geom.Feature, w, h int) viewport {
	if _, ok := proj.(geom.AlbersUSA); ok {
		return viewport{k: float64(w) * 1.25, tx: float64(w) / 2, ty: float64(h) / 2}
	}
	b := geom.Bounds(projected)
	if !b.Valid() {
		return viewport{k: 1, tx: float64(w) / 2, ty: float64(h) / 2}
	}
	k := math.Min(float64(w)/(b.MaxX-b.MinX), float64(h)/(b.MaxY-b.MinY)) * 0.95
	cx, cy := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
	return viewport{k: k, tx: float64(w)/2 - k*cx, ty: float64(h)/2 + k*cy}
}

// Choropleth draws every feature filled with the color of its record: the
// threshold color of Y when kept, the cleared color when filtered, and black
// when no record matches.
func Choropleth(w io.Writer, rp chart.RendererProvider, p Panels) error {
	if p.Projection == nil {
		p.Projection = geom.NewAlbersUSA()
	}
	r, err := rp(p.Width, p.Height)
	if err != nil {
		return eris.Wrap(err, "export: choropleth renderer")
	}

	r.SetFillColor(drawing.ColorWhite)
	r.SetStrokeWidth(0)
	r.MoveTo(0, 0)
	r.LineTo(p.Width, 0)
	r.LineTo(p.Width, p.Height)
	r.LineTo(0, p.Height)
	r.Close()
	r.Fill()

	byKey := make(map[string]crossfilter.Record, len(p.Records))
	for _, rec := range p.Records {
		byKey[geom.Key(rec.Name)] = rec
	}

	projected := geom.ProjectFeatures(p.Features, p.Projection)
	vp := fitViewport(p.Projection, projected, p.Width, p.Height)
	for _, f := range projected {
		if len(f.Polygons) == 0 {
			continue
		}
		fill := drawing.ColorBlack
		if rec, ok := byKey[f.Key()]; ok {
			if rec.Filtered {
				fill = hexColor(p.Cleared)
			} else {
				fill = hexColor(p.Threshold.Color(rec.Y))
			}
		}
		r.SetFillColor(fill)
		r.SetStrokeColor(drawing.ColorWhite)
		r.SetStrokeWidth(1)
		for _, poly := range f.Polygons {
			for _, ring := range poly {
				for i, pt := range ring {
					x, y := vp.apply(pt)
					if i == 0 {
						r.MoveTo(x, y)
						continue
					}
					r.LineTo(x, y)
				}
				r.Close()
			}
		}
		r.FillStroke()
	}

	if err := r.Save(w); err != nil {
		return eris.Wrap(err, "export: save choropleth")
	}
	return nil
}
