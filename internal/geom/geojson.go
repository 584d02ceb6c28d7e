package geom

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// NameProperty is the feature property holding the region name.
const NameProperty = "name"

// DecodeGeoJSON reads a FeatureCollection and returns its polygonal features.
// Features with other geometry types are skipped.
func DecodeGeoJSON(r io.Reader) ([]Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "geom: read geojson")
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "geom: decode feature collection")
	}
	log := zap.L().With(zap.String("component", "geom"))
	out := make([]Feature, 0, len(fc.Features))
	for i, gf := range fc.Features {
		if gf == nil || gf.Geometry == nil {
			continue
		}
		name, _ := gf.Properties[NameProperty].(string)
		f := Feature{Name: name}
		empty := true
		switch g := gf.Geometry.(type) {
		case *gogeom.Polygon:
			empty = f.addPolygon(ringsToPairs(g.Coords()), empty)
		case *gogeom.MultiPolygon:
			for _, poly := range g.Coords() {
				empty = f.addPolygon(ringsToPairs(poly), empty)
			}
		default:
			log.Debug("skipping non-polygon feature", zap.Int("index", i), zap.String("name", name))
			continue
		}
		if empty {
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, eris.New("geom: no polygon features found")
	}
	return out, nil
}

func ringsToPairs(rings [][]gogeom.Coord) [][][2]float64 {
	poly := make([][][2]float64, 0, len(rings))
	for _, ring := range rings {
		pts := make([][2]float64, 0, len(ring))
		for _, c := range ring {
			if len(c) < 2 {
				continue
			}
			pts = append(pts, [2]float64{c.X(), c.Y()})
		}
		poly = append(poly, pts)
	}
	return poly
}
