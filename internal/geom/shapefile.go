package geom

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// ShapefileNameField is the attribute read as the region name.
const ShapefileNameField = "NAME"

// LoadShapefile reads polygon shapes and their NAME attribute from an ESRI
// shapefile. The .dbf sidecar must sit next to the .shp.
func LoadShapefile(path string) ([]Feature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "geom: open shapefile")
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, ShapefileNameField)
	if nameIdx < 0 {
		return nil, eris.Errorf("geom: shapefile field %s not found", ShapefileNameField)
	}

	var out []Feature
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || poly.NumParts == 0 {
			continue
		}
		f := Feature{Name: strings.TrimSpace(reader.Attribute(nameIdx))}
		empty := true
		// shapefile polygons list every ring as a part; each becomes its own
		// polygon so the even-odd fill still punches holes
		for i := int32(0); i < poly.NumParts; i++ {
			start := poly.Parts[i]
			end := int32(len(poly.Points))
			if i+1 < poly.NumParts {
				end = poly.Parts[i+1]
			}
			ring := make([][2]float64, 0, end-start)
			for j := start; j < end; j++ {
				ring = append(ring, [2]float64{poly.Points[j].X, poly.Points[j].Y})
			}
			if len(ring) < 3 {
				continue
			}
			empty = f.addPolygon([][][2]float64{ring}, empty)
		}
		if !empty {
			out = append(out, f)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrap(err, "geom: read shapefile")
	}
	if len(out) == 0 {
		return nil, eris.New("geom: no polygon shapes found")
	}
	return out, nil
}

func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}
