package geom

// BBox is an axis-aligned bounding box in whatever plane its points live in.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports a box with positive width and height.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Extend grows b to include pt. empty marks b as not yet holding any point.
func (b BBox) Extend(pt [2]float64, empty bool) BBox {
	if empty {
		return BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	}
	if pt[0] < b.MinX {
		b.MinX = pt[0]
	}
	if pt[1] < b.MinY {
		b.MinY = pt[1]
	}
	if pt[0] > b.MaxX {
		b.MaxX = pt[0]
	}
	if pt[1] > b.MaxY {
		b.MaxY = pt[1]
	}
	return b
}

// Feature is one named region. Polygons hold rings (first outer, following
// holes) as [x, y] pairs; for unprojected data x is longitude and y latitude.
type Feature struct {
	Name     string
	Polygons [][][][2]float64
	BBox     BBox
}

// Key is the normalized form of Name used to match features to records.
func (f Feature) Key() string { return Key(f.Name) }

func (f *Feature) addPolygon(poly [][][2]float64, empty bool) bool {
	f.Polygons = append(f.Polygons, poly)
	for _, ring := range poly {
		for _, p := range ring {
			f.BBox = f.BBox.Extend(p, empty)
			empty = false
		}
	}
	return empty
}

// Bounds returns the union of the features' boxes.
func Bounds(features []Feature) BBox {
	var b BBox
	empty := true
	for _, f := range features {
		if len(f.Polygons) == 0 {
			continue
		}
		b = b.Extend([2]float64{f.BBox.MinX, f.BBox.MinY}, empty)
		b = b.Extend([2]float64{f.BBox.MaxX, f.BBox.MaxY}, false)
		empty = false
	}
	return b
}
