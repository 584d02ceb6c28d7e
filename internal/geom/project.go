package geom

import (
	"math"

	"github.com/rotisserie/eris"
)

// Projection maps longitude/latitude to a plane with y growing upward.
// ok is false for points the projection does not cover.
type Projection interface {
	Project(lon, lat float64) (x, y float64, ok bool)
}

const (
	ProjectionAlbersUSA       = "albers-usa"
	ProjectionEquirectangular = "equirectangular"
)

// NewProjection returns the projection registered under name.
func NewProjection(name string) (Projection, error) {
	switch name {
	case ProjectionAlbersUSA, "":
		return NewAlbersUSA(), nil
	case ProjectionEquirectangular:
		return Equirectangular{}, nil
	default:
		return nil, eris.Errorf("geom: unknown projection %q", name)
	}
}

// Equirectangular passes coordinates through unchanged.
type Equirectangular struct{}

func (Equirectangular) Project(lon, lat float64) (float64, float64, bool) {
	return lon, lat, true
}

// conic is an Albers equal-area conic projection in unit scale.
type conic struct {
	n, c, rho0 float64
	lambda0    float64
	cx, cy     float64
	scale      float64
	dx, dy     float64
}

func newConic(phi1, phi2, rotate, centerLon, centerLat, scale, dx, dy float64) conic {
	s1, s2 := math.Sin(rad(phi1)), math.Sin(rad(phi2))
	n := (s1 + s2) / 2
	c := math.Cos(rad(phi1))*math.Cos(rad(phi1)) + 2*n*s1
	p := conic{n: n, c: c, lambda0: rotate, scale: scale, dx: dx, dy: dy}
	p.rho0 = p.rho(0)
	p.cx, p.cy = p.raw(centerLon, centerLat)
	return p
}

func (p conic) rho(lat float64) float64 {
	return math.Sqrt(math.Max(0, p.c-2*p.n*math.Sin(rad(lat)))) / p.n
}

// raw projects a longitude already expressed relative to the central meridian.
func (p conic) raw(lon, lat float64) (float64, float64) {
	r := p.rho(lat)
	theta := p.n * rad(lon)
	return r * math.Sin(theta), p.rho0 - r*math.Cos(theta)
}

func (p conic) project(lon, lat float64) (float64, float64) {
	l := lon - p.lambda0
	for l > 180 {
		l -= 360
	}
	for l < -180 {
		l += 360
	}
	x, y := p.raw(l, lat)
	return (x-p.cx)*p.scale + p.dx, (y-p.cy)*p.scale + p.dy
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// AlbersUSA is the lower-48 Albers conic with Alaska and Hawaii drawn as
// insets below the southwest corner. Points outside the three regions are
// not projected.
type AlbersUSA struct {
	lower48 conic
	alaska  conic
	hawaii  conic
}

func NewAlbersUSA() AlbersUSA {
	return AlbersUSA{
		lower48: newConic(29.5, 45.5, -96, -0.6, 38.7, 1, 0, 0),
		alaska:  newConic(55, 65, -154, -2, 58.5, 0.35, -0.307, -0.201),
		hawaii:  newConic(8, 18, -157, -3, 19.9, 1, -0.205, -0.212),
	}
}

func (a AlbersUSA) Project(lon, lat float64) (float64, float64, bool) {
	switch {
	case lat >= 50 && (lon <= -129 || lon >= 170):
		x, y := a.alaska.project(lon, lat)
		return x, y, true
	case lat >= 18 && lat <= 23 && lon >= -161 && lon <= -154:
		x, y := a.hawaii.project(lon, lat)
		return x, y, true
	case lat >= 23 && lat <= 50 && lon >= -126 && lon <= -65:
		x, y := a.lower48.project(lon, lat)
		return x, y, true
	}
	return 0, 0, false
}

// ProjectFeatures returns copies of features with every vertex projected.
// Unprojectable vertices are dropped; rings left with fewer than three
// vertices are dropped with them.
func ProjectFeatures(features []Feature, p Projection) []Feature {
	out := make([]Feature, 0, len(features))
	for _, f := range features {
		pf := Feature{Name: f.Name}
		empty := true
		for _, poly := range f.Polygons {
			var rings [][][2]float64
			for _, ring := range poly {
				pr := make([][2]float64, 0, len(ring))
				for _, pt := range ring {
					x, y, ok := p.Project(pt[0], pt[1])
					if !ok {
						continue
					}
					pr = append(pr, [2]float64{x, y})
				}
				if len(pr) >= 3 {
					rings = append(rings, pr)
				}
			}
			if len(rings) > 0 {
				empty = pf.addPolygon(rings, empty)
			}
		}
		out = append(out, pf)
	}
	return out
}
