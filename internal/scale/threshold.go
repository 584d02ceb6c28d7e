package scale

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

// Threshold is a step function from sorted breakpoints to discrete colors.
// Values below Breakpoints[0] map to Palette[0]; values equal to a breakpoint
// fall into the bucket above it.
type Threshold struct {
	Breakpoints []float64
	Palette     []string
}

// NewThreshold validates and returns a threshold scale. The palette must hold
// exactly one more color than there are breakpoints.
func NewThreshold(breakpoints []float64, palette []string) (Threshold, error) {
	if len(palette) != len(breakpoints)+1 {
		return Threshold{}, eris.Errorf("scale: palette has %d colors, want %d", len(palette), len(breakpoints)+1)
	}
	if !sort.Float64sAreSorted(breakpoints) {
		return Threshold{}, eris.New("scale: breakpoints must be ascending")
	}
	return Threshold{
		Breakpoints: append([]float64(nil), breakpoints...),
		Palette:     append([]string(nil), palette...),
	}, nil
}

// Bucket returns the palette index for v, or -1 for NaN.
func (t Threshold) Bucket(v float64) int {
	if math.IsNaN(v) {
		return -1
	}
	return sort.Search(len(t.Breakpoints), func(i int) bool { return t.Breakpoints[i] > v })
}

// Color returns the palette entry for v, or "" when v has no bucket.
func (t Threshold) Color(v float64) string {
	b := t.Bucket(v)
	if b < 0 || b >= len(t.Palette) {
		return ""
	}
	return t.Palette[b]
}

// Band is a y-interval of a single bucket.
type Band struct {
	Lo, Hi float64
	Color  string
}

// Bands splits [lo,hi] at every breakpoint and pairs each piece with the color
// of its lower edge.
func (t Threshold) Bands(lo, hi float64) []Band {
	edges := make([]float64, 0, len(t.Breakpoints)+2)
	edges = append(edges, lo)
	edges = append(edges, t.Breakpoints...)
	edges = append(edges, hi)
	out := make([]Band, 0, len(edges)-1)
	for i := 0; i+1 < len(edges); i++ {
		out = append(out, Band{Lo: edges[i], Hi: edges[i+1], Color: t.Color(edges[i])})
	}
	return out
}
