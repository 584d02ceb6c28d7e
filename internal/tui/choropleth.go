package tui

import (
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"linkmap/internal/crossfilter"
	"linkmap/internal/geom"
	"linkmap/internal/scale"
)

// camera is the user's pan/zoom over the map panel.
type camera struct {
	zoom    float64
	offsetX int
	offsetY int
}

// choroplethView keeps projected features and the fill color of each one as
// of the last broadcast. Rasterization happens at View time because the
// canvas size follows the terminal.
type choroplethView struct {
	features []geom.Feature // projected, y-up
	bbox     geom.BBox
	index    map[string]int // region key -> feature index
	fills    []string       // per feature; "" means no record
	th       scale.Threshold
	cleared  string

	// ownership grid of the last rasterization, for hover lookups
	owner [][]int
}

func newChoroplethView(features []geom.Feature, proj geom.Projection, th scale.Threshold, cleared string) *choroplethView {
	projected := geom.ProjectFeatures(features, proj)
	v := &choroplethView{
		features: projected,
		bbox:     geom.Bounds(projected),
		index:    make(map[string]int, len(projected)),
		fills:    make([]string, len(projected)),
		th:       th,
		cleared:  cleared,
	}
	for i, f := range projected {
		v.index[f.Key()] = i
	}
	return v
}

// render recolors every feature from the records.
func (v *choroplethView) render(records []crossfilter.Record) {
	for i := range v.fills {
		v.fills[i] = ""
	}
	for _, rec := range records {
		i, ok := v.index[geom.Key(rec.Name)]
		if !ok {
			continue
		}
		if rec.Filtered {
			v.fills[i] = v.cleared
		} else {
			v.fills[i] = v.th.Color(rec.Y)
		}
	}
}

// fit returns the uniform micro-pixel scale and offsets that center the bbox
// in a w x h cell canvas. Braille micro-pixels are close to square.
func (v *choroplethView) fit(w, h int, cam camera) (k, ox, oy float64) {
	mw, mh := float64(w*2), float64(h*4)
	bw := v.bbox.MaxX - v.bbox.MinX
	bh := v.bbox.MaxY - v.bbox.MinY
	if bw <= 0 || bh <= 0 {
		return 0, 0, 0
	}
	z := cam.zoom
	if z <= 0 {
		z = 1
	}
	k = math.Min((mw-1)/bw, (mh-1)/bh) * z
	ox = (mw-bw*k)/2 + float64(cam.offsetX*2)
	oy = (mh-bh*k)/2 + float64(cam.offsetY*4)
	return k, ox, oy
}

// screenXYMicro converts projected coordinates to micro-pixel coordinates.
func (v *choroplethView) screenXYMicro(x, y float64, w, h int, cam camera) (int, int, bool) {
	k, ox, oy := v.fit(w, h, cam)
	if k == 0 {
		return 0, 0, false
	}
	mx := int(math.Round(ox + (x-v.bbox.MinX)*k))
	my := int(math.Round(oy + (v.bbox.MaxY-y)*k))
	return mx, my, true
}

// rasterize draws every feature into a w x h braille canvas. Filled
// micro-pixels carry the feature's color; polygon outlines are erased so
// neighboring regions stay distinguishable, except for regions too small to
// survive it.
func (v *choroplethView) rasterize(w, h int, cam camera, focus string) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	b := newBrailleBuf(w, h)
	if len(v.features) > 0 && v.bbox.Valid() {
		for i, f := range v.features {
			v.fillFeature(b, i, f, w, h, cam)
		}
	}
	v.owner = b.owner

	focusIdx := -1
	if focus != "" {
		if i, ok := v.index[focus]; ok {
			focusIdx = i
		}
	}
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var run styledRun
		for x := 0; x < w; x++ {
			ch := b.glyph(x, y)
			id := b.owner[y][x]
			if ch == ' ' || id < 0 {
				run.add(ch, "", lipgloss.Style{})
				continue
			}
			key, style := v.cellStyle(id, id == focusIdx)
			run.add(ch, key, style)
		}
		lines[y] = run.String()
	}
	return strings.Join(lines, "\n")
}

func (v *choroplethView) cellStyle(id int, focused bool) (string, lipgloss.Style) {
	fill := v.fills[id]
	style := lipgloss.NewStyle()
	key := "f:" + fill
	if fill != "" {
		style = style.Foreground(lipgloss.Color(fill))
	} else {
		key = "f:none"
	}
	if focused {
		style = style.Background(accentFg)
		key += ":focus"
	}
	return key, style
}

// fillFeature scanline-fills each polygon with the even-odd rule across all
// of its rings, so holes stay empty.
func (v *choroplethView) fillFeature(b *brailleBuf, id int, f geom.Feature, w, h int, cam camera) {
	for _, poly := range f.Polygons {
		rings := make([][][2]int, 0, len(poly))
		minY, maxY := math.MaxInt, math.MinInt
		minX, maxX := math.MaxInt, math.MinInt
		for _, ring := range poly {
			pts := make([][2]int, 0, len(ring))
			for _, p := range ring {
				mx, my, ok := v.screenXYMicro(p[0], p[1], w, h, cam)
				if !ok {
					continue
				}
				pts = append(pts, [2]int{mx, my})
				minY, maxY = min(minY, my), max(maxY, my)
				minX, maxX = min(minX, mx), max(maxX, mx)
			}
			if len(pts) >= 3 {
				rings = append(rings, pts)
			}
		}
		if len(rings) == 0 {
			continue
		}
		minY = max(minY, 0)
		maxY = min(maxY, h*4-1)
		for y := minY; y <= maxY; y++ {
			var xs []int
			for _, pts := range rings {
				for i := 0; i < len(pts); i++ {
					a := pts[i]
					c := pts[(i+1)%len(pts)]
					if a[1] == c[1] {
						continue
					}
					ymin, ymax := min(a[1], c[1]), max(a[1], c[1])
					if y < ymin || y >= ymax {
						continue
					}
					t := float64(y-a[1]) / float64(c[1]-a[1])
					xs = append(xs, int(math.Round(float64(a[0])+t*float64(c[0]-a[0]))))
				}
			}
			slices.Sort(xs)
			for i := 0; i+1 < len(xs); i += 2 {
				for x := max(xs[i], 0); x <= min(xs[i+1], w*2-1); x++ {
					b.setPixel(x, y, id)
				}
			}
		}
		if maxX-minX < 8 || maxY-minY < 8 {
			continue
		}
		for _, pts := range rings {
			for i := 0; i < len(pts); i++ {
				a := pts[i]
				c := pts[(i+1)%len(pts)]
				b.eraseLineMicro(a[0], a[1], c[0], c[1])
			}
		}
	}
}

// featureAt returns the key of the region owning canvas cell (x, y) in the
// last rasterization.
func (v *choroplethView) featureAt(x, y int) (string, bool) {
	if y < 0 || y >= len(v.owner) || x < 0 || x >= len(v.owner[y]) {
		return "", false
	}
	id := v.owner[y][x]
	if id < 0 {
		return "", false
	}
	return v.features[id].Key(), true
}

func (v *choroplethView) name(key string) string {
	if i, ok := v.index[key]; ok {
		return v.features[i].Name
	}
	return key
}
