package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"linkmap/internal/crossfilter"
	"linkmap/internal/geom"
	"linkmap/internal/scale"
)

const (
	axisLabelWidth = 6 // widest tick label, "$100k"
	plotLeft       = axisLabelWidth + 1
	plotBottom     = 2 // axis line + tick labels

	keptGlyph     = '●'
	filteredGlyph = '•'
)

// point is a record as the scatter view last saw it.
type point struct {
	key      string
	x, y     float64
	filtered bool
	color    string
}

// cellRect is an inclusive rectangle in plot cells.
type cellRect struct {
	left, top, right, bottom int
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.left && x <= r.right && y >= r.top && y <= r.bottom
}

// plotArea is the drawable region of the scatter canvas, in canvas cells.
type plotArea struct {
	left, top int
	w, h      int
}

func newPlotArea(canvasW, canvasH int) plotArea {
	return plotArea{
		left: plotLeft,
		w:    max(1, canvasW-plotLeft),
		h:    max(1, canvasH-plotBottom),
	}
}

// scatterView holds the nice domains and point list from the last broadcast.
type scatterView struct {
	th     scale.Threshold
	points []point
	x, y   scale.Linear // domains only; ranges are set per plot area
	ok     bool
}

func newScatterView(th scale.Threshold) *scatterView {
	return &scatterView{th: th}
}

// render recomputes domains and point styles from the records.
func (v *scatterView) render(records []crossfilter.Record) {
	v.points = v.points[:0]
	x0, x1, okX := scale.Extent(len(records), func(i int) float64 { return records[i].X })
	y0, y1, okY := scale.Extent(len(records), func(i int) float64 { return records[i].Y })
	v.ok = okX && okY
	if !v.ok {
		return
	}
	v.x = widenDomain(scale.NewLinear(x0, x1, 0, 1).Nice(10))
	v.y = widenDomain(scale.NewLinear(y0, y1, 0, 1).Nice(10))
	for _, rec := range records {
		v.points = append(v.points, point{
			key:      geom.Key(rec.Name),
			x:        rec.X,
			y:        rec.Y,
			filtered: rec.Filtered,
			color:    v.th.Color(rec.Y),
		})
	}
}

// widenDomain pads a zero-width domain so a lone value still has an axis.
func widenDomain(s scale.Linear) scale.Linear {
	if s.D0 != s.D1 {
		return s
	}
	pad := math.Abs(s.D0) * 0.1
	if pad == 0 {
		pad = 1
	}
	s.D0, s.D1 = s.D0-pad, s.D1+pad
	return s
}

// scales returns the x and y scales mapped onto plot cells; y grows upward.
func (v *scatterView) scales(pa plotArea) (scale.Linear, scale.Linear) {
	return v.x.WithRange(0, float64(pa.w-1)), v.y.WithRange(float64(pa.h-1), 0)
}

// cellOf maps a data point to a plot cell.
func (v *scatterView) cellOf(pa plotArea, x, y float64) (int, int) {
	xs, ys := v.scales(pa)
	return int(math.Round(xs.Scale(x))), int(math.Round(ys.Scale(y)))
}

// rectFromCells inverts a cell rectangle into data bounds at the outer cell
// edges, so every point drawn inside the rectangle is kept. A single column
// or row has zero extent.
func (v *scatterView) rectFromCells(pa plotArea, r cellRect) crossfilter.Rect {
	xs, ys := v.scales(pa)
	rect := crossfilter.Rect{
		X0: xs.Invert(float64(r.left) - 0.5),
		X1: xs.Invert(float64(r.right) + 0.5),
		Y0: ys.Invert(float64(r.bottom) + 0.5),
		Y1: ys.Invert(float64(r.top) - 0.5),
	}
	if r.left == r.right {
		rect.X0 = xs.Invert(float64(r.left))
		rect.X1 = rect.X0
	}
	if r.top == r.bottom {
		rect.Y0 = ys.Invert(float64(r.top))
		rect.Y1 = rect.Y0
	}
	return rect
}

// cellsFromRect maps data bounds back to the plot cells they enclose.
func (v *scatterView) cellsFromRect(pa plotArea, r crossfilter.Rect) cellRect {
	xs, ys := v.scales(pa)
	left := int(math.Round(xs.Scale(r.X0) + 0.5))
	right := int(math.Round(xs.Scale(r.X1) - 0.5))
	bottom := int(math.Round(ys.Scale(r.Y0) - 0.5))
	top := int(math.Round(ys.Scale(r.Y1) + 0.5))
	return cellRect{
		left:   min(left, right),
		right:  max(left, right),
		top:    min(top, bottom),
		bottom: max(top, bottom),
	}
}

// nearest returns the index of the point closest to plot cell (cx, cy).
// Rows count double since terminal cells are twice as tall as wide.
func (v *scatterView) nearest(pa plotArea, cx, cy int) (int, bool) {
	best, bestD := -1, math.MaxInt
	for i, p := range v.points {
		px, py := v.cellOf(pa, p.x, p.y)
		dx, dy := px-cx, (py-cy)*2
		if d := dx*dx + dy*dy; d < bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

type scatterOverlay struct {
	brush      *cellRect
	cursor     [2]int
	showCursor bool
	focus      string
}

// rasterize draws axes, threshold bands, points, the brush and the cursor
// into a canvasW x canvasH block.
func (v *scatterView) rasterize(canvasW, canvasH int, ov scatterOverlay) string {
	if canvasW <= plotLeft || canvasH <= plotBottom {
		return ""
	}
	pa := newPlotArea(canvasW, canvasH)
	if !v.ok {
		return lipgloss.Place(canvasW, canvasH, lipgloss.Center, lipgloss.Center, dimStyle.Render("no records"))
	}
	xs, ys := v.scales(pa)

	type cell struct {
		ch    rune
		color string
		bold  bool
		faint bool
	}
	grid := make([][]cell, pa.h)
	for y := range grid {
		grid[y] = make([]cell, pa.w)
	}
	// filtered first so kept points win collisions
	for pass := 0; pass < 2; pass++ {
		for _, p := range v.points {
			if p.filtered != (pass == 0) {
				continue
			}
			cx := int(math.Round(xs.Scale(p.x)))
			cy := int(math.Round(ys.Scale(p.y)))
			if cx < 0 || cy < 0 || cx >= pa.w || cy >= pa.h {
				continue
			}
			if p.filtered {
				grid[cy][cx] = cell{ch: filteredGlyph, color: blend(p.color, canvasBg, 0.5), faint: true}
			} else {
				grid[cy][cx] = cell{ch: keptGlyph, color: p.color, bold: true}
			}
			if ov.focus != "" && p.key == ov.focus {
				grid[cy][cx].ch = '◆'
				grid[cy][cx].bold = true
			}
		}
	}

	rowTint := make([]string, pa.h)
	for y := 0; y < pa.h; y++ {
		if c := v.th.Color(ys.Invert(float64(y))); c != "" {
			rowTint[y] = blend(c, canvasBg, 0.85)
		}
	}

	tickRows := map[int]string{}
	for _, t := range ys.Ticks(5) {
		tickRows[int(math.Round(ys.Scale(t)))] = scale.FormatPercent(t)
	}

	lines := make([]string, 0, canvasH)
	for y := 0; y < pa.h; y++ {
		label := ""
		axis := "│"
		if l, ok := tickRows[y]; ok {
			label = l
			axis = "┤"
		}
		var run styledRun
		for _, r := range strings.Repeat(" ", axisLabelWidth-len([]rune(label))) + label + axis {
			run.add(r, "axis", axisStyle)
		}
		for x := 0; x < pa.w; x++ {
			c := grid[y][x]
			ch := c.ch
			if ch == 0 {
				ch = ' '
			}
			style := lipgloss.NewStyle()
			key := ""
			if rowTint[y] != "" {
				style = style.Background(lipgloss.Color(rowTint[y]))
				key = "bg" + rowTint[y]
			}
			if ov.brush != nil && ov.brush.contains(x, y) {
				style = style.Background(brushBg)
				key = "brush"
			}
			if ov.showCursor && x == ov.cursor[0] && y == ov.cursor[1] {
				if ch == ' ' {
					ch = '┼'
				}
				style = style.Foreground(cursorFg).Bold(true)
				key += ":cursor"
			} else if c.color != "" {
				style = style.Foreground(lipgloss.Color(c.color)).Bold(c.bold).Faint(c.faint)
				key += ":" + c.color
				if c.bold {
					key += "b"
				}
			}
			run.add(ch, key, style)
		}
		lines = append(lines, run.String())
	}

	lines = append(lines, axisStyle.Render(strings.Repeat(" ", axisLabelWidth)+"└"+strings.Repeat("─", pa.w)))
	lines = append(lines, axisStyle.Render(xTickLine(xs, pa, canvasW)))
	return strings.Join(lines, "\n")
}

// xTickLine lays currency tick labels under their columns, dropping labels
// that would overlap a previous one.
func xTickLine(xs scale.Linear, pa plotArea, width int) string {
	line := []rune(strings.Repeat(" ", width))
	next := 0
	for _, t := range xs.Ticks(5) {
		label := []rune(scale.FormatCurrencySI(t))
		col := pa.left + int(math.Round(xs.Scale(t))) - len(label)/2
		col = clamp(col, 0, width-len(label))
		if col < next || col < 0 {
			continue
		}
		copy(line[col:], label)
		next = col + len(label) + 1
	}
	return string(line)
}
