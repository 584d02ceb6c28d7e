package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkmap/internal/crossfilter"
	"linkmap/internal/geom"
	"linkmap/internal/scale"
)

var palette = []string{"#fbb4b9", "#f768a1", "#c51b8a", "#7a0177"}

func square(name string, x0, y0, x1, y1 float64) geom.Feature {
	return geom.Feature{Name: name, Polygons: [][][][2]float64{{{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}}}}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	th, err := scale.NewThreshold([]float64{0.24, 0.28, 0.32}, palette)
	require.NoError(t, err)
	return New(Options{
		Records: []crossfilter.Record{
			{Name: "Alpha", X: 40000, Y: 0.20},
			{Name: "Beta", X: 60000, Y: 0.35},
		},
		Features: []geom.Feature{
			square("Alpha", 0, 0, 10, 10),
			square("Beta", 10, 0, 20, 10),
		},
		Threshold:    th,
		Cleared:      "#ffffff",
		Projection:   geom.Equirectangular{},
		ExportDir:    t.TempDir(),
		ExportFormat: "svg",
		ExportWidth:  480,
		ExportHeight: 350,
	})
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func press(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func repeat(msg tea.Msg, n int) []tea.Msg {
	out := make([]tea.Msg, n)
	for i := range out {
		out[i] = msg
	}
	return out
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func filteredByName(m Model) map[string]bool {
	out := map[string]bool{}
	for _, rec := range m.Coordinator().Records() {
		out[rec.Name] = rec.Filtered
	}
	return out
}

// 120x40 puts the scatter plot's top-left cell at screen (69, 3) and makes the
// plot 48x32 cells.
var sized = tea.WindowSizeMsg{Width: 120, Height: 40}

func TestInitialRender(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, crossfilter.Unfiltered, m.coord.State())
	assert.Len(t, m.scatter.points, 2)
	assert.True(t, m.scatter.ok)
	assert.Equal(t, 40000.0, m.scatter.x.D0)
	assert.Equal(t, 60000.0, m.scatter.x.D1)
	assert.Equal(t, []string{"#fbb4b9", "#7a0177"}, m.choro.fills)
	assert.Len(t, m.records.tbl.Rows(), 2)
	assert.Len(t, m.regions.l.Items(), 2)
}

func TestLayoutPlotCell(t *testing.T) {
	m := update(t, newTestModel(t), sized)
	l := m.layout()
	assert.Equal(t, 59, l.panelW)
	assert.Equal(t, 60, l.scatterX)

	x, y, ok := l.plotCell(69, 3)
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	x, y, ok = l.plotCell(69+47, 3+31)
	require.True(t, ok)
	assert.Equal(t, 47, x)
	assert.Equal(t, 31, y)

	_, _, ok = l.plotCell(68, 3)
	assert.False(t, ok)
	_, _, ok = l.plotCell(69, 3+32)
	assert.False(t, ok)
}

func TestMouseBrushFiltersBothViews(t *testing.T) {
	m := update(t, newTestModel(t), sized,
		mouse(69, 34, tea.MouseActionPress, tea.MouseButtonLeft),
		mouse(89, 23, tea.MouseActionMotion, tea.MouseButtonLeft),
		mouse(89, 23, tea.MouseActionRelease, tea.MouseButtonNone),
	)
	assert.Equal(t, crossfilter.Filtered, m.coord.State())
	assert.Equal(t, map[string]bool{"Alpha": false, "Beta": true}, filteredByName(m))

	// choropleth and scatter reflect the same broadcast
	assert.Equal(t, []string{"#fbb4b9", "#ffffff"}, m.choro.fills)
	for _, p := range m.scatter.points {
		assert.Equal(t, p.key == "beta", p.filtered, p.key)
	}

	b := m.coord.Brush()
	require.NotNil(t, b)
	// bounds sit on the outer edges of the brushed cells
	assert.InDelta(t, 40000-0.5*20000.0/47, b.X0, 1e-6)
	assert.InDelta(t, 40000+20.5*20000.0/47, b.X1, 1e-6)
	assert.InDelta(t, 0.2-0.5*0.16/31, b.Y0, 1e-9)
	assert.InDelta(t, 0.2+11.5*0.16/31, b.Y1, 1e-9)
	assert.False(t, m.dragging)
}

func TestClickWithoutDragClears(t *testing.T) {
	m := update(t, newTestModel(t), sized,
		mouse(69, 34, tea.MouseActionPress, tea.MouseButtonLeft),
		mouse(89, 23, tea.MouseActionRelease, tea.MouseButtonNone),
	)
	require.Equal(t, crossfilter.Filtered, m.coord.State())

	m = update(t, m,
		mouse(75, 10, tea.MouseActionPress, tea.MouseButtonLeft),
		mouse(75, 10, tea.MouseActionRelease, tea.MouseButtonNone),
	)
	assert.Equal(t, crossfilter.Unfiltered, m.coord.State())
	assert.Equal(t, map[string]bool{"Alpha": false, "Beta": false}, filteredByName(m))
}

func TestKeyboardBrush(t *testing.T) {
	m := update(t, newTestModel(t), sized, press(" "))
	assert.True(t, m.anchored)
	assert.Equal(t, crossfilter.Unfiltered, m.coord.State())

	m = update(t, m, repeat(press("down"), 31)...)
	m = update(t, m, repeat(press("right"), 20)...)
	assert.Equal(t, 20, m.cursorX)
	assert.Equal(t, 31, m.cursorY)
	assert.Equal(t, crossfilter.Filtered, m.coord.State())
	assert.Equal(t, map[string]bool{"Alpha": false, "Beta": true}, filteredByName(m))

	// releasing the anchor keeps the brush
	m = update(t, m, press(" "))
	assert.False(t, m.anchored)
	assert.Equal(t, crossfilter.Filtered, m.coord.State())

	m = update(t, m, press("esc"))
	assert.Equal(t, crossfilter.Unfiltered, m.coord.State())
	assert.Nil(t, m.coord.Brush())
	assert.Equal(t, map[string]bool{"Alpha": false, "Beta": false}, filteredByName(m))
}

func TestCursorStaysInPlot(t *testing.T) {
	m := update(t, newTestModel(t), sized)
	m = update(t, m, repeat(press("left"), 5)...)
	m = update(t, m, repeat(press("up"), 5)...)
	assert.Equal(t, 0, m.cursorX)
	assert.Equal(t, 0, m.cursorY)

	m = update(t, m, repeat(press("right"), 100)...)
	assert.Equal(t, 47, m.cursorX)
}

func TestSidebarFocus(t *testing.T) {
	m := update(t, newTestModel(t), sized, press("tab"))
	require.True(t, m.showSidebar)
	assert.Equal(t, sidebarWidth+1, m.layout().mapX)

	m = update(t, m, press("enter"))
	assert.Equal(t, "alpha", m.focus)
	assert.Contains(t, m.status, "Alpha")

	m = update(t, m, press("enter"))
	assert.Empty(t, m.focus)
}

func TestRegionListTracksFilter(t *testing.T) {
	m := update(t, newTestModel(t), sized,
		mouse(69, 34, tea.MouseActionPress, tea.MouseButtonLeft),
		mouse(89, 23, tea.MouseActionRelease, tea.MouseButtonNone),
	)
	descs := map[string]string{}
	for _, it := range m.regions.l.Items() {
		r := it.(regionItem)
		descs[r.title] = r.desc
	}
	assert.Equal(t, "filtered", descs["Beta"])
	assert.Equal(t, "kept  20%", descs["Alpha"])
}

func TestRecordTable(t *testing.T) {
	m := update(t, newTestModel(t), sized,
		mouse(69, 34, tea.MouseActionPress, tea.MouseButtonLeft),
		mouse(89, 23, tea.MouseActionRelease, tea.MouseButtonNone),
		press("a"),
	)
	require.True(t, m.showRecords)
	rows := m.records.tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "Alpha", "$40,000", "20.0%", "0", "false"}, []string(rows[0]))
	assert.Equal(t, "true", rows[1][5])

	m = update(t, m, press("esc"))
	assert.False(t, m.showRecords)
	// esc only closed the table
	assert.Equal(t, crossfilter.Filtered, m.coord.State())
}

func TestInspectNearest(t *testing.T) {
	m := update(t, newTestModel(t), sized)
	m = update(t, m, repeat(press("down"), 31)...)
	m = update(t, m, press("i"))
	assert.Contains(t, m.inspectPopup, "name: Alpha")
	assert.Contains(t, m.inspectPopup, "bucket: 0 #fbb4b9")

	m = update(t, m, press("esc"))
	assert.Empty(t, m.inspectPopup)
}

func TestExportKey(t *testing.T) {
	m := update(t, newTestModel(t), sized, press("e"))
	require.True(t, strings.HasPrefix(m.status, "exported: "), m.status)
	for _, name := range []string{"scatter.svg", "choropleth.svg"} {
		_, err := os.Stat(filepath.Join(m.opts.ExportDir, name))
		assert.NoError(t, err, name)
	}
}

func TestZoom(t *testing.T) {
	m := update(t, newTestModel(t), sized, press("+"))
	assert.InDelta(t, 1.2, m.cam.zoom, 1e-9)
	m = update(t, m, press("-"), press("-"))
	assert.InDelta(t, 1/1.2, m.cam.zoom, 1e-9)
	m = update(t, m, press("0"))
	assert.Equal(t, camera{zoom: 1}, m.cam)
}

func TestHoverNamesRegion(t *testing.T) {
	m := update(t, newTestModel(t), sized)
	_ = m.View()
	m = update(t, m, mouse(12, 19, tea.MouseActionMotion, tea.MouseButtonNone))
	assert.Contains(t, m.hover, "Alpha")
	assert.Contains(t, m.hover, "kept")

	m = update(t, m, mouse(75, 10, tea.MouseActionMotion, tea.MouseButtonNone))
	assert.Contains(t, m.hover, "income=")
}

func TestViewShowsPanelsAndStatus(t *testing.T) {
	m := update(t, newTestModel(t), sized)
	out := m.View()
	assert.Contains(t, out, "choropleth")
	assert.Contains(t, out, "scatterplot")
	assert.Contains(t, out, "Unfiltered 2/2")
	assert.Contains(t, out, "$40k")
	assert.Contains(t, out, "20%")

	m = update(t, m,
		mouse(69, 34, tea.MouseActionPress, tea.MouseButtonLeft),
		mouse(89, 23, tea.MouseActionRelease, tea.MouseButtonNone),
	)
	assert.Contains(t, m.View(), "Filtered 1/2")
}

func TestQuit(t *testing.T) {
	_, cmd := newTestModel(t).Update(press("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestChoroplethRasterize(t *testing.T) {
	th, err := scale.NewThreshold([]float64{0.24, 0.28, 0.32}, palette)
	require.NoError(t, err)
	v := newChoroplethView([]geom.Feature{
		square("Alpha", 0, 0, 10, 10),
		square("Beta", 10, 0, 20, 10),
	}, geom.Equirectangular{}, th, "#ffffff")

	out := v.rasterize(20, 10, camera{zoom: 1}, "")
	assert.Len(t, strings.Split(out, "\n"), 10)
	assert.Contains(t, out, string(rune(0x28FF)))

	k, ok := v.featureAt(4, 5)
	require.True(t, ok)
	assert.Equal(t, "alpha", k)
	k, ok = v.featureAt(15, 5)
	require.True(t, ok)
	assert.Equal(t, "beta", k)
	_, ok = v.featureAt(0, 0)
	assert.False(t, ok)
}

func TestScatterCellsRoundTrip(t *testing.T) {
	th, err := scale.NewThreshold([]float64{0.24, 0.28, 0.32}, palette)
	require.NoError(t, err)
	v := newScatterView(th)
	v.render([]crossfilter.Record{{Name: "A", X: 40000, Y: 0.2}, {Name: "B", X: 60000, Y: 0.35}})
	pa := plotArea{left: plotLeft, w: 48, h: 32}

	x, y := v.cellOf(pa, 40000, 0.2)
	assert.Equal(t, 0, x)
	assert.Equal(t, 31, y)

	cells := cellRect{left: 0, top: 20, right: 20, bottom: 31}
	r := v.rectFromCells(pa, cells)
	assert.Less(t, r.X0, 40000.0)
	assert.Less(t, r.Y0, 0.2)
	assert.Less(t, r.X0, r.X1)
	assert.Less(t, r.Y0, r.Y1)
	assert.Equal(t, cells, v.cellsFromRect(pa, r))
}

func TestScatterEmpty(t *testing.T) {
	v := newScatterView(scale.Threshold{})
	v.render(nil)
	assert.False(t, v.ok)
	assert.Contains(t, v.rasterize(40, 12, scatterOverlay{}), "no records")
}

func TestBlend(t *testing.T) {
	assert.Equal(t, "#ffffff", blend("#ffffff", "#000000", 0))
	assert.Equal(t, "#000000", blend("#ffffff", "#000000", 1))
	assert.Equal(t, "nope", blend("nope", "#000000", 0.5))
}

func TestScatterSingleCellIsDegenerate(t *testing.T) {
	th, err := scale.NewThreshold([]float64{0.24, 0.28, 0.32}, palette)
	require.NoError(t, err)
	v := newScatterView(th)
	v.render([]crossfilter.Record{{Name: "A", X: 40000, Y: 0.2}, {Name: "B", X: 60000, Y: 0.35}})
	pa := plotArea{left: plotLeft, w: 48, h: 32}

	assert.True(t, v.rectFromCells(pa, cellRect{left: 5, top: 5, right: 5, bottom: 5}).Degenerate())
	assert.True(t, v.rectFromCells(pa, cellRect{left: 5, top: 0, right: 5, bottom: 20}).Degenerate())
	assert.True(t, v.rectFromCells(pa, cellRect{left: 0, top: 7, right: 20, bottom: 7}).Degenerate())
	assert.False(t, v.rectFromCells(pa, cellRect{left: 5, top: 5, right: 6, bottom: 6}).Degenerate())
}

func TestPointDrawnInsideBrushIsKept(t *testing.T) {
	th, err := scale.NewThreshold([]float64{0.24, 0.28, 0.32}, palette)
	require.NoError(t, err)
	// 0.3 cells right of the centre of column 10 in a 48-column plot over
	// the 40000..60000 domain
	gammaX := 40000 + 10.3*20000.0/47
	m := New(Options{
		Records: []crossfilter.Record{
			{Name: "Alpha", X: 40000, Y: 0.20},
			{Name: "Beta", X: 60000, Y: 0.35},
			{Name: "Gamma", X: gammaX, Y: 0.25},
		},
		Threshold:  th,
		Cleared:    "#ffffff",
		Projection: geom.Equirectangular{},
	})
	m = update(t, m, sized)
	pa := m.layout().plotArea()
	gx, gy := m.scatter.cellOf(pa, gammaX, 0.25)
	require.Equal(t, 10, gx)

	// brush columns 0..10 over every row
	m = update(t, m,
		mouse(69, 34, tea.MouseActionPress, tea.MouseButtonLeft),
		mouse(79, 3, tea.MouseActionMotion, tea.MouseButtonLeft),
		mouse(79, 3, tea.MouseActionRelease, tea.MouseButtonNone),
	)
	require.Equal(t, crossfilter.Filtered, m.coord.State())

	cells := m.scatter.cellsFromRect(pa, *m.coord.Brush())
	assert.Equal(t, cellRect{left: 0, top: 0, right: 10, bottom: 31}, cells)
	assert.True(t, cells.contains(gx, gy))
	assert.Equal(t, map[string]bool{"Alpha": false, "Beta": true, "Gamma": false}, filteredByName(m))
}
