package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"

	"linkmap/internal/crossfilter"
	"linkmap/internal/geom"
	"linkmap/internal/scale"
)

func testPanels(t *testing.T) Panels {
	t.Helper()
	th, err := scale.NewThreshold([]float64{0.24, 0.28, 0.32}, []string{"#fbb4b9", "#f768a1", "#c51b8a", "#7a0177"})
	require.NoError(t, err)
	return Panels{
		Records: []crossfilter.Record{
			{Name: "Colorado", X: 62520, Y: 0.30},
			{Name: "Alabama", X: 44765, Y: 0.357},
		},
		Features: []geom.Feature{
			{Name: "Colorado", Polygons: [][][][2]float64{{{{-109, 41}, {-102, 41}, {-102, 37}, {-109, 37}}}}},
			{Name: "Alabama", Polygons: [][][][2]float64{{{{-88.5, 35}, {-85, 35}, {-85, 31}, {-88.5, 31}}}}},
			{Name: "Atlantis", Polygons: [][][][2]float64{{{{-100, 30}, {-99, 30}, {-99, 29}}}}},
		},
		Threshold:  th,
		Cleared:    "#ffffff",
		Projection: geom.NewAlbersUSA(),
		Width:      480,
		Height:     350,
	}
}

func TestScatterSVG(t *testing.T) {
	p := testPanels(t)
	var buf bytes.Buffer
	require.NoError(t, Scatter(&buf, chart.SVG, p))

	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<svg"))
	assert.Contains(t, out, xAxisLabel)
	assert.Contains(t, out, yAxisLabel)
	assert.Contains(t, out, "$60k")
	assert.Contains(t, out, "30%")

	// y domain 0.30..0.36 spans the top two buckets only
	assert.Contains(t, out, bandColor("#c51b8a").String())
	assert.Contains(t, out, bandColor("#7a0177").String())
	assert.NotContains(t, out, bandColor("#fbb4b9").String())
}

func TestBandSeries(t *testing.T) {
	th := testPanels(t).Threshold
	xs := scale.NewLinear(40000, 60000, 0, 1)
	ys := scale.NewLinear(0.2, 0.36, 0, 1)

	series := bandSeries(th, xs, ys)
	require.Len(t, series, 4)
	var tops []float64
	for _, s := range series {
		cs, ok := s.(chart.ContinuousSeries)
		require.True(t, ok)
		assert.Equal(t, []float64{40000, 60000}, cs.XValues)
		tops = append(tops, cs.YValues[0])
	}
	// drawn top first so lower bands paint over the fill of higher ones
	assert.Equal(t, []float64{0.36, 0.32, 0.28, 0.24}, tops)
	assert.Equal(t, bandColor("#7a0177"), series[0].(chart.ContinuousSeries).Style.FillColor)
	assert.Equal(t, bandColor("#fbb4b9"), series[3].(chart.ContinuousSeries).Style.FillColor)
}

func TestScatterSingleRecord(t *testing.T) {
	p := testPanels(t)
	p.Records = p.Records[:1]
	var buf bytes.Buffer
	assert.NoError(t, Scatter(&buf, chart.SVG, p))
}

func TestScatterNoRecords(t *testing.T) {
	p := testPanels(t)
	p.Records = nil
	assert.Error(t, Scatter(&bytes.Buffer{}, chart.SVG, p))
}

func TestChoroplethColors(t *testing.T) {
	p := testPanels(t)

	var unfiltered bytes.Buffer
	require.NoError(t, Choropleth(&unfiltered, chart.SVG, p))
	assert.Contains(t, unfiltered.String(), hexColor("#c51b8a").String())
	assert.Contains(t, unfiltered.String(), hexColor("#7a0177").String())

	p.Records[1].Filtered = true
	var filtered bytes.Buffer
	require.NoError(t, Choropleth(&filtered, chart.SVG, p))
	assert.NotContains(t, filtered.String(), hexColor("#7a0177").String())
	assert.NotEqual(t, unfiltered.String(), filtered.String())
}

func TestChoroplethEquirectangularFit(t *testing.T) {
	p := testPanels(t)
	p.Projection = geom.Equirectangular{}
	var buf bytes.Buffer
	require.NoError(t, Choropleth(&buf, chart.SVG, p))
	assert.Contains(t, buf.String(), "<svg")
}

func TestFitViewport(t *testing.T) {
	vp := fitViewport(geom.NewAlbersUSA(), nil, 480, 350)
	x, y := vp.apply([2]float64{0, 0})
	assert.Equal(t, 240, x)
	assert.Equal(t, 175, y)

	projected := []geom.Feature{{BBox: geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, Polygons: [][][][2]float64{{}}}}
	vp = fitViewport(geom.Equirectangular{}, projected, 100, 100)
	x, y = vp.apply([2]float64{5, 5})
	assert.Equal(t, 50, x)
	assert.Equal(t, 50, y)
	_, top := vp.apply([2]float64{5, 10})
	assert.Less(t, top, y, "north is up")
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteFiles(dir, "png", testPanels(t))
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "scatter.png"), paths[0])
	assert.Equal(t, filepath.Join(dir, "choropleth.png"), paths[1])
	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), p)
	}

	_, err = WriteFiles(dir, "gif", testPanels(t))
	assert.Error(t, err)
}
