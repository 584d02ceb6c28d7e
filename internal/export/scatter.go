package export

import (
	"io"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rotisserie/eris"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"linkmap/internal/scale"
)

// Scatter margins around the plot area.
var scatterMargin = chart.Box{Top: 10, Right: 15, Bottom: 40, Left: 75}

const (
	xAxisLabel = "Variable 1 (Magnitud)"
	yAxisLabel = "Variable 2 (Porcentaje)"
)

// Scatter renders records as dots: kept records opaque and larger, filtered
// records at half opacity.
func Scatter(w io.Writer, rp chart.RendererProvider, p Panels) error {
	if len(p.Records) == 0 {
		return eris.New("export: no records to plot")
	}
	n := len(p.Records)
	x0, x1, _ := scale.Extent(n, func(i int) float64 { return p.Records[i].X })
	y0, y1, _ := scale.Extent(n, func(i int) float64 { return p.Records[i].Y })
	xs := widen(scale.NewLinear(x0, x1, 0, 1).Nice(10))
	ys := widen(scale.NewLinear(y0, y1, 0, 1).Nice(10))

	series := bandSeries(p.Threshold, xs, ys)
	for _, filtered := range []bool{true, false} {
		var xv, yv []float64
		for _, r := range p.Records {
			if r.Filtered == filtered {
				xv = append(xv, r.X)
				yv = append(yv, r.Y)
			}
		}
		if len(xv) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    seriesName(filtered),
			XValues: xv,
			YValues: yv,
			Style:   dotStyle(p.Threshold, filtered),
		})
	}

	ch := chart.Chart{
		Width:      p.Width,
		Height:     p.Height,
		Background: chart.Style{Padding: scatterMargin},
		XAxis: chart.XAxis{
			Name:  xAxisLabel,
			Range: &chart.ContinuousRange{Min: xs.D0, Max: xs.D1},
			Ticks: ticks(xs, scale.FormatCurrencySI),
		},
		YAxis: chart.YAxis{
			Name:  yAxisLabel,
			Range: &chart.ContinuousRange{Min: ys.D0, Max: ys.D1},
			Ticks: ticks(ys, scale.FormatPercent),
		},
		Series: series,
	}
	if err := ch.Render(rp, w); err != nil {
		return eris.Wrap(err, "export: render scatter")
	}
	return nil
}

// bandSeries fills one background band per threshold bucket inside the y
// domain. go-chart fills a line series down to the axis, so bands are emitted
// top first and each lower band paints over the one above it.
func bandSeries(th scale.Threshold, xs, ys scale.Linear) []chart.Series {
	bands := th.Bands(ys.D0, ys.D1)
	var out []chart.Series
	for i := len(bands) - 1; i >= 0; i-- {
		lo, hi := math.Max(bands[i].Lo, ys.D0), math.Min(bands[i].Hi, ys.D1)
		if hi <= lo {
			continue
		}
		out = append(out, chart.ContinuousSeries{
			Name:    "band",
			XValues: []float64{xs.D0, xs.D1},
			YValues: []float64{hi, hi},
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				FillColor:   bandColor(th.Color(lo)),
			},
		})
	}
	return out
}

// bandColor lightens a bucket color toward white so dots stay legible.
func bandColor(hex string) drawing.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hexColor(hex)
	}
	return hexColor(c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.6).Clamped().Hex())
}

func seriesName(filtered bool) string {
	if filtered {
		return "filtered"
	}
	return "kept"
}

// dotStyle draws points only, colored by the y bucket.
func dotStyle(th scale.Threshold, filtered bool) chart.Style {
	width := 5.0
	alpha := uint8(255)
	if filtered {
		width = 4
		alpha = 128
	}
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    width,
		DotColorProvider: func(_, _ chart.Range, _ int, _, y float64) drawing.Color {
			return hexColor(th.Color(y)).WithAlpha(alpha)
		},
	}
}

func ticks(s scale.Linear, format func(float64) string) []chart.Tick {
	var out []chart.Tick
	for _, v := range s.Ticks(5) {
		out = append(out, chart.Tick{Value: v, Label: format(v)})
	}
	return out
}

// widen opens a zero-width domain so the axis has a range to draw.
func widen(s scale.Linear) scale.Linear {
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
