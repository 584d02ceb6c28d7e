// Package crossfilter holds the shared filter state that links the scatter
// and choropleth panels.
package crossfilter

// Record is one row of the tabular dataset. X and Y are the two plotted
// metrics (income and obesity in the bundled dataset).
//
// Filtered reports whether the record lies outside the current brush. It is
// written only by the Coordinator.
type Record struct {
	Name     string
	X        float64
	Y        float64
	Filtered bool
}

// Rect is a brush selection in data-value space.
type Rect struct {
	X0, X1 float64
	Y0, Y1 float64
}

// Degenerate reports a zero-width or zero-height selection, the signal for a
// cleared brush.
func (r Rect) Degenerate() bool {
	return r.X0 == r.X1 || r.Y0 == r.Y1
}

// Excludes reports whether rec falls outside r. The bounds are compared as
// given; an inverted rectangle is not normalized.
func (r Rect) Excludes(rec Record) bool {
	return rec.X < r.X0 || rec.X > r.X1 || rec.Y < r.Y0 || rec.Y > r.Y1
}

// Kept counts records whose Filtered flag is false.
func Kept(records []Record) int {
	n := 0
	for i := range records {
		if !records[i].Filtered {
			n++
		}
	}
	return n
}
