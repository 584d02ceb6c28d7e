// Package scale maps data values to screen positions and colors.
package scale

import "math"

// Linear is a continuous linear mapping from a data domain to a screen range.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear returns a scale from [d0,d1] onto [r0,r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Scale maps a domain value to the range. A zero-width domain maps every
// value to the middle of the range.
func (s Linear) Scale(v float64) float64 {
	span := s.D1 - s.D0
	if span == 0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/span*(s.R1-s.R0)
}

// Invert maps a range value back to the domain.
func (s Linear) Invert(px float64) float64 {
	span := s.R1 - s.R0
	if span == 0 {
		return (s.D0 + s.D1) / 2
	}
	return s.D0 + (px-s.R0)/span*(s.D1-s.D0)
}

// WithRange returns a copy of s mapping onto [r0,r1].
func (s Linear) WithRange(r0, r1 float64) Linear {
	s.R0, s.R1 = r0, r1
	return s
}

// Nice extends the domain outward to round tick values, iterating until the
// tick step stabilizes.
func (s Linear) Nice(count int) Linear {
	start, stop := s.D0, s.D1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	var prestep float64
	for iter := 0; iter < 10; iter++ {
		step := tickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			iter = 10
		}
		prestep = step
	}
	if reversed {
		start, stop = stop, start
	}
	s.D0, s.D1 = start, stop
	return s
}

// Ticks returns roughly count round values within the domain.
func (s Linear) Ticks(count int) []float64 {
	start, stop := s.D0, s.D1
	if stop < start {
		start, stop = stop, start
	}
	if start == stop {
		return []float64{start}
	}
	step := tickIncrement(start, stop, count)
	var out []float64
	switch {
	case step > 0:
		i0, i1 := math.Ceil(start/step), math.Floor(stop/step)
		for i := i0; i <= i1; i++ {
			out = append(out, i*step)
		}
	case step < 0:
		inc := -step
		i0, i1 := math.Ceil(start*inc), math.Floor(stop*inc)
		for i := i0; i <= i1; i++ {
			out = append(out, i/inc)
		}
	}
	return out
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement returns a 1/2/5 x 10^k step. Negative results encode the
// reciprocal of a fractional step to keep the arithmetic exact.
func tickIncrement(start, stop float64, count int) float64 {
	if count <= 0 || stop <= start {
		return 0
	}
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	errRatio := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errRatio >= e10:
		factor = 10
	case errRatio >= e5:
		factor = 5
	case errRatio >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// Extent returns the min and max of values produced by fn over n items.
// ok is false when n is zero.
func Extent(n int, fn func(i int) float64) (lo, hi float64, ok bool) {
	for i := 0; i < n; i++ {
		v := fn(i)
		if math.IsNaN(v) {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, ok
}
