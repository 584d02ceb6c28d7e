package scale

import (
	"fmt"
	"math"

	humanize "github.com/dustin/go-humanize"
)

// FormatCurrencySI renders v as dollars with two significant digits and an SI
// suffix: 45000 -> "$45k", 1500 -> "$1.5k".
func FormatCurrencySI(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v == 0 {
		return sign + "$0.0"
	}
	// round to two significant digits before picking the SI prefix so 9990
	// becomes $10k rather than $10.0k
	step := math.Pow(10, math.Floor(math.Log10(v))-1)
	v = math.Round(v/step) * step
	value, prefix := humanize.ComputeSI(v)
	var num string
	switch {
	case value >= 10:
		num = fmt.Sprintf("%.0f", value)
	default:
		num = fmt.Sprintf("%.1f", value)
	}
	return sign + "$" + num + prefix
}

// FormatPercent renders a fraction as a whole percentage: 0.3 -> "30%".
func FormatPercent(v float64) string {
	p := math.Round(v * 100)
	if p == 0 {
		p = 0 // drop the sign of -0
	}
	return fmt.Sprintf("%.0f%%", p)
}

// FormatDollars renders v with thousands separators: 45000 -> "$45,000".
func FormatDollars(v float64) string {
	return "$" + humanize.Commaf(math.Round(v))
}
