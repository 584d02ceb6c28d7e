package tui

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	cursorFg  = lipgloss.Color("#FFA500")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	axisStyle  = lipgloss.NewStyle().Foreground(baseDimFg)
)

// canvasBg approximates the terminal background for blending.
const canvasBg = "#0B0F14"

// brushBg tints cells inside the brush rectangle.
var brushBg = lipgloss.Color(blend(string(accentFg), canvasBg, 0.7))

// blend mixes fg toward bg by t in [0,1]; t=0.5 stands in for half opacity.
// Unparseable colors are returned unchanged.
func blend(fg, bg string, t float64) string {
	a, err := colorful.Hex(fg)
	if err != nil {
		return fg
	}
	b, err := colorful.Hex(bg)
	if err != nil {
		return fg
	}
	return a.BlendRgb(b, t).Clamped().Hex()
}
