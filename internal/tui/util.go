package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// styledRun accumulates adjacent cells that share a style so a row renders
// with one escape sequence per run instead of one per cell.
type styledRun struct {
	out   strings.Builder
	buf   []rune
	style lipgloss.Style
	key   string
}

func (r *styledRun) add(ch rune, key string, style lipgloss.Style) {
	if key != r.key {
		r.flush()
		r.key = key
		r.style = style
	}
	r.buf = append(r.buf, ch)
}

func (r *styledRun) flush() {
	if len(r.buf) == 0 {
		return
	}
	if r.key == "" {
		r.out.WriteString(string(r.buf))
	} else {
		r.out.WriteString(r.style.Render(string(r.buf)))
	}
	r.buf = r.buf[:0]
}

func (r *styledRun) String() string {
	r.flush()
	return r.out.String()
}
