package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"linkmap/internal/crossfilter"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()

	header := titleStyle.Render(" linkmap ─ choropleth + scatterplot ")
	header = lipgloss.NewStyle().Width(l.contentW).Render(header)

	var body string
	if m.showRecords {
		w := min(l.contentW-l.sidebarW, m.records.width()+4)
		m.records.tbl.SetWidth(w - 4)
		box := boxStyle.Width(w - 2).Render(m.records.tbl.View())
		body = lipgloss.Place(l.contentW-l.sidebarW, l.contentH, lipgloss.Center, lipgloss.Center, box)
	} else {
		mapPanel := m.panel(l, "choropleth", m.choro.rasterize(l.canvasW, l.canvasH, m.cam, m.focus))
		scatterPanel := m.panel(l, "scatterplot", m.scatter.rasterize(l.canvasW, l.canvasH, m.overlay(l)))
		body = lipgloss.JoinHorizontal(lipgloss.Top, mapPanel, " ", scatterPanel)
	}
	if m.showSidebar {
		sidebar := lipgloss.NewStyle().Width(sidebarWidth).Height(l.contentH).Render(m.regions.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", body)
	}
	if m.inspectPopup != "" && !m.showRecords {
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentFg).
			Padding(0, 1).MaxWidth(max(20, min(48, l.contentW/2))).Render(m.inspectPopup)
		body = lipgloss.Place(l.contentW, l.contentH, lipgloss.Center, lipgloss.Center, box)
	}

	footer := lipgloss.JoinVertical(lipgloss.Left, m.renderStatus(l), m.renderHelp(l))
	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(l.contentW).Height(m.height).Render(ui)
}

// panel frames a canvas with a title row.
func (m Model) panel(l layout, title, canvas string) string {
	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), canvas)
	return boxStyle.Width(l.panelW - 2).Height(l.contentH - 2).Render(content)
}

func (m Model) overlay(l layout) scatterOverlay {
	ov := scatterOverlay{
		cursor:     [2]int{m.cursorX, m.cursorY},
		showCursor: !m.dragging,
		focus:      m.focus,
	}
	switch {
	case m.anchored || m.dragging:
		r := cellRect{
			left:   min(m.anchorX, m.cursorX),
			right:  max(m.anchorX, m.cursorX),
			top:    min(m.anchorY, m.cursorY),
			bottom: max(m.anchorY, m.cursorY),
		}
		ov.brush = &r
	case m.coord.Brush() != nil:
		r := m.scatter.cellsFromRect(l.plotArea(), *m.coord.Brush())
		ov.brush = &r
	}
	return ov
}

func (m Model) renderStatus(l layout) string {
	recs := m.coord.Records()
	state := fmt.Sprintf(" %s %d/%d ", m.coord.State(), crossfilter.Kept(recs), len(recs))
	stateStyle := dimStyle
	if m.coord.State() == crossfilter.Filtered {
		stateStyle = titleStyle
	}
	left := stateStyle.Render(state) + dimStyle.Render(" "+m.status+" ")
	right := ""
	if m.hover != "" {
		right = dimStyle.Render("  " + m.hover + "  ")
	}
	spacer := max(0, l.contentW-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", spacer) + right
}

func (m Model) renderHelp(l layout) string {
	if !m.helpVisible {
		return ""
	}
	h := newHelp()
	h.Width = l.contentW - 2
	return "  " + h.ShortHelpView(keys.ShortHelp())
}
