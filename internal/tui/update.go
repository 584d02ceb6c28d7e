package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"linkmap/internal/crossfilter"
	"linkmap/internal/export"
	"linkmap/internal/geom"
	"linkmap/internal/scale"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeWidgets()
		m.clampCursor()
	case tea.KeyMsg:
		// While the sidebar filter is open every key belongs to the list.
		if m.showSidebar && m.regions.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.regions.l, cmd = m.regions.l.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil
	case key.Matches(msg, keys.Records):
		m.showRecords = !m.showRecords
		if m.showRecords {
			m.inspectPopup = ""
			m.status = fmt.Sprintf("records: %d", len(m.coord.Records()))
		}
		return m, nil
	case key.Matches(msg, keys.Regions):
		m.showSidebar = !m.showSidebar
		m.resizeWidgets()
		m.clampCursor()
		return m, nil
	}

	if m.showRecords {
		if key.Matches(msg, keys.Clear) {
			m.showRecords = false
			return m, nil
		}
		var cmd tea.Cmd
		m.records.tbl, cmd = m.records.tbl.Update(msg)
		return m, cmd
	}

	if m.showSidebar {
		switch k {
		case "up", "down", "k", "j", "pgup", "pgdown", "home", "end", "/":
			var cmd tea.Cmd
			m.regions.l, cmd = m.regions.l.Update(msg)
			return m, cmd
		case "enter":
			if it, ok := m.regions.selected(); ok {
				if m.focus == it.key {
					m.focus = ""
					m.status = "focus cleared"
				} else {
					m.focus = it.key
					m.status = "focus: " + it.title
				}
			}
			return m, nil
		}
	}

	switch k {
	case "up":
		m.moveCursor(0, -1)
	case "down":
		m.moveCursor(0, 1)
	case "left":
		m.moveCursor(-1, 0)
	case "right":
		m.moveCursor(1, 0)
	case " ", "space":
		if m.anchored {
			m.anchored = false
			m.status = m.brushStatus("brush set")
		} else {
			m.anchored = true
			m.anchorX, m.anchorY = m.cursorX, m.cursorY
			m.brushTo(m.cursorX, m.cursorY)
			m.status = "brush anchored"
		}
	case "esc":
		if m.inspectPopup != "" {
			m.inspectPopup = ""
			return m, nil
		}
		m.anchored = false
		m.dragging = false
		m.coord.ApplyBrush(nil)
		m.status = m.brushStatus("brush cleared")
	case "ctrl+up":
		m.cam.offsetY++
	case "ctrl+down":
		m.cam.offsetY--
	case "ctrl+left":
		m.cam.offsetX++
	case "ctrl+right":
		m.cam.offsetX--
	case "+", "=":
		if m.cam.zoom < 64 {
			m.cam.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.cam.zoom)
		}
	case "-", "_":
		if m.cam.zoom > 0.05 {
			m.cam.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.cam.zoom)
		}
	case "0":
		m.cam = camera{zoom: 1.0}
		m.status = "view reset"
	case "i":
		m.inspect()
	case "e":
		m.export()
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	l := m.layout()
	px, py, inPlot := l.plotCell(msg.X, msg.Y)

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inPlot:
		m.dragging = true
		m.anchored = false
		m.anchorX, m.anchorY = px, py
		m.cursorX, m.cursorY = px, py
		m.brushTo(px, py)
		m.status = "brushing"
	case msg.Action == tea.MouseActionMotion && m.dragging:
		pa := l.plotArea()
		m.cursorX, m.cursorY = clamp(px, 0, pa.w-1), clamp(py, 0, pa.h-1)
		m.brushTo(m.cursorX, m.cursorY)
	case msg.Action == tea.MouseActionRelease && m.dragging:
		pa := l.plotArea()
		m.dragging = false
		m.cursorX, m.cursorY = clamp(px, 0, pa.w-1), clamp(py, 0, pa.h-1)
		m.brushTo(m.cursorX, m.cursorY)
		m.status = m.brushStatus("brush set")
	case msg.Button == tea.MouseButtonWheelUp:
		if _, _, ok := l.mapCell(msg.X, msg.Y); ok && m.cam.zoom < 64 {
			m.cam.zoom *= 1.2
		}
	case msg.Button == tea.MouseButtonWheelDown:
		if _, _, ok := l.mapCell(msg.X, msg.Y); ok && m.cam.zoom > 0.05 {
			m.cam.zoom /= 1.2
		}
	}
	m.updateHover(l, msg.X, msg.Y)
}

func (m *Model) updateHover(l layout, sx, sy int) {
	m.hover = ""
	if mx, my, ok := l.mapCell(sx, sy); ok {
		if region, ok := m.choro.featureAt(mx, my); ok {
			m.hover = m.describe(region, m.choro.name(region))
		}
		return
	}
	if px, py, ok := l.plotCell(sx, sy); ok && m.scatter.ok {
		xs, ys := m.scatter.scales(l.plotArea())
		m.hover = fmt.Sprintf("income=%s obesity=%.1f%%",
			scale.FormatDollars(xs.Invert(float64(px))), ys.Invert(float64(py))*100)
	}
}

// describe summarizes the record behind a region key.
func (m Model) describe(region, fallback string) string {
	for _, rec := range m.coord.Records() {
		if geom.Key(rec.Name) != region {
			continue
		}
		state := "kept"
		if rec.Filtered {
			state = "filtered"
		}
		return fmt.Sprintf("%s  %s  %.1f%%  %s", rec.Name, scale.FormatDollars(rec.X), rec.Y*100, state)
	}
	return fallback + "  no data"
}

func (m *Model) moveCursor(dx, dy int) {
	m.cursorX += dx
	m.cursorY += dy
	m.clampCursor()
	if m.anchored {
		m.brushTo(m.cursorX, m.cursorY)
		m.status = m.brushStatus("brushing")
	}
}

func (m *Model) clampCursor() {
	pa := m.layout().plotArea()
	m.cursorX = clamp(m.cursorX, 0, pa.w-1)
	m.cursorY = clamp(m.cursorY, 0, pa.h-1)
	m.anchorX = clamp(m.anchorX, 0, pa.w-1)
	m.anchorY = clamp(m.anchorY, 0, pa.h-1)
}

// brushTo forwards the rectangle between the anchor and (x, y) to the
// coordinator. A single cell has zero extent and clears the filters.
func (m *Model) brushTo(x, y int) {
	if !m.scatter.ok {
		return
	}
	r := cellRect{
		left:   min(m.anchorX, x),
		right:  max(m.anchorX, x),
		top:    min(m.anchorY, y),
		bottom: max(m.anchorY, y),
	}
	rect := m.scatter.rectFromCells(m.layout().plotArea(), r)
	m.coord.ApplyBrush(&rect)
}

func (m Model) brushStatus(prefix string) string {
	recs := m.coord.Records()
	return fmt.Sprintf("%s  %s %d/%d", prefix, m.coord.State(), crossfilter.Kept(recs), len(recs))
}

// inspect opens a popup for the record nearest the cursor.
func (m *Model) inspect() {
	pa := m.layout().plotArea()
	i, ok := m.scatter.nearest(pa, m.cursorX, m.cursorY)
	recs := m.coord.Records()
	if !ok || i >= len(recs) {
		m.inspectPopup = "no record nearby"
		m.status = m.inspectPopup
		return
	}
	rec := recs[i]
	th := m.opts.Threshold
	meta := []string{
		fmt.Sprintf("name: %s", rec.Name),
		fmt.Sprintf("income: %s", scale.FormatDollars(rec.X)),
		fmt.Sprintf("obesity: %.1f%%", rec.Y*100),
		fmt.Sprintf("bucket: %d %s", th.Bucket(rec.Y), th.Color(rec.Y)),
		fmt.Sprintf("filtered: %v", rec.Filtered),
	}
	if b := m.coord.Brush(); b != nil {
		meta = append(meta, fmt.Sprintf("brush: %s..%s x %s..%s",
			scale.FormatCurrencySI(b.X0), scale.FormatCurrencySI(b.X1),
			scale.FormatPercent(b.Y0), scale.FormatPercent(b.Y1)))
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect: " + rec.Name
}

func (m *Model) export() {
	paths, err := export.WriteFiles(m.opts.ExportDir, m.opts.ExportFormat, m.panels())
	if err != nil {
		m.log.Error("export failed", zap.Error(err))
		m.status = "export error: " + err.Error()
		return
	}
	m.status = "exported: " + strings.Join(paths, ", ")
}

func (m *Model) resizeWidgets() {
	l := m.layout()
	if m.showSidebar {
		m.regions.l.SetSize(sidebarWidth-2, l.contentH-2)
	}
	m.records.tbl.SetHeight(max(3, min(l.contentH-4, 20)))
}
