package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"linkmap/internal/crossfilter"
	"linkmap/internal/export"
	"linkmap/internal/geom"
	"linkmap/internal/scale"
)

const (
	headerHeight = 1
	footerHeight = 2
)

// Options configures a Model.
type Options struct {
	Records    []crossfilter.Record
	Features   []geom.Feature
	Threshold  scale.Threshold
	Cleared    string
	Projection geom.Projection

	ExportDir    string
	ExportFormat string
	ExportWidth  int
	ExportHeight int
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	cam camera

	status string

	coord   *crossfilter.Coordinator
	choro   *choroplethView
	scatter *scatterView
	records *recordTable
	regions *regionList

	opts Options

	// keyboard brush: cursor and optional anchor, in plot cells
	cursorX  int
	cursorY  int
	anchored bool
	anchorX  int
	anchorY  int

	// mouse brush in progress
	dragging bool

	// region highlighted from the sidebar
	focus string

	inspectPopup string
	showRecords  bool

	hover string

	log *zap.Logger
}

// New builds the views, registers them with a fresh coordinator and performs
// the initial render.
func New(opts Options) Model {
	m := Model{
		helpVisible: true,
		cam:         camera{zoom: 1.0},
		status:      "linkmap ready",
		coord:       crossfilter.NewCoordinator(),
		choro:       newChoroplethView(opts.Features, opts.Projection, opts.Threshold, opts.Cleared),
		scatter:     newScatterView(opts.Threshold),
		records:     newRecordTable(opts.Threshold),
		regions:     newRegionList(),
		opts:        opts,
		log:         zap.L().With(zap.String("component", "tui")),
	}
	m.coord.Register(m.scatter.render)
	m.coord.Register(m.choro.render)
	m.coord.Register(m.records.render)
	m.coord.Register(m.regions.render)
	m.coord.Initialize(opts.Records, opts.Features)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Coordinator exposes the cross-filter driving this model.
func (m Model) Coordinator() *crossfilter.Coordinator { return m.coord }

func (m Model) panels() export.Panels {
	return export.Panels{
		Records:    m.coord.Records(),
		Features:   m.coord.Features(),
		Threshold:  m.opts.Threshold,
		Cleared:    m.opts.Cleared,
		Projection: m.opts.Projection,
		Width:      m.opts.ExportWidth,
		Height:     m.opts.ExportHeight,
	}
}

// layout is the screen geometry shared by View and mouse handling.
type layout struct {
	sidebarW int
	contentW int
	contentH int
	panelW   int
	mapX     int
	scatterX int
	top      int
	canvasW  int
	canvasH  int
}

func (m Model) layout() layout {
	l := layout{top: headerHeight}
	l.contentW = max(40, m.width)
	l.contentH = max(8, m.height-headerHeight-footerHeight)
	avail := l.contentW
	if m.showSidebar {
		l.sidebarW = sidebarWidth
		avail -= sidebarWidth + 1
		l.mapX = sidebarWidth + 1
	}
	l.panelW = max(20, (avail-1)/2)
	l.scatterX = l.mapX + l.panelW + 1
	// border + padding on each side; border + title row on top, border below
	l.canvasW = l.panelW - 4
	l.canvasH = l.contentH - 3
	return l
}

// canvasOrigin returns the screen cell of a panel's canvas top-left corner.
func (l layout) canvasOrigin(panelX int) (int, int) {
	return panelX + 2, l.top + 2
}

func (l layout) plotArea() plotArea {
	return newPlotArea(l.canvasW, l.canvasH)
}

// plotCell converts a screen cell to scatter plot cell coordinates.
func (l layout) plotCell(sx, sy int) (int, int, bool) {
	ox, oy := l.canvasOrigin(l.scatterX)
	pa := l.plotArea()
	x := sx - ox - pa.left
	y := sy - oy - pa.top
	return x, y, x >= 0 && y >= 0 && x < pa.w && y < pa.h
}

// mapCell converts a screen cell to choropleth canvas coordinates.
func (l layout) mapCell(sx, sy int) (int, int, bool) {
	ox, oy := l.canvasOrigin(l.mapX)
	x, y := sx-ox, sy-oy
	return x, y, x >= 0 && y >= 0 && x < l.canvasW && y < l.canvasH
}
