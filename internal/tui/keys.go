package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Cursor  key.Binding
	Anchor  key.Binding
	Clear   key.Binding
	Pan     key.Binding
	Zoom    key.Binding
	Regions key.Binding
	Records key.Binding
	Inspect key.Binding
	Export  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Cursor:  key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("↑↓←→", "cursor")),
	Anchor:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "anchor")),
	Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	Pan:     key.NewBinding(key.WithKeys("ctrl+up", "ctrl+down", "ctrl+left", "ctrl+right"), key.WithHelp("ctrl+↑↓←→", "pan")),
	Zoom:    key.NewBinding(key.WithKeys("+", "=", "-", "_", "0"), key.WithHelp("+/-/0", "zoom")),
	Regions: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "regions")),
	Records: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "records")),
	Inspect: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inspect")),
	Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	Help:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cursor, k.Anchor, k.Clear, k.Pan, k.Zoom, k.Regions, k.Records, k.Inspect, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newHelp() help.Model {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = h.Styles.ShortKey.Foreground(baseDimFg)
	h.Styles.ShortDesc = dimStyle
	return h
}
