package tui

import (
	"sort"

	list "github.com/charmbracelet/bubbles/list"

	"linkmap/internal/crossfilter"
	"linkmap/internal/geom"
	"linkmap/internal/scale"
)

const sidebarWidth = 28

type regionItem struct {
	title, desc string
	key         string
}

func (r regionItem) Title() string       { return r.title }
func (r regionItem) Description() string { return r.desc }
func (r regionItem) FilterValue() string { return r.title }

// regionList is the sidebar of records sorted by name.
type regionList struct {
	l list.Model
}

func newRegionList() *regionList {
	d := list.NewDefaultDelegate()
	l := list.New(nil, d, 0, 0)
	l.Title = "Regions"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return &regionList{l: l}
}

func (r *regionList) render(records []crossfilter.Record) {
	items := make([]list.Item, 0, len(records))
	for _, rec := range records {
		desc := "kept  " + scale.FormatPercent(rec.Y)
		if rec.Filtered {
			desc = "filtered"
		}
		items = append(items, regionItem{title: rec.Name, desc: desc, key: geom.Key(rec.Name)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].(regionItem).Title() < items[j].(regionItem).Title()
	})
	r.l.SetItems(items)
}

func (r *regionList) selected() (regionItem, bool) {
	it, ok := r.l.SelectedItem().(regionItem)
	return it, ok
}
