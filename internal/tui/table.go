package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"linkmap/internal/crossfilter"
	"linkmap/internal/scale"
)

// recordTable is the attributes view over all records. It is registered as a
// view so the filtered column tracks every brush.
type recordTable struct {
	tbl table.Model
	th  scale.Threshold
}

func newRecordTable(th scale.Threshold) *recordTable {
	t := &recordTable{th: th}
	t.tbl = table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "state", Width: 22},
			{Title: "income", Width: 10},
			{Title: "obesity", Width: 8},
			{Title: "bucket", Width: 7},
			{Title: "filtered", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return t
}

func (t *recordTable) render(records []crossfilter.Record) {
	rows := make([]table.Row, 0, len(records))
	for i, rec := range records {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			rec.Name,
			scale.FormatDollars(rec.X),
			fmt.Sprintf("%.1f%%", rec.Y*100),
			fmt.Sprintf("%d", t.th.Bucket(rec.Y)),
			fmt.Sprintf("%v", rec.Filtered),
		})
	}
	t.tbl.SetRows(rows)
}

// width is the table's natural width including cell padding.
func (t *recordTable) width() int {
	w := 0
	for _, c := range t.tbl.Columns() {
		w += c.Width + 2
	}
	return w
}
