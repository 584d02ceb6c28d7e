package loader

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"linkmap/internal/crossfilter"
)

var (
	// ErrEmptyDataset is returned when the tabular source has no data rows.
	ErrEmptyDataset = eris.New("loader: dataset has no rows")
	// ErrMissingColumns is returned when a required column is absent.
	ErrMissingColumns = eris.New("loader: required columns state, obesity, income not found")
)

// row is one line of the tabular dataset.
type row struct {
	State   string  `csv:"state"`
	Obesity float64 `csv:"obesity"`
	Income  float64 `csv:"income"`
}

// DecodeRecords parses delimited text with state, obesity and income columns.
// Header names are matched case-insensitively; extra columns are ignored. The
// x metric is income and the y metric obesity.
func DecodeRecords(r io.Reader) ([]crossfilter.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, eris.Wrap(err, "loader: read header")
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	if !hasColumns(header, "state", "obesity", "income") {
		return nil, ErrMissingColumns
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, eris.Wrap(err, "loader: csv decoder")
	}
	var out []crossfilter.Record
	for line := 2; ; line++ {
		var rw row
		if err := dec.Decode(&rw); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "loader: decode line %d", line)
		}
		out = append(out, crossfilter.Record{
			Name: strings.TrimSpace(rw.State),
			X:    rw.Income,
			Y:    rw.Obesity,
		})
	}
	if len(out) == 0 {
		return nil, ErrEmptyDataset
	}
	return out, nil
}

func hasColumns(header []string, want ...string) bool {
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		seen[h] = true
	}
	for _, w := range want {
		if !seen[w] {
			return false
		}
	}
	return true
}
