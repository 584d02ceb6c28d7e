package geom

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var fold = cases.Fold()

// Key normalizes a region name for matching: trimmed, NFC, case-folded.
func Key(name string) string {
	return fold.String(norm.NFC.String(strings.TrimSpace(name)))
}
