package reshape

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/ginjaninja78/storeorders/internal/types"
)

// DefaultBoundaryLabel is the header that closes the store column run.
const DefaultBoundaryLabel = "TOPLAM"

// ErrNoStoreColumns is returned when no header matches the store pattern.
// A dataset in this state must not be reshaped.
var ErrNoStoreColumns = errors.New("no store columns found")

// storeLabelPattern matches a full store label: a 3-4 digit store code,
// optional whitespace, then the store type letters ("798 MM", "5776M").
var storeLabelPattern = regexp.MustCompile(`^(\d{3,4})\s*([A-Z]+)$`)

// Classification is the outcome of scanning a header row for store columns.
type Classification struct {
	// Columns lists every matching label in header order.
	Columns []types.StoreColumn

	// Start is the position of the first store column, or -1.
	Start int

	// Boundary is the position of the boundary column that ended the scan,
	// or -1 when the scan ran to the end of the header row.
	Boundary int
}

// Found reports whether at least one store column was classified.
func (c Classification) Found() bool {
	return len(c.Columns) > 0
}

// StoreTypes returns the distinct type suffixes seen, sorted.
func (c Classification) StoreTypes() []string {
	seen := make(map[string]struct{}, len(c.Columns))
	for _, col := range c.Columns {
		seen[col.TypeSuffix] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// MatchStoreLabel reports whether label is a store label and, if so, returns
// its store code and type suffix. Surrounding whitespace is ignored.
func MatchStoreLabel(label string) (code, suffix string, ok bool) {
	m := storeLabelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Classify scans labels in order and collects the store columns.
//
// The boundary label stops the scan only once a store column has been seen;
// an earlier occurrence is ignored. Labels that are neither store labels nor
// the boundary are skipped without interrupting the run. Identical labels
// are not deduplicated.
func Classify(labels []string, boundary string) Classification {
	if boundary == "" {
		boundary = DefaultBoundaryLabel
	}

	result := Classification{Start: -1, Boundary: -1}
	for i, label := range labels {
		if code, suffix, ok := MatchStoreLabel(label); ok {
			if result.Start < 0 {
				result.Start = i
			}
			result.Columns = append(result.Columns, types.StoreColumn{
				Index:      i,
				Label:      label,
				StoreCode:  code,
				TypeSuffix: suffix,
			})
			continue
		}

		if label == boundary && result.Start >= 0 {
			result.Boundary = i
			break
		}
	}
	return result
}
