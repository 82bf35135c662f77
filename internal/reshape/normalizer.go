package reshape

import (
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/storeorders/internal/types"
)

// MinQuantity is the smallest cell value treated as a real order. Anything
// below it is noise and normalizes to 0.
const MinQuantity = 10

// maxQuantity bounds the float-to-int conversion. float64(math.MaxInt64)
// rounds up to 2^63, so every value strictly below it fits in an int64.
const maxQuantity = float64(math.MaxInt64)

// Normalize converts one raw cell into an order quantity. It is total: every
// input yields a value >= 0, and any value that cannot be read as a number
// of at least MinQuantity yields 0.
func Normalize(v types.CellValue) int {
	q, _ := Parse(v)
	return q
}

// Parse is Normalize with an explicit outcome: ok is true only when the cell
// produced a positive quantity. When ok is false the quantity is always 0.
func Parse(v types.CellValue) (quantity int, ok bool) {
	switch v.Kind {
	case types.CellNumber:
		return truncate(v.Number)
	case types.CellText:
		return parseText(v.Text)
	default:
		return 0, false
	}
}

// parseText applies the text rules: blank markers are 0, spaces are dropped
// and a decimal comma is read as a dot.
func parseText(s string) (int, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "-", "NaN", "nan":
		return 0, false
	}

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return truncate(f)
}

// truncate drops the fractional part (toward zero) and applies the
// MinQuantity threshold.
func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || f < MinQuantity || f >= maxQuantity {
		return 0, false
	}
	return int(f), true
}
