// =============================================================================
// Store Order Converter - Summary Builder
// =============================================================================
//
// This module answers the questions asked after a reshape run: which stores
// and products ordered the most, what a single store ordered, how a single
// product is spread across stores, and the headline metrics of the run.
//
// ORDERING:
//   Every ranking is sorted by total, descending. Ties keep the order in
//   which the keys were first seen during the run, so output is
//   deterministic for a given input file.
//
// DISPLAY vs DATA:
//   Descriptions are cut for display only (Truncate). Exported tables keep
//   the full text.
//
// =============================================================================

package summary

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ginjaninja78/storeorders/internal/reshape"
	"github.com/ginjaninja78/storeorders/internal/types"
)

// NoDescription is shown in rankings for products without a description.
const NoDescription = "Açıklama yok"

// Default display cut-offs, in characters.
const (
	DefaultTopN              = 10
	DefaultDescriptionCutoff = 50
	DefaultDetailCutoff      = 60
	DefaultPreviewCutoff     = 40
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// StoreRank is one line of the store ranking.
type StoreRank struct {
	Rank      int
	StoreCode string
	Total     int
}

// ProductRank is one line of the product ranking.
type ProductRank struct {
	Rank        int
	ProductCode string

	// Description is the full recorded description, or "" when none.
	Description string

	Total int
}

// DisplayDescription returns the description cut to cutoff characters, or
// NoDescription when the product has none.
func (p ProductRank) DisplayDescription(cutoff int) string {
	if p.Description == "" {
		return NoDescription
	}
	return Truncate(p.Description, cutoff)
}

// DetailLine is one product ordered by a store.
type DetailLine struct {
	ProductCode string
	Description string
	Quantity    int
}

// StoreDetail lists everything one store ordered, in emission order.
type StoreDetail struct {
	StoreCode string
	Total     int
	Lines     []DetailLine
}

// ProductDistribution shows how one product is spread across stores.
type ProductDistribution struct {
	ProductCode string
	Description string
	Total       int
	Stores      []StoreRank
}

// Metrics are the headline figures of a run.
type Metrics struct {
	// StoreCount is the number of distinct stores with at least one order.
	StoreCount int

	// ProductCount is the number of processed product rows.
	ProductCount int

	// TotalQuantity is the sum of all order quantities.
	TotalQuantity int

	// RecordCount is the number of output records.
	RecordCount int

	// ProcessedAt is the time the summary was taken.
	ProcessedAt time.Time
}

// =============================================================================
// BUILDER
// =============================================================================

// Builder answers summary queries over one reshape result.
type Builder struct {
	records   []types.OutputRecord
	agg       *reshape.Aggregates
	processed int
}

// New returns a Builder over res. res must not be modified afterwards.
func New(res *reshape.Result) *Builder {
	return &Builder{
		records:   res.Records,
		agg:       res.Aggregates,
		processed: res.ProcessedProducts,
	}
}

// StoreRanking returns every store with orders, highest total first.
func (b *Builder) StoreRanking() []StoreRank {
	ranked := rank(b.agg.StoreTotals)
	out := make([]StoreRank, len(ranked))
	for i, e := range ranked {
		out[i] = StoreRank{Rank: i + 1, StoreCode: e.key, Total: e.total}
	}
	return out
}

// ProductRanking returns every product with orders, highest total first.
func (b *Builder) ProductRanking() []ProductRank {
	ranked := rank(b.agg.ProductTotals)
	out := make([]ProductRank, len(ranked))
	for i, e := range ranked {
		desc, _ := b.agg.Description(e.key)
		out[i] = ProductRank{Rank: i + 1, ProductCode: e.key, Description: desc, Total: e.total}
	}
	return out
}

// StoreDetail returns the order lines of storeCode. ok is false when the
// store has no orders.
func (b *Builder) StoreDetail(storeCode string) (detail StoreDetail, ok bool) {
	total, ok := b.agg.StoreTotals.Get(storeCode)
	if !ok {
		return StoreDetail{}, false
	}

	detail = StoreDetail{StoreCode: storeCode, Total: total}
	for _, r := range b.records {
		if r.StoreCode != storeCode {
			continue
		}
		detail.Lines = append(detail.Lines, DetailLine{
			ProductCode: r.ProductCode,
			Description: r.Description,
			Quantity:    r.Quantity,
		})
	}
	return detail, true
}

// ProductDistribution returns the per-store totals of productCode. ok is
// false when the product has no orders.
func (b *Builder) ProductDistribution(productCode string) (dist ProductDistribution, ok bool) {
	total, ok := b.agg.ProductTotals.Get(productCode)
	if !ok {
		return ProductDistribution{}, false
	}

	perStore := reshape.NewTotals()
	for _, r := range b.records {
		if r.ProductCode == productCode {
			perStore.Add(r.StoreCode, r.Quantity)
		}
	}

	desc, _ := b.agg.Description(productCode)
	dist = ProductDistribution{ProductCode: productCode, Description: desc, Total: total}
	for i, e := range rank(perStore) {
		dist.Stores = append(dist.Stores, StoreRank{Rank: i + 1, StoreCode: e.key, Total: e.total})
	}
	return dist, true
}

// SearchProducts returns the ranked products whose code or description
// contains term, compared case-insensitively under Turkish casing rules.
func (b *Builder) SearchProducts(term string) []ProductRank {
	upper := cases.Upper(language.Turkish)
	needle := upper.String(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}

	var out []ProductRank
	for _, p := range b.ProductRanking() {
		if strings.Contains(upper.String(p.ProductCode), needle) ||
			strings.Contains(upper.String(p.Description), needle) {
			p.Rank = len(out) + 1
			out = append(out, p)
		}
	}
	return out
}

// Metrics returns the headline figures, stamped with now.
func (b *Builder) Metrics(now time.Time) Metrics {
	return Metrics{
		StoreCount:    b.agg.StoreTotals.Len(),
		ProductCount:  b.processed,
		TotalQuantity: b.agg.StoreTotals.Sum(),
		RecordCount:   len(b.records),
		ProcessedAt:   now,
	}
}

// Preview returns the first n records with descriptions cut to cutoff.
func (b *Builder) Preview(n, cutoff int) []types.OutputRecord {
	if n > len(b.records) {
		n = len(b.records)
	}
	if n <= 0 {
		return nil
	}

	out := make([]types.OutputRecord, n)
	copy(out, b.records[:n])
	for i := range out {
		out[i].Description = Truncate(out[i].Description, cutoff)
	}
	return out
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Top returns at most the first k items.
func Top[T any](items []T, k int) []T {
	if k < 0 {
		k = 0
	}
	if k < len(items) {
		return items[:k]
	}
	return items
}

// Truncate cuts s to cutoff characters and appends "..." when it is longer.
// A non-positive cutoff leaves s unchanged.
func Truncate(s string, cutoff int) string {
	if cutoff <= 0 || utf8.RuneCountInString(s) <= cutoff {
		return s
	}
	runes := []rune(s)
	return string(runes[:cutoff]) + "..."
}

type rankedEntry struct {
	key   string
	total int
}

// rank sorts totals descending; the stable sort keeps first-seen order on
// ties.
func rank(totals *reshape.Totals) []rankedEntry {
	keys := totals.Keys()
	entries := make([]rankedEntry, len(keys))
	for i, k := range keys {
		v, _ := totals.Get(k)
		entries[i] = rankedEntry{key: k, total: v}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].total > entries[j].total
	})
	return entries
}
