package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/ginjaninja78/storeorders/internal/export"
	"github.com/ginjaninja78/storeorders/internal/summary"
	"github.com/ginjaninja78/storeorders/internal/types"
)

// qty formats a quantity with thousands separators.
func qty(n int) string {
	return humanize.Comma(int64(n))
}

func printMetrics(w io.Writer, m summary.Metrics) {
	fmt.Fprintln(w, "\n=== Summary ===")
	fmt.Fprintf(w, "Stores:          %s\n", qty(m.StoreCount))
	fmt.Fprintf(w, "Products:        %s\n", qty(m.ProductCount))
	fmt.Fprintf(w, "Total quantity:  %s\n", qty(m.TotalQuantity))
	fmt.Fprintf(w, "Order lines:     %s\n", qty(m.RecordCount))
	fmt.Fprintf(w, "Processed at:    %s\n", m.ProcessedAt.Format(export.TimestampLayout))
}

func printStoreRanking(w io.Writer, title string, stores []summary.StoreRank) {
	fmt.Fprintf(w, "\n%s\n", title)
	for _, s := range stores {
		fmt.Fprintf(w, "  %3d. %-8s %12s\n", s.Rank, s.StoreCode, qty(s.Total))
	}
}

func printProductRanking(w io.Writer, title string, products []summary.ProductRank, cutoff int) {
	fmt.Fprintf(w, "\n%s\n", title)
	for _, p := range products {
		fmt.Fprintf(w, "  %3d. %-12s %-*s %12s\n",
			p.Rank, p.ProductCode, cutoff+3, p.DisplayDescription(cutoff), qty(p.Total))
	}
}

func printPreview(w io.Writer, records []types.OutputRecord) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(w, "\nFirst %d order lines\n", len(records))
	for _, r := range records {
		fmt.Fprintf(w, "  %-20s %-8s %-12s %-43s %10s\n",
			r.BatchID, r.StoreCode, r.ProductCode, r.Description, qty(r.Quantity))
	}
}

func printStoreDetail(w io.Writer, d summary.StoreDetail, cutoff int) {
	fmt.Fprintf(w, "Store %s: %s units in %d lines\n", d.StoreCode, qty(d.Total), len(d.Lines))
	for _, l := range d.Lines {
		desc := l.Description
		if desc == "" {
			desc = summary.NoDescription
		}
		fmt.Fprintf(w, "  %-12s %-*s %10s\n", l.ProductCode, cutoff+3, summary.Truncate(desc, cutoff), qty(l.Quantity))
	}
}

func printDistribution(w io.Writer, d summary.ProductDistribution) {
	desc := d.Description
	if desc == "" {
		desc = summary.NoDescription
	}
	fmt.Fprintf(w, "Product %s (%s): %s units in %d stores\n", d.ProductCode, desc, qty(d.Total), len(d.Stores))
	for _, s := range d.Stores {
		fmt.Fprintf(w, "  %3d. %-8s %12s\n", s.Rank, s.StoreCode, qty(s.Total))
	}
}
