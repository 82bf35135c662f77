// =============================================================================
// Store Order Converter - Output Package
// =============================================================================
//
// The output of a run is a package of four tables:
//
//   1. Siparişler          - one row per order line (11 columns, several of
//                            them intentionally blank for the downstream
//                            order-entry template)
//   2. Özet                - headline metrics as Metrik/Değer pairs
//   3. Mağaza Toplamları   - store totals, highest first
//   4. Ürün Toplamları     - product totals with full descriptions
//
// The same package can be written as an XLSX workbook (WriteXLSX) or as a
// SQLite database (WriteSQLite).
//
// =============================================================================

package export

import (
	"errors"
	"time"

	"github.com/ginjaninja78/storeorders/internal/summary"
	"github.com/ginjaninja78/storeorders/internal/types"
)

// ErrNoData is returned when a package without order lines is written.
var ErrNoData = errors.New("no data to export")

// Table names, shared by the XLSX sheets and the SQLite comments.
const (
	SheetOrders   = "Siparişler"
	SheetSummary  = "Özet"
	SheetStores   = "Mağaza Toplamları"
	SheetProducts = "Ürün Toplamları"
)

// TimestampLayout formats the run time in the summary table.
const TimestampLayout = "02.01.2006 15:04"

// OrderColumns are the headers of the order lines table.
var OrderColumns = []string{
	"Mağaza Kodu",
	"Tarih",
	"Mağaza Kodu2",
	"Mağaza Adı",
	"Artikel",
	"Kod",
	"MALZEME TANIMI",
	"Adet",
	"Birim Fiyat",
	"TOPLAM TUTAR(TL)",
	"İlgili",
}

// Headers of the three summary tables.
var (
	SummaryColumns = []string{"Metrik", "Değer"}
	StoreColumns   = []string{"Mağaza Kodu", "Toplam Miktar"}
	ProductColumns = []string{"Ürün Kodu", "Ürün Açıklama", "Toplam Miktar"}
)

// Package is everything a writer needs for one run.
type Package struct {
	Records  []types.OutputRecord
	Metrics  summary.Metrics
	Stores   []summary.StoreRank
	Products []summary.ProductRank
}

// NewPackage collects the tables from a summary builder.
func NewPackage(records []types.OutputRecord, b *summary.Builder, now time.Time) *Package {
	return &Package{
		Records:  records,
		Metrics:  b.Metrics(now),
		Stores:   b.StoreRanking(),
		Products: b.ProductRanking(),
	}
}

func (p *Package) check() error {
	if p == nil || len(p.Records) == 0 {
		return ErrNoData
	}
	return nil
}

// OrderRow lays out one record in OrderColumns order. Blank columns are nil.
func OrderRow(r types.OutputRecord) []interface{} {
	return []interface{}{
		r.BatchID,
		nil,
		r.StoreCode,
		nil,
		nil,
		r.ProductCode,
		r.Description,
		r.Quantity,
		nil,
		nil,
		nil,
	}
}

// SummaryRows returns the Metrik/Değer pairs of the summary table.
func SummaryRows(m summary.Metrics) [][]interface{} {
	return [][]interface{}{
		{"Toplam Mağaza", m.StoreCount},
		{"Toplam Ürün", m.ProductCount},
		{"Toplam Miktar", m.TotalQuantity},
		{"İşlem Tarihi", m.ProcessedAt.Format(TimestampLayout)},
	}
}
