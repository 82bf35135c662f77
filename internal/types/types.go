// =============================================================================
// Store Order Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - xlsxparser / csvparser (producers of Dataset)
//   - validation             (schema resolution over Dataset headers)
//   - reshape                (consumer of rows, producer of OutputRecord)
//   - summary / export       (consumers of OutputRecord)
//
// =============================================================================

package types

import (
	"strconv"
)

// =============================================================================
// CELL VALUES
// =============================================================================

// CellKind describes what a reader found in a cell.
type CellKind int

const (
	// CellMissing is an empty or absent cell.
	CellMissing CellKind = iota

	// CellNumber is a cell the source stored as a number.
	CellNumber

	// CellText is a cell the source stored as text.
	CellText
)

// CellValue is one raw cell as delivered by a reader.
type CellValue struct {
	Kind CellKind

	// Number is set when Kind is CellNumber.
	Number float64

	// Text holds the raw text of the cell. For numeric cells it holds the
	// unformatted value as stored in the file.
	Text string
}

// Missing returns an empty cell.
func Missing() CellValue {
	return CellValue{Kind: CellMissing}
}

// Number returns a numeric cell.
func Number(v float64) CellValue {
	return CellValue{Kind: CellNumber, Number: v, Text: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Text returns a text cell.
func Text(s string) CellValue {
	return CellValue{Kind: CellText, Text: s}
}

// IsMissing reports whether the cell carries no value.
func (c CellValue) IsMissing() bool {
	return c.Kind == CellMissing
}

// String returns the cell as a string, or "" when missing.
func (c CellValue) String() string {
	if c.Kind == CellMissing {
		return ""
	}
	return c.Text
}

// =============================================================================
// DATASET
// =============================================================================

// Row is one data row, addressed by column position.
type Row []CellValue

// Cell returns the cell at index, or a missing cell when the row is short
// or index is negative.
func (r Row) Cell(index int) CellValue {
	if index < 0 || index >= len(r) {
		return Missing()
	}
	return r[index]
}

// Dataset is a parsed input table: one header row followed by data rows.
type Dataset struct {
	// SourceFile is the path the dataset was read from.
	SourceFile string

	// Sheet is the worksheet name for workbook inputs; empty for CSV.
	Sheet string

	// Headers contains the column labels in file order.
	Headers []string

	// Rows contains the data rows. Every row is padded to len(Headers).
	Rows []Row
}

// =============================================================================
// STORE COLUMNS AND OUTPUT RECORDS
// =============================================================================

// StoreColumn is an input column classified as one store's order quantity.
type StoreColumn struct {
	// Index is the column position in Dataset.Headers.
	Index int

	// Label is the header text as it appears in the file.
	Label string

	// StoreCode is the leading 3-4 digit run of the label.
	// It is not unique: two labels may carry the same code.
	StoreCode string

	// TypeSuffix is the trailing run of uppercase letters (e.g. "M", "MM").
	TypeSuffix string
}

// OutputRecord is one long-format order line: a product ordered for a store.
type OutputRecord struct {
	BatchID     string
	StoreCode   string
	ProductCode string
	Description string
	Quantity    int
}

// =============================================================================
// RESOLVED SCHEMA
// =============================================================================

// Schema is the positional layout of a Dataset, resolved once per run before
// any row is read.
type Schema struct {
	// ProductCodeIndex is the position of the product code column.
	ProductCodeIndex int

	// DescriptionIndex is the position of the product description column,
	// or -1 when the input has none.
	DescriptionIndex int

	// Stores lists the store columns in classifier order.
	Stores []StoreColumn

	// StoreStart is the position of the first store column.
	StoreStart int

	// Boundary is the position of the column that ended the store run,
	// or -1 when the scan reached the last column.
	Boundary int
}
