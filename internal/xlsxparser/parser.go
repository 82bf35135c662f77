// =============================================================================
// Store Order Converter - XLSX Order Matrix Reader
// =============================================================================
//
// This module reads the customer's order workbook into a typed Dataset.
//
// WORKBOOK STRUCTURE (Expected Layout):
//   Row 1 is the header row. Every following row is one product.
//
//   | Hmk Kod | Hmk Ürün Açıklama | 7684 M | 8373 M | 8105 MM | TOPLAM |
//   |---------|-------------------|--------|--------|---------|--------|
//   | 30.77   | ÜÇGEN RAF         | 75     |        | -       | 75     |
//
// CELL TYPES:
//   The reshape engine treats numbers and text differently (text gets a
//   decimal-comma cleanup), so the reader keeps the type the workbook stored:
//   - Shared/inline strings and string formula results become Text
//   - Numeric cells become Number, with the unformatted value as Text
//   - Empty cells become Missing
//
// LIMITATIONS:
//   Only Office Open XML workbooks (.xlsx, .xlsm) are supported. Legacy .xls
//   files must be re-saved first.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/storeorders/internal/types"
)

var (
	// ErrLegacyFormat is returned for .xls inputs.
	ErrLegacyFormat = errors.New("legacy .xls workbooks are not supported, save the file as .xlsx")

	// ErrEmptySheet is returned when the selected sheet has no header row.
	ErrEmptySheet = errors.New("sheet is empty")
)

// Extensions lists the file extensions this reader accepts.
var Extensions = []string{".xlsx", ".xlsm"}

// Options controls which sheet is read.
type Options struct {
	// Sheet is the worksheet name. Empty means the first sheet.
	Sheet string
}

// =============================================================================
// MAIN READ FUNCTION
// =============================================================================

// Read opens the workbook at path and returns its selected sheet.
//
// PARAMETERS:
//   - path: The path to the .xlsx/.xlsm file.
//   - opts: Sheet selection.
//
// RETURNS:
//   - The dataset, with every row padded to the header width.
//   - An error if the file cannot be opened, the sheet does not exist or is
//     empty, or the file is a legacy .xls workbook.
func Read(path string, opts Options) (*types.Dataset, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return nil, ErrLegacyFormat
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	ds, err := readSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}
	ds.SourceFile = path
	return ds, nil
}

// SheetNames lists the worksheets of the workbook at path in tab order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// readSheet reads one sheet of an open workbook.
func readSheet(f *excelize.File, sheet string) (*types.Dataset, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	// Raw values: quantities must not pass through the cell number format.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheet, err)
	}
	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, fmt.Errorf("sheet '%s': %w", sheet, ErrEmptySheet)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := make([]string, width)
	copy(headers, rows[0])

	ds := &types.Dataset{
		Sheet:   sheet,
		Headers: headers,
	}

	for r := 1; r < len(rows); r++ {
		raw := rows[r]
		if isRowEmpty(raw) {
			continue
		}

		row := make(types.Row, width)
		for c := 0; c < width; c++ {
			if c >= len(raw) || raw[c] == "" {
				row[c] = types.Missing()
				continue
			}

			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("error reading row %d: %w", r+1, err)
			}
			cellType, err := f.GetCellType(sheet, ref)
			if err != nil {
				return nil, fmt.Errorf("error reading cell %s: %w", ref, err)
			}
			row[c] = toCellValue(raw[c], cellType)
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// toCellValue converts a raw cell string using the stored cell type.
func toCellValue(raw string, cellType excelize.CellType) types.CellValue {
	if raw == "" {
		return types.Missing()
	}

	switch cellType {
	case excelize.CellTypeSharedString,
		excelize.CellTypeInlineString,
		excelize.CellTypeFormula,
		excelize.CellTypeDate,
		excelize.CellTypeError,
		excelize.CellTypeBool:
		return types.Text(raw)
	default:
		// Numeric cells are usually written without a type attribute.
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.Text(raw)
		}
		return types.CellValue{Kind: types.CellNumber, Number: n, Text: raw}
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// IsWorkbook reports whether path has a workbook extension this reader
// handles (or the legacy .xls extension it rejects with a clear error).
func IsWorkbook(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xls" {
		return true
	}
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
