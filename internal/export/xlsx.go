package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// XLSX WRITER
// =============================================================================

// sheetSpec describes one worksheet of the output workbook.
type sheetSpec struct {
	name    string
	headers []string
	widths  []float64
	rows    func(emit func([]interface{}) error) error
}

// WriteXLSX writes the package as a four-sheet workbook at path.
//
// PARAMETERS:
//   - pkg:  The tables to write. It must contain at least one order line.
//   - path: The output file. Its directory must exist.
//
// RETURNS:
//   - ErrNoData when the package has no order lines. Nothing is written.
//   - An error if the workbook cannot be built or saved.
func WriteXLSX(pkg *Package, path string) error {
	if err := pkg.check(); err != nil {
		return err
	}

	f, err := BuildWorkbook(pkg)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// BuildWorkbook renders the package into an in-memory workbook. The caller
// owns the returned file and must close it.
func BuildWorkbook(pkg *Package) (*excelize.File, error) {
	if err := pkg.check(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, spec := range sheetSpecs(pkg) {
		if i == 0 {
			// Reuse the default sheet so the orders sheet is the first tab.
			err = f.SetSheetName(f.GetSheetName(0), spec.name)
		} else {
			_, err = f.NewSheet(spec.name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet '%s': %w", spec.name, err)
		}

		if err := writeSheet(f, spec, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet '%s': %w", spec.name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func sheetSpecs(pkg *Package) []sheetSpec {
	return []sheetSpec{
		{
			name:    SheetOrders,
			headers: OrderColumns,
			widths:  []float64{22, 10, 14, 14, 10, 14, 48, 10, 12, 18, 10},
			rows: func(emit func([]interface{}) error) error {
				for _, r := range pkg.Records {
					if err := emit(OrderRow(r)); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			name:    SheetSummary,
			headers: SummaryColumns,
			widths:  []float64{18, 20},
			rows: func(emit func([]interface{}) error) error {
				for _, row := range SummaryRows(pkg.Metrics) {
					if err := emit(row); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			name:    SheetStores,
			headers: StoreColumns,
			widths:  []float64{14, 16},
			rows: func(emit func([]interface{}) error) error {
				for _, s := range pkg.Stores {
					if err := emit([]interface{}{s.StoreCode, s.Total}); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			name:    SheetProducts,
			headers: ProductColumns,
			widths:  []float64{14, 48, 16},
			rows: func(emit func([]interface{}) error) error {
				for _, p := range pkg.Products {
					if err := emit([]interface{}{p.ProductCode, p.Description, p.Total}); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

// writeSheet streams one sheet: widths and the frozen header row first,
// then the data rows.
func writeSheet(f *excelize.File, spec sheetSpec, headerStyle int) error {
	sw, err := f.NewStreamWriter(spec.name)
	if err != nil {
		return err
	}

	for i, w := range spec.widths {
		if err := sw.SetColWidth(i+1, i+1, w); err != nil {
			return err
		}
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	header := make([]interface{}, len(spec.headers))
	for i, h := range spec.headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return err
	}

	rowNum := 1
	emit := func(values []interface{}) error {
		rowNum++
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return sw.SetRow(cell, values)
	}
	if err := spec.rows(emit); err != nil {
		return err
	}

	return sw.Flush()
}
