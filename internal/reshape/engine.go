// =============================================================================
// Store Order Converter - Reshape Engine
// =============================================================================
//
// The reshape engine turns the wide order matrix (one column per store) into
// long-format order lines (one line per product/store pair with a real
// quantity) and accumulates store and product totals on the way.
//
// ORDERING:
//   Records are emitted in row order, then store-column order within a row.
//   Nothing is sorted or deduplicated; rankings rely on this order to break
//   ties, so it is part of the contract.
//
// OWNERSHIP:
//   Aggregates are created by the caller and passed in. They belong to a
//   single run and must not be shared between runs or goroutines.
//
// =============================================================================

package reshape

import (
	"errors"
	"strings"

	"github.com/ginjaninja78/storeorders/internal/types"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of one reshape run.
type Result struct {
	// Records holds the emitted order lines in emission order.
	Records []types.OutputRecord

	// Aggregates is the structure passed to Reshape, now populated.
	Aggregates *Aggregates

	// ProcessedProducts counts rows with a product code, whether or not any
	// of their cells produced a record.
	ProcessedProducts int

	// SkippedRows counts rows dropped for a missing or blank product code.
	SkippedRows int

	// StoreColumns is the number of store columns read per row.
	StoreColumns int
}

// TotalQuantity returns the sum of all emitted quantities.
func (r *Result) TotalQuantity() int {
	return r.Aggregates.StoreTotals.Sum()
}

// errNilAggregates guards against a caller forgetting NewAggregates.
var errNilAggregates = errors.New("reshape: aggregates must not be nil")

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Reshape runs the engine over rows using the resolved schema.
//
// PARAMETERS:
//   - batchID: The source identifier stamped on every record (the input
//     file name without extension).
//   - rows:    The data rows, addressed by schema positions.
//   - schema:  The resolved layout. It must list at least one store column.
//   - agg:     Empty aggregates owned by this run.
//
// RETURNS:
//   - The result, with records and populated aggregates.
//   - ErrNoStoreColumns when the schema has no store columns. No records are
//     produced and agg is left untouched in that case.
func Reshape(batchID string, rows []types.Row, schema *types.Schema, agg *Aggregates) (*Result, error) {
	if schema == nil || len(schema.Stores) == 0 {
		return nil, ErrNoStoreColumns
	}
	if agg == nil {
		return nil, errNilAggregates
	}

	result := &Result{
		Aggregates:   agg,
		StoreColumns: len(schema.Stores),
	}

	for _, row := range rows {
		codeCell := row.Cell(schema.ProductCodeIndex)
		if codeCell.IsMissing() || strings.TrimSpace(codeCell.Text) == "" {
			result.SkippedRows++
			continue
		}
		productCode := codeCell.Text
		description := row.Cell(schema.DescriptionIndex).String()

		result.ProcessedProducts++
		agg.setDescription(productCode, description)

		for _, store := range schema.Stores {
			quantity, ok := Parse(row.Cell(store.Index))
			if !ok {
				continue
			}

			result.Records = append(result.Records, types.OutputRecord{
				BatchID:     batchID,
				StoreCode:   store.StoreCode,
				ProductCode: productCode,
				Description: description,
				Quantity:    quantity,
			})
			agg.StoreTotals.Add(store.StoreCode, quantity)
			agg.ProductTotals.Add(productCode, quantity)
		}
	}

	return result, nil
}
