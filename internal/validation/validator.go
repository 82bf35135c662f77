// =============================================================================
// Store Order Converter - Schema Resolution
// =============================================================================
//
// This module checks that an input table has the layout the reshape engine
// needs and turns its header row into a fixed positional Schema. Resolution
// runs once per file, before any data row is read; rows are then addressed
// purely by position.
//
// REQUIRED LAYOUT:
//   - A product code column (label configurable, "Hmk Kod" by default)
//   - At least one store column ("798 MM", "5776 M", ...)
//
// OPTIONAL LAYOUT:
//   - A description column ("Hmk Ürün Açıklama" by default). When it is
//     absent every description is empty.
//
// ERROR HANDLING:
//   Failures are fatal. They are reported as *SchemaError, which wraps one of
//   the sentinel errors below and carries the header row so the user can see
//   what the file actually contained.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/storeorders/internal/reshape"
	"github.com/ginjaninja78/storeorders/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

var (
	// ErrMissingField means a required column label is not in the header.
	ErrMissingField = errors.New("required column not found")

	// ErrNoStoreColumns means no header matched the store column pattern.
	ErrNoStoreColumns = reshape.ErrNoStoreColumns

	// ErrEmptyHeader means the input has no header row at all.
	ErrEmptyHeader = errors.New("header row is empty")
)

// SchemaError describes why an input table could not be resolved.
type SchemaError struct {
	// Err is one of the sentinel errors of this package.
	Err error

	// Field is the missing label for ErrMissingField.
	Field string

	// Headers is the header row as read from the file.
	Headers []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingField):
		return fmt.Sprintf("%v: %q (available columns: %s)", e.Err, e.Field, quoteAll(e.Headers))
	case errors.Is(e.Err, ErrNoStoreColumns):
		return fmt.Sprintf("%v: expected labels like \"798 MM\" or \"5776 M\" (available columns: %s)",
			e.Err, quoteAll(e.Headers))
	default:
		return e.Err.Error()
	}
}

// Unwrap returns the sentinel error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options names the columns Resolve looks for.
type Options struct {
	// ProductCodeLabel is the exact header of the product code column.
	ProductCodeLabel string

	// DescriptionLabel is the exact header of the description column.
	// Empty means the input has no description column.
	DescriptionLabel string

	// BoundaryLabel closes the store column run. Empty means "TOPLAM".
	BoundaryLabel string
}

// DefaultOptions returns the labels used by the standard order workbook.
func DefaultOptions() Options {
	return Options{
		ProductCodeLabel: "Hmk Kod",
		DescriptionLabel: "Hmk Ürün Açıklama",
		BoundaryLabel:    reshape.DefaultBoundaryLabel,
	}
}

// =============================================================================
// MAIN RESOLUTION FUNCTION
// =============================================================================

// Resolve validates headers and returns the positional schema for the rows
// beneath them.
//
// PARAMETERS:
//   - headers: The header row of the input table.
//   - opts:    The column labels to look for.
//
// RETURNS:
//   - The resolved schema.
//   - A *SchemaError wrapping ErrEmptyHeader, ErrMissingField or
//     ErrNoStoreColumns.
func Resolve(headers []string, opts Options) (*types.Schema, error) {
	if len(headers) == 0 {
		return nil, &SchemaError{Err: ErrEmptyHeader}
	}

	codeIndex := IndexOf(headers, opts.ProductCodeLabel)
	if codeIndex < 0 {
		return nil, &SchemaError{Err: ErrMissingField, Field: opts.ProductCodeLabel, Headers: headers}
	}

	descIndex := -1
	if opts.DescriptionLabel != "" {
		descIndex = IndexOf(headers, opts.DescriptionLabel)
	}

	classification := reshape.Classify(headers, opts.BoundaryLabel)
	if !classification.Found() {
		return nil, &SchemaError{Err: ErrNoStoreColumns, Headers: headers}
	}

	return &types.Schema{
		ProductCodeIndex: codeIndex,
		DescriptionIndex: descIndex,
		Stores:           classification.Columns,
		StoreStart:       classification.Start,
		Boundary:         classification.Boundary,
	}, nil
}

// IndexOf returns the position of the first header equal to label after
// trimming surrounding whitespace, or -1.
func IndexOf(headers []string, label string) int {
	want := strings.TrimSpace(label)
	if want == "" {
		return -1
	}
	for i, h := range headers {
		if strings.TrimSpace(h) == want {
			return i
		}
	}
	return -1
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func quoteAll(headers []string) string {
	if len(headers) == 0 {
		return "none"
	}
	quoted := make([]string, len(headers))
	for i, h := range headers {
		quoted[i] = fmt.Sprintf("%q", h)
	}
	return strings.Join(quoted, ", ")
}
