// =============================================================================
// Store Order Converter - CSV Reader
// =============================================================================
//
// This module reads an order matrix that was saved as CSV instead of XLSX.
// The layout is the same as the workbook: one header row, then one row per
// product.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, pipe, tab)
//   - Legacy Turkish code pages (windows-1254, iso-8859-9) besides UTF-8
//   - A leading UTF-8 byte order mark is dropped
//   - Rows may have fewer or more fields than the header
//
// CELL TYPES:
//   CSV carries no types, so every non-empty field is delivered as Text and
//   empty fields as Missing. The quantity normalizer parses text, so "75"
//   and 75 yield the same quantity.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/storeorders/internal/types"
)

// Extensions lists the file extensions this reader accepts.
var Extensions = []string{".csv", ".txt"}

// Options controls CSV parsing.
type Options struct {
	// Delimiter is the field separator. Accepts a single character or one
	// of the names "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string

	// Encoding is the file's character encoding.
	// Valid values: "utf-8", "windows-1254", "iso-8859-9"
	// Default: "utf-8"
	Encoding string
}

// DefaultOptions returns comma-separated UTF-8.
func DefaultOptions() Options {
	return Options{Delimiter: ",", Encoding: "utf-8"}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Read opens the CSV file at path and parses it.
//
// PARAMETERS:
//   - path: The path to the CSV file.
//   - opts: Delimiter and encoding.
//
// RETURNS:
//   - The dataset, with every row padded to the widest row.
//   - An error if the file cannot be opened, decoded or parsed, or is empty.
func Read(path string, opts Options) (*types.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ds, err := Parse(bufio.NewReader(file), opts)
	if err != nil {
		return nil, err
	}
	ds.SourceFile = path
	return ds, nil
}

// Parse reads CSV content from r.
func Parse(r io.Reader, opts Options) (*types.Dataset, error) {
	decoder, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}

	comma, err := delimiterRune(opts.Delimiter)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(transform.NewReader(r, decoder))
	csvReader.Comma = comma

	// Rows commonly stop at the last filled store column.
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	// Fields are kept verbatim; product codes are used as written.
	csvReader.TrimLeadingSpace = false

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 || isRowEmpty(allRows[0]) {
		return nil, fmt.Errorf("CSV file is empty")
	}

	width := 0
	for _, row := range allRows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := make([]string, width)
	copy(headers, allRows[0])

	ds := &types.Dataset{Headers: headers}
	for _, raw := range allRows[1:] {
		if isRowEmpty(raw) {
			continue
		}

		row := make(types.Row, width)
		for c := 0; c < width; c++ {
			if c >= len(raw) || raw[c] == "" {
				row[c] = types.Missing()
				continue
			}
			row[c] = types.Text(raw[c])
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// decoderFor returns the decoder for a configured encoding name.
func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "windows-1254", "cp1254":
		return charmap.Windows1254.NewDecoder(), nil
	case "iso-8859-9", "latin5":
		return charmap.ISO8859_9.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported CSV encoding %q", name)
	}
}

// delimiterRune converts the configured delimiter to the rune csv.Reader
// expects.
func delimiterRune(d string) (rune, error) {
	switch d {
	case "":
		return ',', nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "pipe", "PIPE":
		return '|', nil
	case "semicolon":
		return ';', nil
	}

	r, size := utf8.DecodeRuneInString(d)
	if size != len(d) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid CSV delimiter %q", d)
	}
	return r, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
