// =============================================================================
// Store Order Converter - Converter Module
// =============================================================================
//
// This module orchestrates the conversion pipeline for a single order file,
// from reading the matrix to writing the output package.
//
// CONVERSION PIPELINE:
//   1. Read the input (XLSX workbook or CSV) into a Dataset
//   2. Resolve the header row into a positional schema
//   3. Reshape the rows into order lines and accumulate totals
//   4. Build rankings and metrics
//   5. Write the output workbook (and optionally a SQLite copy)
//   6. Archive the input file, when enabled
//
// Steps 1-4 are also available on their own (Analyze) for the inspection
// and query commands, which never write anything.
//
// CONCURRENCY:
//   A Converter processes one file synchronously. Separate Converters share
//   nothing and may run in parallel.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ginjaninja78/storeorders/internal/config"
	"github.com/ginjaninja78/storeorders/internal/csvparser"
	"github.com/ginjaninja78/storeorders/internal/export"
	"github.com/ginjaninja78/storeorders/internal/reshape"
	"github.com/ginjaninja78/storeorders/internal/summary"
	"github.com/ginjaninja78/storeorders/internal/types"
	"github.com/ginjaninja78/storeorders/internal/validation"
	"github.com/ginjaninja78/storeorders/internal/xlsxparser"
	"github.com/ginjaninja78/storeorders/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated workbook.
	// This is empty if processing failed or was a dry run.
	OutputFile string

	// SQLiteFile is the path to the SQLite copy, when one was requested.
	SQLiteFile string

	// ArchivedTo is where the input file was moved, when archival is on.
	ArchivedTo string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// ProcessedAt is the run time stamped into the summary sheet.
	ProcessedAt time.Time

	// Analysis holds the reshaped data and its summary. It is set whenever
	// the pipeline got past the reshape step.
	Analysis *Analysis

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsRead is the number of non-blank data rows in the input.
	RowsRead int

	// ProductsProcessed is the number of rows with a product code.
	ProductsProcessed int

	// RowsSkipped is the number of rows without a product code.
	RowsSkipped int

	// StoreColumns is the number of detected store columns.
	StoreColumns int

	// RecordsCreated is the number of order lines.
	RecordsCreated int

	// TotalQuantity is the sum of all order quantities.
	TotalQuantity int

	// ProcessingTime is the total time taken to process the file.
	ProcessingTime time.Duration
}

// Analysis is the in-memory outcome of reading and reshaping a file.
type Analysis struct {
	BatchID string
	Dataset *types.Dataset
	Schema  *types.Schema
	Reshape *reshape.Result
	Summary *summary.Builder
}

// Inspection describes how a file's header row was understood.
type Inspection struct {
	SourceFile string
	Sheet      string
	Headers    []string
	DataRows   int

	// ProductCodeIndex and DescriptionIndex are -1 when not found.
	ProductCodeIndex int
	DescriptionIndex int

	Classification reshape.Classification
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single order file.
type Converter struct {
	path   string
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// Option customizes a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces time.Now, for reproducible timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a new Converter for the file at path.
//
// PARAMETERS:
//   - path: The order file (.xlsx, .xlsm or .csv).
//   - cfg:  The application configuration. nil means config.Default().
//   - opts: Optional logger and clock.
func New(path string, cfg *config.Config, opts ...Option) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	c := &Converter{
		path:   path,
		cfg:    cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// READING AND ANALYSIS
// =============================================================================

// Load reads the input file into a Dataset, choosing the reader by
// extension.
func (c *Converter) Load() (*types.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(c.path))

	switch {
	case xlsxparser.IsWorkbook(c.path):
		return xlsxparser.Read(c.path, xlsxparser.Options{Sheet: c.cfg.Input.Sheet})
	case slices.Contains(csvparser.Extensions, ext):
		return csvparser.Read(c.path, csvparser.Options{
			Delimiter: c.cfg.Input.CSVDelimiter,
			Encoding:  c.cfg.Input.CSVEncoding,
		})
	default:
		return nil, fmt.Errorf("unsupported file type %q (expected .xlsx, .xlsm or .csv)", ext)
	}
}

// Inspect reads the file and reports how its header row is classified. It
// does not fail when the layout is invalid; that is what it is for.
func (c *Converter) Inspect() (*Inspection, error) {
	ds, err := c.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	opts := c.validationOptions()
	descIndex := -1
	if opts.DescriptionLabel != "" {
		descIndex = validation.IndexOf(ds.Headers, opts.DescriptionLabel)
	}

	return &Inspection{
		SourceFile:       c.path,
		Sheet:            ds.Sheet,
		Headers:          ds.Headers,
		DataRows:         len(ds.Rows),
		ProductCodeIndex: validation.IndexOf(ds.Headers, opts.ProductCodeLabel),
		DescriptionIndex: descIndex,
		Classification:   reshape.Classify(ds.Headers, opts.BoundaryLabel),
	}, nil
}

// Analyze reads, resolves and reshapes the file without writing anything.
func (c *Converter) Analyze() (*Analysis, error) {
	ds, err := c.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	c.logger.Debug("Read input",
		zap.String("file", c.path),
		zap.String("sheet", ds.Sheet),
		zap.Int("columns", len(ds.Headers)),
		zap.Int("rows", len(ds.Rows)),
	)

	schema, err := validation.Resolve(ds.Headers, c.validationOptions())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Resolved schema",
		zap.Int("product_code_column", schema.ProductCodeIndex),
		zap.Int("description_column", schema.DescriptionIndex),
		zap.Int("store_columns", len(schema.Stores)),
		zap.Int("boundary_column", schema.Boundary),
	)
	if schema.DescriptionIndex < 0 {
		c.logger.Warn("Description column not found, descriptions will be empty",
			zap.String("label", c.cfg.Input.DescriptionLabel))
	}

	batchID := utils.BatchID(c.path)
	res, err := reshape.Reshape(batchID, ds.Rows, schema, reshape.NewAggregates())
	if err != nil {
		return nil, fmt.Errorf("failed to reshape: %w", err)
	}

	return &Analysis{
		BatchID: batchID,
		Dataset: ds,
		Schema:  schema,
		Reshape: res,
		Summary: summary.New(res),
	}, nil
}

func (c *Converter) validationOptions() validation.Options {
	return validation.Options{
		ProductCodeLabel: c.cfg.Input.ProductCodeLabel,
		DescriptionLabel: c.cfg.Input.DescriptionLabel,
		BoundaryLabel:    c.cfg.Input.BoundaryLabel,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
//
// PARAMETERS:
//   - ctx:    Used for the SQLite export.
//   - dryRun: Stop after the summary; write and archive nothing.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) Run(ctx context.Context, dryRun bool) Result {
	startTime := c.now()
	logger := c.logger.With(zap.String("run_id", uuid.NewString()), zap.String("file", c.path))
	result := Result{FilePath: c.path, ProcessedAt: startTime}

	// =========================================================================
	// STEP 1-4: READ, RESOLVE, RESHAPE, SUMMARIZE
	// =========================================================================

	logger.Info("Processing file")

	analysis, err := c.Analyze()
	if err != nil {
		result.Error = err
		return result
	}
	result.Analysis = analysis
	c.fillStats(&result.Stats, analysis)

	logger.Info("Reshaped order matrix",
		zap.Int("products", result.Stats.ProductsProcessed),
		zap.Int("skipped_rows", result.Stats.RowsSkipped),
		zap.Int("store_columns", result.Stats.StoreColumns),
		zap.Int("records", result.Stats.RecordsCreated),
		zap.Int("total_quantity", result.Stats.TotalQuantity),
	)

	if result.Stats.RecordsCreated == 0 {
		result.Error = export.ErrNoData
		return result
	}

	if dryRun {
		result.Success = true
		result.Stats.ProcessingTime = c.now().Sub(startTime)
		return result
	}

	// =========================================================================
	// STEP 5: WRITE OUTPUT FILES
	// =========================================================================

	fm := utils.NewFileManager(c.cfg.Output.Dir, c.cfg.Output.ArchiveDir, c.cfg.Output.ArchiveInput)
	if err := fm.EnsureDirectories(); err != nil {
		result.Error = err
		return result
	}

	pkg := export.NewPackage(analysis.Reshape.Records, analysis.Summary, startTime)

	outputPath := fm.OutputPath(utils.GenerateOutputFileName(c.cfg.Output.FileNameFormat, c.path, ".xlsx", startTime))
	if err := export.WriteXLSX(pkg, outputPath); err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}
	result.OutputFile = outputPath
	logger.Info("Wrote workbook", zap.String("output", outputPath))

	if c.cfg.Output.SQLitePath != "" {
		if err := export.WriteSQLite(ctx, pkg, c.cfg.Output.SQLitePath); err != nil {
			result.Error = fmt.Errorf("failed to write sqlite export: %w", err)
			return result
		}
		result.SQLiteFile = c.cfg.Output.SQLitePath
		logger.Info("Wrote sqlite export", zap.String("output", c.cfg.Output.SQLitePath))
	}

	// =========================================================================
	// STEP 6: ARCHIVE INPUT
	// =========================================================================

	if c.cfg.Output.ArchiveInput {
		archived, err := fm.ArchiveInputFile(c.path, startTime)
		if err != nil {
			// The outputs are complete; a stuck input file is not a failure.
			logger.Warn("Failed to archive input file", zap.Error(err))
		} else {
			result.ArchivedTo = archived
			logger.Debug("Archived input file", zap.String("archive", archived))
		}
	}

	result.Success = true
	result.Stats.ProcessingTime = c.now().Sub(startTime)
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (c *Converter) fillStats(stats *ProcessingStats, a *Analysis) {
	stats.RowsRead = len(a.Dataset.Rows)
	stats.ProductsProcessed = a.Reshape.ProcessedProducts
	stats.RowsSkipped = a.Reshape.SkippedRows
	stats.StoreColumns = a.Reshape.StoreColumns
	stats.RecordsCreated = len(a.Reshape.Records)
	stats.TotalQuantity = a.Reshape.TotalQuantity()
}
