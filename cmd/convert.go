// =============================================================================
// Store Order Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which runs the full conversion
// pipeline for one order file.
//
// COMMAND USAGE:
//   storeorders convert FILE [flags]
//
// FLAGS:
//   --out      : Output directory (overrides output.dir)
//   --sqlite   : Also write a SQLite database to this path
//   --top      : Number of stores and products in the rankings
//   --dry-run  : Reshape and summarize without writing anything
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/storeorders/internal/config"
	"github.com/ginjaninja78/storeorders/internal/converter"
	"github.com/ginjaninja78/storeorders/internal/summary"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	outDir     string
	sqlitePath string
	topN       int
	dryRun     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert an order matrix into order lines",
	Long: `The convert command reads the order matrix in FILE, turns every store cell
holding a real quantity into an order line and writes the result as an Excel
workbook with four sheets: the order lines, a summary, store totals and
product totals.

On success:
  - The workbook is placed in the output directory
  - A SQLite copy is written when --sqlite or output.sqlite_path is set
  - The input file is archived when output.archive_input is set

On error:
  - Nothing is written and the input file stays where it is`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyConvertFlags(cmd, cfg)
		return runConvert(cmd, args[0], cfg)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&outDir, "out", "", "Output directory (overrides output.dir)")
	convertCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Also write the output tables to this SQLite file")
	convertCmd.Flags().IntVar(&topN, "top", summary.DefaultTopN, "Number of stores and products shown in the rankings")
	convertCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Reshape and summarize without writing output files")
}

// applyConvertFlags lets explicit flags override the loaded configuration.
func applyConvertFlags(cmd *cobra.Command, c *config.Config) {
	if cmd.Flags().Changed("out") {
		c.Output.Dir = outDir
	}
	if cmd.Flags().Changed("sqlite") {
		c.Output.SQLitePath = sqlitePath
	}
	if cmd.Flags().Changed("top") {
		c.Summary.TopN = topN
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runConvert(cmd *cobra.Command, path string, c *config.Config) error {
	if err := config.Validate(c); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Store Order Converter ===")
	fmt.Fprintf(out, "File: %s\n", filepath.Base(path))

	result := converter.New(path, c, converter.WithLogger(logger)).Run(cmd.Context(), dryRun)
	if result.Error != nil {
		fmt.Fprintf(out, "  ✗ %s: %v\n", filepath.Base(result.FilePath), result.Error)
		return result.Error
	}

	b := result.Analysis.Summary
	printMetrics(out, b.Metrics(result.ProcessedAt))
	printStoreRanking(out, fmt.Sprintf("Top %d stores", c.Summary.TopN),
		summary.Top(b.StoreRanking(), c.Summary.TopN))
	printProductRanking(out, fmt.Sprintf("Top %d products", c.Summary.TopN),
		summary.Top(b.ProductRanking(), c.Summary.TopN), c.Summary.DescriptionCutoff)
	printPreview(out, b.Preview(c.Summary.PreviewRows, c.Summary.PreviewCutoff))

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	if dryRun {
		fmt.Fprintln(out, "Dry run: no files written.")
	} else {
		fmt.Fprintf(out, "  ✓ %s -> %s\n", filepath.Base(result.FilePath), result.OutputFile)
		if result.SQLiteFile != "" {
			fmt.Fprintf(out, "  ✓ SQLite:        %s\n", result.SQLiteFile)
		}
		if result.ArchivedTo != "" {
			fmt.Fprintf(out, "  ✓ Archived to:   %s\n", result.ArchivedTo)
		}
	}
	fmt.Fprintf(out, "Time elapsed:    %s\n", result.Stats.ProcessingTime)

	return nil
}
