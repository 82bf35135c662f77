package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/storeorders/internal/converter"
	"github.com/ginjaninja78/storeorders/internal/xlsxparser"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Show how the header row of an order file is understood",
	Long: `The inspect command reads the header row of FILE and lists the product code
and description columns, every detected store column with its store code and
type, and where the store run starts and ends. Nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ins, err := converter.New(args[0], cfg, converter.WithLogger(logger)).Inspect()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if xlsxparser.IsWorkbook(args[0]) {
			if sheets, err := xlsxparser.SheetNames(args[0]); err == nil {
				fmt.Fprintf(out, "Sheets:          %s\n", strings.Join(sheets, ", "))
			}
		}
		printInspection(out, ins)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func printInspection(w io.Writer, ins *converter.Inspection) {
	if ins.Sheet != "" {
		fmt.Fprintf(w, "Sheet:           %s\n", ins.Sheet)
	}
	fmt.Fprintf(w, "Columns:         %d\n", len(ins.Headers))
	fmt.Fprintf(w, "Data rows:       %s\n", qty(ins.DataRows))
	fmt.Fprintf(w, "Product code:    %s\n", columnRef(ins.ProductCodeIndex, ins.Headers))
	fmt.Fprintf(w, "Description:     %s\n", columnRef(ins.DescriptionIndex, ins.Headers))

	c := ins.Classification
	if !c.Found() {
		fmt.Fprintln(w, "Store columns:   none found")
		return
	}

	fmt.Fprintf(w, "Store columns:   %d\n", len(c.Columns))
	fmt.Fprintf(w, "Store run:       starts at %s, ", columnName(c.Start))
	if c.Boundary >= 0 {
		fmt.Fprintf(w, "ends before %s\n", columnRef(c.Boundary, ins.Headers))
	} else {
		fmt.Fprintln(w, "runs to the last column")
	}
	fmt.Fprintf(w, "Store types:     %s\n", strings.Join(c.StoreTypes(), ", "))

	fmt.Fprintln(w)
	for _, col := range c.Columns {
		fmt.Fprintf(w, "  %-4s %-12s %-6s %s\n", columnName(col.Index), col.Label, col.StoreCode, col.TypeSuffix)
	}
}

// columnName turns a zero-based index into a spreadsheet column letter.
func columnName(index int) string {
	name, err := excelize.ColumnNumberToName(index + 1)
	if err != nil {
		return fmt.Sprint(index)
	}
	return name
}

func columnRef(index int, headers []string) string {
	if index < 0 || index >= len(headers) {
		return "not found"
	}
	return fmt.Sprintf("%s (%q)", columnName(index), headers[index])
}
