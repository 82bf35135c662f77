// =============================================================================
// Store Order Converter - Query Commands
// =============================================================================
//
// The query commands reshape a file in memory and answer one question about
// it. Nothing is written.
//
// COMMAND USAGE:
//   storeorders query store CODE FILE [--all]
//   storeorders query product CODE FILE
//   storeorders query search TERM FILE
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/storeorders/internal/converter"
	"github.com/ginjaninja78/storeorders/internal/summary"
)

// showAll lists every line of a store instead of the top N.
var showAll bool

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Look up stores and products in an order file",
}

var queryStoreCmd = &cobra.Command{
	Use:   "store CODE FILE",
	Short: "Show a store's total and the products it ordered",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := analyze(args[1])
		if err != nil {
			return err
		}

		detail, ok := b.StoreDetail(args[0])
		if !ok {
			return fmt.Errorf("store %s has no orders in %s", args[0], args[1])
		}
		if !showAll {
			detail.Lines = summary.Top(detail.Lines, cfg.Summary.TopN)
		}
		printStoreDetail(cmd.OutOrStdout(), detail, cfg.Summary.DetailCutoff)
		return nil
	},
}

var queryProductCmd = &cobra.Command{
	Use:   "product CODE FILE",
	Short: "Show how a product is distributed across stores",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := analyze(args[1])
		if err != nil {
			return err
		}

		dist, ok := b.ProductDistribution(args[0])
		if !ok {
			return fmt.Errorf("product %s has no orders in %s", args[0], args[1])
		}
		printDistribution(cmd.OutOrStdout(), dist)
		return nil
	},
}

var querySearchCmd = &cobra.Command{
	Use:   "search TERM FILE",
	Short: "Find products by code or description",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := analyze(args[1])
		if err != nil {
			return err
		}

		matches := b.SearchProducts(args[0])
		out := cmd.OutOrStdout()
		if len(matches) == 0 {
			fmt.Fprintf(out, "No products match %q\n", args[0])
			return nil
		}
		printProductRanking(out, fmt.Sprintf("%d products match %q", len(matches), args[0]),
			matches, cfg.Summary.DescriptionCutoff)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(queryStoreCmd, queryProductCmd, querySearchCmd)

	queryStoreCmd.Flags().BoolVar(&showAll, "all", false, "List every line instead of the top N")
}

func analyze(path string) (*summary.Builder, error) {
	a, err := converter.New(path, cfg, converter.WithLogger(logger)).Analyze()
	if err != nil {
		return nil, err
	}
	return a.Summary, nil
}
