// =============================================================================
// Store Order Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (storeorders)
//   ├── convertCmd        (storeorders convert FILE)
//   ├── inspectCmd        (storeorders inspect FILE)
//   ├── queryCmd          (storeorders query store|product|search ...)
//   ├── validateConfigCmd (storeorders validate-config)
//   └── versionCmd        (storeorders version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration (file, then environment, then validation)
//   2. Builds the logger
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/storeorders/internal/config"
	"github.com/ginjaninja78/storeorders/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// cfg and logger are set by PersistentPreRunE for every subcommand.
var (
	cfg    *config.Config
	logger *zap.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "storeorders",
	Short: "Store Order Converter - Reshape store order matrices into order lines",
	Long: `Store Order Converter reads a wide order matrix (one row per product, one
column per store) from an Excel workbook or CSV file and turns it into a flat
list of order lines, one per product and store.

Key Features:
  - Store columns detected from their labels ("798 MM", "5776 M")
  - Quantities below 10 treated as noise and dropped
  - Store and product totals with rankings
  - Output as an Excel workbook, optionally also as a SQLite database

Example Usage:
  storeorders convert siparis.xlsx                 # Convert a workbook
  storeorders convert siparis.csv --sqlite out.db  # Also write SQLite
  storeorders inspect siparis.xlsx                 # Show detected store columns
  storeorders query store 7684 siparis.xlsx        # Show one store's lines`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
