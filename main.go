// =============================================================================
// Store Order Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Store Order Converter CLI. It hands
// control to the cmd package.
//
// USAGE:
//   storeorders convert FILE          - Convert an order matrix
//   storeorders inspect FILE          - Show detected store columns
//   storeorders query ...             - Look up stores and products
//   storeorders validate-config       - Validate the configuration
//   storeorders version               - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Readers, reshape engine, summary, exporters, pipeline
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/storeorders/cmd"
)

func main() {
	cmd.Execute()
}
