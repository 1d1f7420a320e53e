// Package cli implements the docgraph CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "docgraph",
	Short: "Build a knowledge graph from a document",
	Long:  "Streams a document line by line through the incremental graph builder and exports the resulting graph with full provenance as JSON.",
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
