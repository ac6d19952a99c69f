package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "batchkb",
	Short: "Batch document ingestion and text normalization",
	Long:  "batchkb classifies, transcodes, deduplicates, and bundles a batch of uploaded documents into downloadable category archives.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cleanCmd)
}
