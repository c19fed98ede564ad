package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-watchlist",
	Short: "A CLI for managing the stock watchlist backend",
	Long:  `Stock Watchlist is a small REST backend for tracking stocks with price backfill and reference-name enrichment.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
