package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// shortlistCmd represents the shortlist command group
var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Manage shortlist candidates",
	Long: `Builds or inspects the shortlist candidate cache.

Subcommands:
  build - run the snapshot pre-pass over core records

Example:
  go run ./cmd/netnet shortlist build
  go run ./cmd/netnet shortlist build AAPL.US 7203.JP`,
}

var shortlistBuildCmd = &cobra.Command{
	Use:   "build [ticker...]",
	Short: "Build shortlist candidates",
	Long: `Runs the viable-snapshot pre-pass. Without arguments every stored
core record is examined; with arguments only the named tickers.`,
	RunE: runShortlistBuild,
}

func init() {
	rootCmd.AddCommand(shortlistCmd)
	shortlistCmd.AddCommand(shortlistBuildCmd)
}

func runShortlistBuild(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	tickers := args
	if len(tickers) == 0 {
		tickers, err = a.repo.ListCoreTickers(ctx)
		if err != nil {
			return fmt.Errorf("list core tickers: %w", err)
		}
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no core records stored; run 'fetch' first")
	}

	candidates, err := a.builder.Build(ctx, tickers)
	if err != nil {
		return fmt.Errorf("build candidates: %w", err)
	}

	viable := 0
	for _, c := range candidates {
		if c.Note == nil {
			viable++
		}
	}

	fmt.Printf("Built %d candidates, %d viable\n", len(candidates), viable)
	return nil
}
