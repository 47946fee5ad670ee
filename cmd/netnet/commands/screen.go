package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen [ticker...]",
	Short: "Run a screening pass",
	Long: `Values every shortlist entry and stores the results.

Without arguments the stored shortlist drives the run. Passing tickers
screens just those, using live quotes for the price side.

Example:
  go run ./cmd/netnet screen
  go run ./cmd/netnet screen 7203.JP 0004.HK`,
	RunE: runScreen,
}

var screenTimeout time.Duration

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().DurationVar(&screenTimeout, "timeout", 30*time.Minute, "overall run timeout")
}

func runScreen(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), screenTimeout)
	defer cancel()

	var shortlist []contracts.ShortlistItem
	if len(args) > 0 {
		for _, ticker := range args {
			shortlist = append(shortlist, contracts.ShortlistItem{Ticker: ticker})
		}
	} else {
		shortlist, err = a.repo.LoadShortlist(ctx)
		if err != nil {
			return fmt.Errorf("load shortlist: %w", err)
		}
	}
	if len(shortlist) == 0 {
		return fmt.Errorf("shortlist is empty; run 'shortlist build' first or pass tickers")
	}

	results, err := a.service.Screen(ctx, shortlist)
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}

	passed := 0
	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
			continue
		}
		if res.Result.PassesPriceToNCAVRule {
			passed++
		}
	}

	fmt.Printf("Screened %d tickers: %d pass the price rule, %d failed\n",
		len(results), passed, failed)

	return nil
}
