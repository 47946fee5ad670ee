package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

// ratesCmd represents the rates command
var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the FX rate table",
	Long: `Prints the USD-per-unit rate table the screening run would use,
fetching and caching it when stale.

Example:
  go run ./cmd/netnet rates
  go run ./cmd/netnet rates --refresh`,
	RunE: runRates,
}

var ratesRefresh bool

func init() {
	rootCmd.AddCommand(ratesCmd)

	ratesCmd.Flags().BoolVar(&ratesRefresh, "refresh", false, "force a fresh fetch")
}

func runRates(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var table contracts.RateTable
	if ratesRefresh {
		table, err = a.fxProvider.Refresh(ctx)
	} else {
		table, err = a.fxProvider.RatesToUSD(ctx)
	}
	if err != nil {
		return fmt.Errorf("load rates: %w", err)
	}

	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	fmt.Printf("%d currencies (USD per unit):\n", len(codes))
	for _, code := range codes {
		fmt.Printf("  %s  %.6f\n", code, table[code])
	}

	return nil
}
