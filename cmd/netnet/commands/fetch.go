package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [ticker...]",
	Short: "Fetch filings into core records",
	Long: `Fetches EDGAR companyfacts filings for US-listed tickers and stores
them as raw core records for the screening pipeline.

Example:
  go run ./cmd/netnet fetch AAPL.US MSFT.US
  go run ./cmd/netnet fetch BRK-B`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	fetched := 0
	for _, ticker := range args {
		core, err := a.secClient.LoadCore(ctx, ticker)
		if err != nil {
			a.log.WithError(err).WithField("ticker", ticker).Error("Failed to fetch filings")
			continue
		}
		if err := a.repo.SaveCore(ctx, ticker, core); err != nil {
			a.log.WithError(err).WithField("ticker", ticker).Error("Failed to store core record")
			continue
		}
		fetched++
	}

	fmt.Printf("Fetched %d of %d tickers\n", fetched, len(args))
	if fetched == 0 {
		return fmt.Errorf("no tickers fetched")
	}
	return nil
}
