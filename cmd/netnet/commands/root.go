package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "netnet",
	Short: "Global Graham net-net scanner",
	Long: `Net-Net Global Scanner

Screens global equities for Graham net-nets: companies trading below
their net current asset value. Fetches filings, normalizes balance
sheets, tracks NCAV trends and dilution, and serves ranked results.

Usage:
  go run ./cmd/netnet [command]

Examples:
  go run ./cmd/netnet fetch AAPL.US MSFT.US
  go run ./cmd/netnet shortlist build
  go run ./cmd/netnet screen
  go run ./cmd/netnet api
  go run ./cmd/netnet scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
