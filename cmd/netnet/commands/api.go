package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/api"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                   - Health check
  GET  /api/valuations           - Ranked valuations
  GET  /api/valuations/{ticker}  - One valuation
  GET  /api/candidates/{ticker}  - Cached shortlist candidate
  POST /api/screen               - Trigger a screening run
  POST /api/shortlist/build      - Rebuild shortlist candidates

Example:
  go run ./cmd/netnet api
  go run ./cmd/netnet api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	valuationHandler := handlers.NewValuationHandler(a.repo, a.repo, a.log)
	screenHandler := handlers.NewScreenHandler(a.service, a.builder, a.repo, a.log)
	router := api.NewRouter(valuationHandler, screenHandler, a.log)

	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
