// Package sec adapts SEC EDGAR companyfacts filings into the raw core
// records the normalization layer consumes. EDGAR enforces an identifying
// User-Agent and a hard request ceiling, both handled here.
package sec

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/config"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/httputil"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

// Client handles communication with the EDGAR data API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	limiter    *rate.Limiter

	tickersOnce sync.Once
	tickersErr  error
	cikByTicker map[string]string
}

// NewClient creates a new EDGAR client. The User-Agent from cfg is applied
// to every request.
func NewClient(cfg config.SECConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://data.sec.gov"
	}
	if cfg.UserAgent != "" {
		httpClient = httpClient.WithHeader("User-Agent", cfg.UserAgent)
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "sec"),
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(10), 1),
	}
}

// tickerEntry is one row of the company_tickers.json directory.
type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
}

// resolveCIK maps a US ticker to its zero-padded CIK, loading the EDGAR
// ticker directory on first use.
func (c *Client) resolveCIK(ctx context.Context, ticker string) (string, error) {
	c.tickersOnce.Do(func() {
		c.tickersErr = c.loadTickerDirectory(ctx)
	})
	if c.tickersErr != nil {
		return "", c.tickersErr
	}

	key := strings.ToUpper(strings.TrimSuffix(ticker, ".US"))
	cik, ok := c.cikByTicker[key]
	if !ok {
		return "", fmt.Errorf("no CIK for ticker %s", ticker)
	}
	return cik, nil
}

func (c *Client) loadTickerDirectory(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var raw map[string]tickerEntry
	if err := c.httpClient.GetJSON(ctx, "https://www.sec.gov/files/company_tickers.json", &raw); err != nil {
		return fmt.Errorf("load ticker directory: %w", err)
	}

	c.cikByTicker = make(map[string]string, len(raw))
	for _, entry := range raw {
		c.cikByTicker[strings.ToUpper(entry.Ticker)] = fmt.Sprintf("%010d", entry.CIK)
	}

	c.logger.WithField("ticker_count", len(c.cikByTicker)).Info("Loaded EDGAR ticker directory")
	return nil
}
