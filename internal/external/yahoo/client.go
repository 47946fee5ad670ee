// Package yahoo talks to the public market-data endpoints: last prices per
// listing and the daily FX rate table. Everything is rate limited because
// these endpoints throttle aggressively and ban repeat offenders.
package yahoo

import (
	"golang.org/x/time/rate"

	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/config"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/httputil"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

// Client handles communication with the Yahoo Finance quote API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new Yahoo client.
func NewClient(cfg config.YahooConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "yahoo"),
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}
