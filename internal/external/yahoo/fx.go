package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/fx"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/config"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/redis"
)

const fxCacheKey = "fx:rates_to_usd"

// Emergency rates in units-per-USD, used when both the cache and the feed
// are unavailable. Deliberately tiny: enough to keep the majors converting.
var fallbackUnitsPerUSD = map[string]float64{
	"USD": 1,
	"JPY": 150,
	"HKD": 7.8,
	"CNY": 7.2,
}

// latestResponse mirrors an exchangerate.host style latest payload with
// USD-base quotes in units-per-USD.
type latestResponse struct {
	Success bool               `json:"success"`
	Base    string             `json:"base"`
	Rates   map[string]float64 `json:"rates"`
}

// FXRateProvider serves the currency -> USD-per-unit table the valuation
// consumes, caching the table for FXConfig.CacheTTL (a day by default).
type FXRateProvider struct {
	httpClient httpGetter
	cache      *redis.Cache
	cacheTTL   time.Duration
	logger     *logger.Logger
	baseURL    string
}

// httpGetter is the slice of httputil.Client the provider needs.
type httpGetter interface {
	GetJSON(ctx context.Context, url string, dest interface{}) error
}

// NewFXRateProvider wires the provider. cache may be nil.
func NewFXRateProvider(cfg config.FXConfig, httpClient httpGetter, cache *redis.Cache, log *logger.Logger) *FXRateProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.exchangerate.host"
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	return &FXRateProvider{
		httpClient: httpClient,
		cache:      cache,
		cacheTTL:   ttl,
		logger:     log.WithField("module", "fx_provider"),
		baseURL:    baseURL,
	}
}

// RatesToUSD returns the USD-per-unit rate table: cache first, then the
// feed, then the emergency fallback. The table always contains USD at 1.0.
func (p *FXRateProvider) RatesToUSD(ctx context.Context) (contracts.RateTable, error) {
	if p.cache != nil {
		var cached contracts.RateTable
		if hit, _ := p.cache.Get(ctx, fxCacheKey, &cached); hit && len(cached) > 0 {
			return cached, nil
		}
	}

	table, err := p.fetch(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("FX feed unavailable, using fallback rates")
		return invertToUSDPerUnit(fallbackUnitsPerUSD), nil
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, fxCacheKey, table, p.cacheTTL); err != nil {
			p.logger.WithError(err).Warn("Failed to cache fx rates")
		}
	}

	return table, nil
}

// Refresh bypasses the cache, pulls a fresh table from the feed and
// re-caches it. Used by the daily rate job.
func (p *FXRateProvider) Refresh(ctx context.Context) (contracts.RateTable, error) {
	table, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		if err := p.cache.Set(ctx, fxCacheKey, table, p.cacheTTL); err != nil {
			p.logger.WithError(err).Warn("Failed to cache fx rates")
		}
	}
	return table, nil
}

func (p *FXRateProvider) fetch(ctx context.Context) (contracts.RateTable, error) {
	reqURL := fmt.Sprintf("%s/latest?base=USD", p.baseURL)

	var resp latestResponse
	if err := p.httpClient.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("fetch fx rates: %w", err)
	}
	if len(resp.Rates) == 0 {
		return nil, fmt.Errorf("fx feed returned no rates")
	}

	table := invertToUSDPerUnit(resp.Rates)
	if len(table) == 0 {
		return nil, fmt.Errorf("fx feed returned no usable rates")
	}

	p.logger.WithField("currency_count", len(table)).Info("Fetched fx rate table")
	return table, nil
}

// invertToUSDPerUnit turns USD-base quotes (units of currency per USD) into
// the USD-per-unit table used everywhere downstream, dropping junk entries.
func invertToUSDPerUnit(unitsPerUSD map[string]float64) contracts.RateTable {
	table := make(contracts.RateTable, len(unitsPerUSD)+1)
	for code, units := range unitsPerUSD {
		if units <= 0 {
			continue
		}
		table[fx.NormalizeCurrency(code)] = 1 / units
	}
	table["USD"] = 1.0
	return fx.NormalizeRates(table)
}
