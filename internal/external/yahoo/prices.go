package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/redis"
)

// chartResponse mirrors the slice of the v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				Currency           string   `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// PriceProvider serves last traded prices with a short cache in front of
// the quote endpoint.
type PriceProvider struct {
	client *Client
	cache  *redis.Cache
}

// NewPriceProvider wires the provider. cache may be nil.
func NewPriceProvider(client *Client, cache *redis.Cache) *PriceProvider {
	return &PriceProvider{client: client, cache: cache}
}

// LastPrice returns the last traded price in the listing's quote currency,
// or nil when the symbol has no quote.
func (p *PriceProvider) LastPrice(ctx context.Context, ticker string) (*float64, error) {
	symbol := ToYahooSymbol(ticker)
	cacheKey := "price:" + symbol

	if p.cache != nil {
		var cached float64
		if hit, _ := p.cache.Get(ctx, cacheKey, &cached); hit {
			return &cached, nil
		}
	}

	if err := p.client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d",
		p.client.baseURL, url.PathEscape(symbol))

	var resp chartResponse
	if err := p.client.httpClient.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		p.client.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"code":   resp.Chart.Error.Code,
		}).Warn("Quote endpoint returned an error")
		return nil, nil
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	price := resp.Chart.Result[0].Meta.RegularMarketPrice
	if price == nil {
		return nil, nil
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, cacheKey, *price, redis.TTLShort); err != nil {
			p.client.logger.WithError(err).Warn("Failed to cache price")
		}
	}

	return price, nil
}
