package contracts

import "context"

// CoreRepository loads raw financial-core records by ticker. A missing
// record is (nil, nil); the screening layer skips it.
type CoreRepository interface {
	LoadCore(ctx context.Context, ticker string) (CoreRecord, error)
}

// InsiderRepository loads the raw insider-activity blob for a ticker, or
// nil when nothing was cached.
type InsiderRepository interface {
	LoadInsiders(ctx context.Context, ticker string) (map[string]interface{}, error)
}

// FXProvider supplies a currency -> USD-per-unit rate table. Implementations
// own caching and fallback; the table handed out is never mutated.
type FXProvider interface {
	RatesToUSD(ctx context.Context) (RateTable, error)
}

// PriceProvider returns the last traded price for a ticker in its quote
// currency, or nil when unavailable.
type PriceProvider interface {
	LastPrice(ctx context.Context, ticker string) (*float64, error)
}

// ValuationRepository persists finished valuation results.
type ValuationRepository interface {
	SaveValuation(ctx context.Context, result *ValuationResult) error
	ListValuations(ctx context.Context, limit int) ([]*ValuationResult, error)
	GetValuation(ctx context.Context, ticker string) (*ValuationResult, error)
}

// CandidateRepository caches shortlist-phase NCAV candidates keyed by
// ticker, with statement-signature dedupe.
type CandidateRepository interface {
	SaveCandidate(ctx context.Context, candidate *NCAVCandidate) error
	GetCandidate(ctx context.Context, ticker string) (*NCAVCandidate, error)
}

// ShortlistRepository loads the shortlist driving a screening run.
type ShortlistRepository interface {
	LoadShortlist(ctx context.Context) ([]ShortlistItem, error)
}
