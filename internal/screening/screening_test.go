package screening

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/valuation"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/config"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

func fp(v float64) *float64 { return &v }

func testScreeningConfig() config.ScreeningConfig {
	return config.ScreeningConfig{
		ViabilityMaxAgeDays:  730,
		StaleAfterDays:       540,
		DilutionWindow1YDays: 365,
		DilutionWindow3YDays: 1095,
		QoQGapDays:           90,
		QoQToleranceDays:     45,
		HoHGapDays:           180,
		HoHToleranceDays:     60,
		YoYGapDays:           365,
		YoYToleranceDays:     90,
		MaxPriceToNCAV:       2.0 / 3.0,
		MinCurrentRatio:      2.0,
		MaxDebtToEquity:      1.5,
		MaxPeriodDilution:    0.05,
		MaxDilution1Y:        0.08,
		MaxIssuance3Y:        0.20,
		MinBuyback3Y:         -0.05,
		Workers:              3,
	}
}

// In-memory fakes over the repository ports.

type fakeStore struct {
	mu         sync.Mutex
	cores      map[string]contracts.CoreRecord
	insiders   map[string]map[string]interface{}
	candidates map[string]*contracts.NCAVCandidate
	valuations map[string]*contracts.ValuationResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cores:      map[string]contracts.CoreRecord{},
		insiders:   map[string]map[string]interface{}{},
		candidates: map[string]*contracts.NCAVCandidate{},
		valuations: map[string]*contracts.ValuationResult{},
	}
}

func (f *fakeStore) LoadCore(ctx context.Context, ticker string) (contracts.CoreRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cores[ticker], nil
}

func (f *fakeStore) LoadInsiders(ctx context.Context, ticker string) (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insiders[ticker], nil
}

func (f *fakeStore) SaveCandidate(ctx context.Context, candidate *contracts.NCAVCandidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates[candidate.Ticker] = candidate
	return nil
}

func (f *fakeStore) GetCandidate(ctx context.Context, ticker string) (*contracts.NCAVCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.candidates[ticker], nil
}

func (f *fakeStore) SaveValuation(ctx context.Context, result *contracts.ValuationResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.valuations[result.Ticker] = result
	return nil
}

func (f *fakeStore) ListValuations(ctx context.Context, limit int) ([]*contracts.ValuationResult, error) {
	return nil, nil
}

func (f *fakeStore) GetValuation(ctx context.Context, ticker string) (*contracts.ValuationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.valuations[ticker], nil
}

type fakeFX struct{ rates contracts.RateTable }

func (f *fakeFX) RatesToUSD(ctx context.Context) (contracts.RateTable, error) {
	return f.rates, nil
}

type fakePrices struct{ prices map[string]float64 }

func (f *fakePrices) LastPrice(ctx context.Context, ticker string) (*float64, error) {
	if v, ok := f.prices[ticker]; ok {
		return &v, nil
	}
	return nil, nil
}

func coreFor(date string, ca, tl, shares float64) contracts.CoreRecord {
	return contracts.CoreRecord{
		"meta": map[string]interface{}{"currency": "USD"},
		"quarterly": []interface{}{
			map[string]interface{}{
				"statement_date":    date,
				"current_assets":    ca,
				"total_liabilities": tl,
				"shares_out":        shares,
			},
		},
	}
}

func TestService_Screen(t *testing.T) {
	cfg := testScreeningConfig()
	log := logger.NewNop()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.cores["AAA.US"] = coreFor("2025-09-30", 500, 200, 100)
	store.cores["BBB.US"] = coreFor("2025-09-30", 300, 250, 100)
	// CCC.US has no core record and must fail without sinking the run

	analyzer := valuation.NewAnalyzer(cfg, log).WithClock(func() time.Time { return now })
	svc := NewService(
		analyzer, store, store,
		&fakeFX{rates: contracts.RateTable{"USD": 1.0}},
		&fakePrices{prices: map[string]float64{"AAA.US": 1.5}},
		store, store, cfg, log,
	)

	results, err := svc.Screen(context.Background(), []contracts.ShortlistItem{
		{Ticker: "AAA.US"},
		{Ticker: "BBB.US", LastPrice: 0.6},
		{Ticker: "CCC.US"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	byTicker := map[string]RunResult{}
	for _, r := range results {
		byTicker[r.Ticker] = r
	}

	// AAA: NCAV/share 3.0, live quote 1.5 -> passes
	aaa := byTicker["AAA.US"]
	require.NoError(t, aaa.Error)
	require.NotNil(t, aaa.Result.PriceToNCAVPS)
	assert.InDelta(t, 0.5, *aaa.Result.PriceToNCAVPS, 1e-9)
	assert.True(t, aaa.Result.PassesPriceToNCAVRule)

	// BBB: no live quote, shortlist price 0.6 vs NCAV/share 0.5 -> fails rule
	bbb := byTicker["BBB.US"]
	require.NoError(t, bbb.Error)
	require.NotNil(t, bbb.Result.PriceToNCAVPS)
	assert.InDelta(t, 1.2, *bbb.Result.PriceToNCAVPS, 1e-9)
	assert.False(t, bbb.Result.PassesPriceToNCAVRule)

	// CCC: failed, error reported, nothing persisted
	assert.Error(t, byTicker["CCC.US"].Error)

	// Successful results were persisted
	assert.Len(t, store.valuations, 2)
}

func TestService_Screen_EmptyShortlist(t *testing.T) {
	cfg := testScreeningConfig()
	log := logger.NewNop()
	analyzer := valuation.NewAnalyzer(cfg, log)
	svc := NewService(analyzer, newFakeStore(), nil, &fakeFX{}, nil, nil, nil, cfg, log)

	results, err := svc.Screen(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestShortlistBuilder_Build(t *testing.T) {
	cfg := testScreeningConfig()
	log := logger.NewNop()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.cores["GOOD.US"] = coreFor("2025-09-30", 500, 200, 100)
	store.cores["NOSHARES.US"] = contracts.CoreRecord{
		"quarterly": []interface{}{
			map[string]interface{}{
				"statement_date":    "2025-09-30",
				"current_assets":    500.0,
				"total_liabilities": 200.0,
			},
		},
	}
	store.cores["STALE.US"] = coreFor("2022-06-30", 500, 200, 100)

	builder := NewShortlistBuilder(store, store, cfg, log).
		WithClock(func() time.Time { return now })

	candidates, err := builder.Build(context.Background(), []string{
		"GOOD.US", "NOSHARES.US", "STALE.US", "MISSING.US",
	})
	require.NoError(t, err)
	// MISSING.US has no core record and is skipped entirely
	require.Len(t, candidates, 3)

	byTicker := map[string]*contracts.NCAVCandidate{}
	for _, c := range candidates {
		byTicker[c.Ticker] = c
	}

	good := byTicker["GOOD.US"]
	require.NotNil(t, good)
	assert.Nil(t, good.Note)
	require.NotNil(t, good.NCAVPerShare)
	assert.InDelta(t, 3.0, *good.NCAVPerShare, 1e-9)
	require.NotNil(t, good.StatementDate)
	assert.Equal(t, "2025-09-30", *good.StatementDate)
	require.NotNil(t, good.FSSource)
	assert.Equal(t, "quarterly", *good.FSSource)
	assert.Len(t, good.StatementSig, 16)

	noShares := byTicker["NOSHARES.US"]
	require.NotNil(t, noShares)
	require.NotNil(t, noShares.Note)
	assert.Equal(t, "no shares_out", *noShares.Note)

	stale := byTicker["STALE.US"]
	require.NotNil(t, stale)
	require.NotNil(t, stale.Note)
	assert.Contains(t, *stale.Note, "no viable FS column")

	// Every candidate was cached, including the non-viable ones
	assert.Len(t, store.candidates, 3)
}

func TestStatementSig_Stability(t *testing.T) {
	date := "2025-09-30"
	cand := func() *contracts.NCAVCandidate {
		return &contracts.NCAVCandidate{
			CurrentAssets: fp(500),
			TotalLiab:     fp(200),
			SharesOut:     fp(100),
			StatementDate: &date,
		}
	}

	a := statementSig("AAA.US", cand())
	b := statementSig("AAA.US", cand())
	assert.Equal(t, a, b)

	changed := cand()
	changed.CurrentAssets = fp(501)
	assert.NotEqual(t, a, statementSig("AAA.US", changed))

	assert.NotEqual(t, a, statementSig("BBB.US", cand()))
}

func TestResolvePrice(t *testing.T) {
	cfg := testScreeningConfig()
	log := logger.NewNop()
	analyzer := valuation.NewAnalyzer(cfg, log)

	t.Run("shortlist fallback", func(t *testing.T) {
		svc := NewService(analyzer, newFakeStore(), nil, &fakeFX{}, &fakePrices{}, nil, nil, cfg, log)
		got := svc.resolvePrice(context.Background(), contracts.ShortlistItem{Ticker: "X", LastPrice: 2.5})
		require.NotNil(t, got)
		assert.Equal(t, 2.5, *got)
	})

	t.Run("no price anywhere", func(t *testing.T) {
		svc := NewService(analyzer, newFakeStore(), nil, &fakeFX{}, &fakePrices{}, nil, nil, cfg, log)
		assert.Nil(t, svc.resolvePrice(context.Background(), contracts.ShortlistItem{Ticker: "X"}))
	})
}
