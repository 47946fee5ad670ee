package valuation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
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
		Workers:              1,
	}
}

func testAnalyzer() *Analyzer {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	return NewAnalyzer(testScreeningConfig(), logger.NewNop()).
		WithClock(func() time.Time { return now })
}

func testCore() contracts.CoreRecord {
	return contracts.CoreRecord{
		"meta": map[string]interface{}{
			"exchange":    "TSE",
			"country_iso": "JP",
			"sector":      "Industrials",
			"currency":    "JPY",
		},
		"quarterly": []interface{}{
			map[string]interface{}{
				"statement_date":      "2025-09-30",
				"current_assets":      500.0,
				"total_assets":        800.0,
				"current_liabilities": 150.0,
				"total_liabilities":   200.0,
				"shares_out":          100.0,
			},
			map[string]interface{}{
				"statement_date":    "2025-06-30",
				"current_assets":    480.0,
				"total_liabilities": 210.0,
				"shares_out":        100.0,
			},
			map[string]interface{}{
				"statement_date":    "2024-09-30",
				"current_assets":    450.0,
				"total_liabilities": 250.0,
				"shares_out":        90.0,
			},
		},
	}
}

func TestAnalyze_FullRecord(t *testing.T) {
	a := testAnalyzer()
	rates := contracts.RateTable{"USD": 1.0, "JPY": 1.0 / 150.0}

	res, err := a.Analyze(Input{
		Ticker:    "7203.JP",
		Core:      testCore(),
		LastPrice: fp(1.8),
		InsiderBlob: map[string]interface{}{
			"total_buy_trades":  3.0,
			"total_sell_trades": 0.0,
		},
		Rates: rates,
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	// Identity and meta
	assert.Equal(t, "7203.JP", res.Ticker)
	require.NotNil(t, res.Exchange)
	assert.Equal(t, "TSE", *res.Exchange)
	require.NotNil(t, res.CountryISO)
	assert.Equal(t, "JP", *res.CountryISO)
	require.NotNil(t, res.ReportingCurrency)
	assert.Equal(t, "JPY", *res.ReportingCurrency)
	require.NotNil(t, res.LatestFSDate)
	assert.Equal(t, "2025-09-30", *res.LatestFSDate)
	assert.Equal(t, 3, res.CorePeriodCount)

	// Snapshot metrics
	require.NotNil(t, res.CurrentRatio)
	assert.InDelta(t, 500.0/150.0, *res.CurrentRatio, 1e-9)
	require.NotNil(t, res.DebtToEquity)
	assert.InDelta(t, 200.0/600.0, *res.DebtToEquity, 1e-9)
	require.NotNil(t, res.NCAVTotalNative)
	assert.Equal(t, 300.0, *res.NCAVTotalNative)
	require.NotNil(t, res.NCAVPerShare)
	assert.InDelta(t, 3.0, *res.NCAVPerShare, 1e-9)
	require.NotNil(t, res.NCAVTotalUSD)
	assert.InDelta(t, 2.0, *res.NCAVTotalUSD, 1e-9)

	// Price vs NCAV
	require.NotNil(t, res.PriceToNCAVPS)
	assert.InDelta(t, 0.6, *res.PriceToNCAVPS, 1e-9)
	require.NotNil(t, res.MarginOfSafety)
	assert.InDelta(t, 0.4, *res.MarginOfSafety, 1e-9)
	assert.True(t, res.PassesPriceToNCAVRule)

	// FX diagnostics
	require.NotNil(t, res.FXRateUsed)
	assert.InDelta(t, 1.0/150.0, *res.FXRateUsed, 1e-12)
	require.NotNil(t, res.FXSource)
	assert.Equal(t, "cache", *res.FXSource)
	assert.Nil(t, res.NCAVPSFXNote)

	// Trends: QoQ pairs 2025-09-30 with 2025-06-30 (92d gap)
	require.NotNil(t, res.NCAVChangeQoQ)
	assert.InDelta(t, 30.0/270.0, *res.NCAVChangeQoQ, 1e-9)
	require.NotNil(t, res.DilutionQoQ)
	assert.InDelta(t, 0.0, *res.DilutionQoQ, 1e-9)

	// YoY pairs with 2024-09-30 (365d gap)
	require.NotNil(t, res.NCAVChangeYoY)
	assert.InDelta(t, 100.0/200.0, *res.NCAVChangeYoY, 1e-9)
	require.NotNil(t, res.DilutionYoY)
	assert.InDelta(t, 10.0/90.0, *res.DilutionYoY, 1e-9)

	// Window extrema
	require.NotNil(t, res.MaxDilution1Y)
	assert.InDelta(t, 10.0/90.0, *res.MaxDilution1Y, 1e-9)
	require.NotNil(t, res.MaxBuyback3Y)
	assert.InDelta(t, 0.0, *res.MaxBuyback3Y, 1e-9)
	assert.True(t, res.HasRecentDilution)
	assert.False(t, res.HasRecentBuyback)

	// Recency: 2025-09-30 is 62 days before the fixed clock
	assert.False(t, res.IsOutdated)
	require.NotNil(t, res.DataAgeDays)
	assert.Equal(t, 62, *res.DataAgeDays)

	// Insider
	assert.Equal(t, contracts.InsiderBuy, res.InsiderSignal)
	require.NotNil(t, res.InsiderRecords)
	assert.Equal(t, 3.0, *res.InsiderRecords)

	// Flags
	assert.Equal(t, []string{
		"Trading ≤ 2/3 NCAV",
		"Current ratio ≥ 2",
		"NCAV stable YoY or improving",
	}, res.GreenFlags)
	assert.Equal(t, []string{
		"Dilution YoY >5%",
		"Issued >8% in last 12m",
	}, res.RedFlags)
}

func TestAnalyze_EmptyTicker(t *testing.T) {
	a := testAnalyzer()

	_, err := a.Analyze(Input{Ticker: "   "})
	assert.Error(t, err)
}

func TestAnalyze_NoPeriods(t *testing.T) {
	a := testAnalyzer()

	res, err := a.Analyze(Input{Ticker: "EMPTY.US", Core: contracts.CoreRecord{}})
	require.NoError(t, err)

	assert.True(t, res.IsOutdated)
	assert.Nil(t, res.DataAgeDays)
	assert.Nil(t, res.NCAVPerShare)
	require.NotNil(t, res.Note)
	assert.Equal(t, "no financial periods", *res.Note)
	assert.Equal(t, 0, res.CorePeriodCount)
	assert.Equal(t, contracts.InsiderNone, res.InsiderSignal)
}

func TestAnalyze_MissingRate(t *testing.T) {
	a := testAnalyzer()

	res, err := a.Analyze(Input{
		Ticker: "7203.JP",
		Core:   testCore(),
		Rates:  contracts.RateTable{"USD": 1.0},
	})
	require.NoError(t, err)

	assert.Nil(t, res.NCAVTotalUSD)
	assert.Nil(t, res.FXRateUsed)
	require.NotNil(t, res.NCAVPSFXNote)
	assert.Equal(t, "no USD rate for JPY", *res.NCAVPSFXNote)

	// Native math is unaffected by the missing rate
	require.NotNil(t, res.NCAVTotalNative)
	assert.Equal(t, 300.0, *res.NCAVTotalNative)
}

func TestAnalyze_NegativeNCAVPerShare(t *testing.T) {
	a := testAnalyzer()
	core := contracts.CoreRecord{
		"quarterly": []interface{}{
			map[string]interface{}{
				"statement_date":    "2025-09-30",
				"current_assets":    100.0,
				"total_liabilities": 300.0,
				"shares_out":        100.0,
			},
		},
	}

	res, err := a.Analyze(Input{
		Ticker:    "NEG.US",
		Core:      core,
		LastPrice: fp(10.0),
		Rates:     contracts.RateTable{"USD": 1.0},
	})
	require.NoError(t, err)

	// Nonzero negative NCAV per share still yields a ratio.
	require.NotNil(t, res.NCAVPerShare)
	assert.InDelta(t, -2.0, *res.NCAVPerShare, 1e-9)
	require.NotNil(t, res.PriceToNCAVPS)
	assert.InDelta(t, -5.0, *res.PriceToNCAVPS, 1e-9)
	require.NotNil(t, res.MarginOfSafety)
	assert.InDelta(t, 6.0, *res.MarginOfSafety, 1e-9)

	// A negative ratio sits below the 2/3 cutoff, so the cheapness
	// checks fire the same way they do in the shortlist reports.
	assert.True(t, res.PassesPriceToNCAVRule)
	assert.Contains(t, res.GreenFlags, "Trading ≤ 2/3 NCAV")
}

func TestAnalyze_ZeroNCAVPerShare(t *testing.T) {
	a := testAnalyzer()
	core := contracts.CoreRecord{
		"quarterly": []interface{}{
			map[string]interface{}{
				"statement_date":    "2025-09-30",
				"current_assets":    300.0,
				"total_liabilities": 300.0,
				"shares_out":        100.0,
			},
		},
	}

	res, err := a.Analyze(Input{
		Ticker:    "FLAT.US",
		Core:      core,
		LastPrice: fp(10.0),
		Rates:     contracts.RateTable{"USD": 1.0},
	})
	require.NoError(t, err)

	require.NotNil(t, res.NCAVPerShare)
	assert.Equal(t, 0.0, *res.NCAVPerShare)
	assert.Nil(t, res.PriceToNCAVPS)
	assert.Nil(t, res.MarginOfSafety)
	assert.False(t, res.PassesPriceToNCAVRule)
}

func TestAnalyze_CandidateCarryover(t *testing.T) {
	a := testAnalyzer()
	note := "no shares_out"
	src := "quarterly"

	res, err := a.Analyze(Input{
		Ticker: "7203.JP",
		Core:   testCore(),
		Candidate: &contracts.NCAVCandidate{
			Ticker:       "7203.JP",
			NCAVPerShare: fp(2.9),
			FSSource:     &src,
			Note:         &note,
		},
	})
	require.NoError(t, err)

	require.NotNil(t, res.NCAVPSShortlist)
	assert.Equal(t, 2.9, *res.NCAVPSShortlist)
	require.NotNil(t, res.FSSource)
	assert.Equal(t, "quarterly", *res.FSSource)
	require.NotNil(t, res.Note)
	assert.Equal(t, note, *res.Note)
}

func TestAnalyze_InsiderNone(t *testing.T) {
	a := testAnalyzer()

	res, err := a.Analyze(Input{Ticker: "7203.JP", Core: testCore()})
	require.NoError(t, err)
	assert.Equal(t, contracts.InsiderNone, res.InsiderSignal)
	assert.Nil(t, res.InsiderRecords)
}
