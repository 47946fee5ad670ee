package periods

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
		ok    bool
	}{
		{"iso date", "2024-12-31", "2024-12-31", true},
		{"slash date", "2024/12/31", "2024-12-31", true},
		{"timestamp", "2024-12-31T00:00:00", "2024-12-31", true},
		{"timestamp zulu", "2024-12-31T00:00:00Z", "2024-12-31", true},
		{"space timestamp", "2024-12-31 15:04:05", "2024-12-31", true},
		{"garbage", "31. Dezember", "", false},
		{"empty", "", "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestNormalize_FlatFields(t *testing.T) {
	raw := map[string]interface{}{
		"statement_date":    "2025-03-31",
		"currency":          "jpy",
		"current_assets":    1000.0,
		"total_liabilities": 400.0,
		"shares_out":        50.0,
	}

	p := Normalize(raw, contracts.SourceQuarterly)
	require.NotNil(t, p)

	assert.Equal(t, "2025-03-31", p.Date.Format("2006-01-02"))
	assert.Equal(t, "2025-03-31", p.DateLabel)
	assert.Equal(t, contracts.SourceQuarterly, p.Source)
	require.NotNil(t, p.Currency)
	assert.Equal(t, "JPY", *p.Currency)
	require.NotNil(t, p.CurrentAssets)
	assert.Equal(t, 1000.0, *p.CurrentAssets)
	require.NotNil(t, p.TotalLiabilities)
	assert.Equal(t, 400.0, *p.TotalLiabilities)
	require.NotNil(t, p.SharesOutstanding)
	assert.Equal(t, 50.0, *p.SharesOutstanding)
}

func TestNormalize_BalanceContainerAndWrappers(t *testing.T) {
	raw := map[string]interface{}{
		"period_end": "2024-12-31",
		"balance_sheet": map[string]interface{}{
			"assets_current": map[string]interface{}{"val": 800.0, "unit": "CNY"},
			"liab_total":     "300",
			"currency":       "rmb",
		},
	}

	p := Normalize(raw, contracts.SourceAnnual)
	require.NotNil(t, p)

	require.NotNil(t, p.CurrentAssets)
	assert.Equal(t, 800.0, *p.CurrentAssets)
	require.NotNil(t, p.TotalLiabilities)
	assert.Equal(t, 300.0, *p.TotalLiabilities)
	// Currency only sniffs the "balance" container, not "balance_sheet"
	assert.Nil(t, p.Currency)
}

func TestNormalize_AliasPriority(t *testing.T) {
	// First-present alias wins even when a later alias also exists
	raw := map[string]interface{}{
		"date":           "2024-06-30",
		"assets_current": 500.0,
		"current_assets": 999.0,
	}

	p := Normalize(raw, contracts.SourceQuarterly)
	require.NotNil(t, p)
	require.NotNil(t, p.CurrentAssets)
	assert.Equal(t, 500.0, *p.CurrentAssets)
}

func TestNormalize_NoDate(t *testing.T) {
	raw := map[string]interface{}{"current_assets": 100.0}
	assert.Nil(t, Normalize(raw, contracts.SourceQuarterly))
}

func TestNormalize_SharesFromMeta(t *testing.T) {
	raw := map[string]interface{}{
		"statement_date": "2024-09-30",
		"meta": map[string]interface{}{
			"shares_outstanding": 123.0,
		},
	}

	p := Normalize(raw, contracts.SourceQuarterly)
	require.NotNil(t, p)
	require.NotNil(t, p.SharesOutstanding)
	assert.Equal(t, 123.0, *p.SharesOutstanding)
}

func TestBuildTimeline_MergeAndDedupe(t *testing.T) {
	core := contracts.CoreRecord{
		"quarterly": []interface{}{
			map[string]interface{}{"statement_date": "2025-03-31", "current_assets": 100.0},
			map[string]interface{}{"statement_date": "2024-12-31", "current_assets": 90.0},
		},
		"annual": []interface{}{
			// Same date as a quarterly period: the quarterly one must win
			map[string]interface{}{"statement_date": "2024-12-31", "current_assets": 85.0},
			map[string]interface{}{"statement_date": "2023-12-31", "current_assets": 80.0},
		},
	}

	timeline := BuildTimeline(core)
	require.Len(t, timeline, 3)

	assert.Equal(t, "2025-03-31", timeline[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-12-31", timeline[1].Date.Format("2006-01-02"))
	assert.Equal(t, contracts.SourceQuarterly, timeline[1].Source)
	assert.Equal(t, 90.0, *timeline[1].CurrentAssets)
	assert.Equal(t, "2023-12-31", timeline[2].Date.Format("2006-01-02"))
	assert.Equal(t, contracts.SourceAnnual, timeline[2].Source)
}

func TestBuildTimeline_LegacyShapes(t *testing.T) {
	t.Run("financials with periods list", func(t *testing.T) {
		core := contracts.CoreRecord{
			"financials": map[string]interface{}{
				"quarterly": map[string]interface{}{
					"periods": []interface{}{
						map[string]interface{}{"statement_date": "2024-12-31"},
					},
				},
			},
		}
		assert.Len(t, BuildTimeline(core), 1)
	})

	t.Run("financials with bare list", func(t *testing.T) {
		core := contracts.CoreRecord{
			"financials": map[string]interface{}{
				"annual": []interface{}{
					map[string]interface{}{"statement_date": "2024-12-31"},
				},
			},
		}
		assert.Len(t, BuildTimeline(core), 1)
	})

	t.Run("top level buckets", func(t *testing.T) {
		core := contracts.CoreRecord{
			"quarterly": []interface{}{
				map[string]interface{}{"statement_date": "2024-12-31"},
			},
		}
		assert.Len(t, BuildTimeline(core), 1)
	})
}

func TestListingCurrency(t *testing.T) {
	t.Run("meta wins", func(t *testing.T) {
		core := contracts.CoreRecord{
			"meta": map[string]interface{}{"currency": "hkd"},
			"quarterly": []interface{}{
				map[string]interface{}{"statement_date": "2024-12-31", "currency": "USD"},
			},
		}
		got := ListingCurrency(core)
		require.NotNil(t, got)
		assert.Equal(t, "HKD", *got)
	})

	t.Run("falls back to latest period", func(t *testing.T) {
		core := contracts.CoreRecord{
			"quarterly": []interface{}{
				map[string]interface{}{"statement_date": "2024-12-31", "currency": "JPY"},
			},
		}
		got := ListingCurrency(core)
		require.NotNil(t, got)
		assert.Equal(t, "JPY", *got)
	})

	t.Run("nothing stated", func(t *testing.T) {
		assert.Nil(t, ListingCurrency(contracts.CoreRecord{}))
	})
}

func TestSortDesc_QuarterlyBeforeAnnualOnTie(t *testing.T) {
	date := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	timeline := contracts.PeriodTimeline{
		{Date: date, Source: contracts.SourceAnnual},
		{Date: date, Source: contracts.SourceQuarterly},
	}

	sortDesc(timeline)

	assert.Equal(t, contracts.SourceQuarterly, timeline[0].Source)
	assert.Equal(t, contracts.SourceAnnual, timeline[1].Source)
}
