package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

func fp(v float64) *float64 { return &v }

func TestCurrentRatio(t *testing.T) {
	tests := []struct {
		name string
		p    *contracts.FinancialPeriod
		want *float64
	}{
		{"normal", &contracts.FinancialPeriod{CurrentAssets: fp(200), CurrentLiabilities: fp(100)}, fp(2)},
		{"zero liabilities", &contracts.FinancialPeriod{CurrentAssets: fp(200), CurrentLiabilities: fp(0)}, nil},
		{"missing assets", &contracts.FinancialPeriod{CurrentLiabilities: fp(100)}, nil},
		{"nil period", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentRatio(tt.p)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestDebtToEquity(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		p := &contracts.FinancialPeriod{TotalAssets: fp(300), TotalLiabilities: fp(100)}
		got := DebtToEquity(p)
		require.NotNil(t, got)
		assert.InDelta(t, 0.5, *got, 1e-9)
	})

	t.Run("zero equity", func(t *testing.T) {
		p := &contracts.FinancialPeriod{TotalAssets: fp(100), TotalLiabilities: fp(100)}
		assert.Nil(t, DebtToEquity(p))
	})

	t.Run("negative equity", func(t *testing.T) {
		p := &contracts.FinancialPeriod{TotalAssets: fp(100), TotalLiabilities: fp(150)}
		got := DebtToEquity(p)
		require.NotNil(t, got)
		assert.InDelta(t, -3.0, *got, 1e-9)
	})
}

func TestNCAVNative(t *testing.T) {
	t.Run("current assets minus total liabilities", func(t *testing.T) {
		p := &contracts.FinancialPeriod{CurrentAssets: fp(500), TotalLiabilities: fp(300)}
		got := NCAVNative(p)
		require.NotNil(t, got)
		assert.Equal(t, 200.0, *got)
	})

	t.Run("total assets stand in for missing current assets", func(t *testing.T) {
		p := &contracts.FinancialPeriod{TotalAssets: fp(500), TotalLiabilities: fp(300)}
		got := NCAVNative(p)
		require.NotNil(t, got)
		assert.Equal(t, 200.0, *got)
	})

	t.Run("missing liabilities", func(t *testing.T) {
		p := &contracts.FinancialPeriod{CurrentAssets: fp(500)}
		assert.Nil(t, NCAVNative(p))
	})

	t.Run("negative ncav preserved", func(t *testing.T) {
		p := &contracts.FinancialPeriod{CurrentAssets: fp(100), TotalLiabilities: fp(300)}
		got := NCAVNative(p)
		require.NotNil(t, got)
		assert.Equal(t, -200.0, *got)
	})
}

func TestNCAVPerShare(t *testing.T) {
	p := &contracts.FinancialPeriod{CurrentAssets: fp(500), TotalLiabilities: fp(300)}

	t.Run("normal", func(t *testing.T) {
		got := NCAVPerShare(p, fp(100))
		require.NotNil(t, got)
		assert.Equal(t, 2.0, *got)
	})

	t.Run("zero shares", func(t *testing.T) {
		assert.Nil(t, NCAVPerShare(p, fp(0)))
	})

	t.Run("nil shares", func(t *testing.T) {
		assert.Nil(t, NCAVPerShare(p, nil))
	})
}

func TestNCAVUSD(t *testing.T) {
	rates := contracts.RateTable{"USD": 1.0, "JPY": 1.0 / 150.0}
	jpy := "JPY"

	t.Run("converted", func(t *testing.T) {
		p := &contracts.FinancialPeriod{
			CurrentAssets:    fp(30000),
			TotalLiabilities: fp(15000),
			Currency:         &jpy,
		}
		got := NCAVUSD(p, rates)
		require.NotNil(t, got)
		assert.InDelta(t, 100.0, *got, 1e-9)
	})

	t.Run("unknown currency", func(t *testing.T) {
		p := &contracts.FinancialPeriod{
			CurrentAssets:    fp(100),
			TotalLiabilities: fp(50),
		}
		assert.Nil(t, NCAVUSD(p, rates))
	})
}
