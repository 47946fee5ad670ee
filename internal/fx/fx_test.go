package fx

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

func fp(v float64) *float64 { return &v }

func TestSafeNumber(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  *float64
	}{
		{"nil", nil, nil},
		{"float64", 12.5, fp(12.5)},
		{"float64 zero", 0.0, fp(0)},
		{"nan float", math.NaN(), nil},
		{"positive inf", math.Inf(1), nil},
		{"int", 42, fp(42)},
		{"int64", int64(7), fp(7)},
		{"numeric string", " 3.25 ", fp(3.25)},
		{"empty string", "", nil},
		{"blank string", "   ", nil},
		{"nan string", "NaN", nil},
		{"none string", "None", nil},
		{"garbage string", "abc", nil},
		{"json number", json.Number("99.5"), fp(99.5)},
		{"val wrapper", map[string]interface{}{"val": 10.0, "unit": "CNY"}, fp(10)},
		{"val wrapper string", map[string]interface{}{"val": "8.5"}, fp(8.5)},
		{"wrapper without val", map[string]interface{}{"value": 10.0}, nil},
		{"bool", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeNumber(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"usd", "USD"},
		{" jpy ", "JPY"},
		{"RMB", "CNY"},
		{"cnh", "CNY"},
		{"HKD", "HKD"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCurrency(tt.input); got != tt.want {
			t.Errorf("NormalizeCurrency(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeRates(t *testing.T) {
	raw := contracts.RateTable{
		"usd": 1.0,
		"RMB": 0.14,
		"JPY": 0.0067,
		"BAD": -1,
		"ZRO": 0,
	}

	out := NormalizeRates(raw)

	assert.Equal(t, 1.0, out["USD"])
	assert.Equal(t, 0.14, out["CNY"])
	assert.Equal(t, 0.0067, out["JPY"])
	assert.NotContains(t, out, "BAD")
	assert.NotContains(t, out, "ZRO")
}

func TestConvert(t *testing.T) {
	rates := contracts.RateTable{
		"USD": 1.0,
		"JPY": 1.0 / 150.0,
		"HKD": 1.0 / 7.8,
	}

	t.Run("same currency unchanged", func(t *testing.T) {
		got := Convert(fp(100), "JPY", "JPY", rates)
		require.NotNil(t, got)
		assert.Equal(t, 100.0, *got)
	})

	t.Run("to usd", func(t *testing.T) {
		got := Convert(fp(1500), "JPY", "USD", rates)
		require.NotNil(t, got)
		assert.InDelta(t, 10.0, *got, 1e-9)
	})

	t.Run("cross rate via usd", func(t *testing.T) {
		// 1500 JPY = 10 USD = 78 HKD
		got := Convert(fp(1500), "JPY", "HKD", rates)
		require.NotNil(t, got)
		assert.InDelta(t, 78.0, *got, 1e-9)
	})

	t.Run("alias source currency", func(t *testing.T) {
		withCNY := contracts.RateTable{"USD": 1.0, "CNY": 1.0 / 7.2}
		got := Convert(fp(72), "RMB", "USD", withCNY)
		require.NotNil(t, got)
		assert.InDelta(t, 10.0, *got, 1e-9)
	})

	t.Run("nil amount", func(t *testing.T) {
		assert.Nil(t, Convert(nil, "JPY", "USD", rates))
	})

	t.Run("missing source rate", func(t *testing.T) {
		assert.Nil(t, Convert(fp(10), "KRW", "USD", rates))
	})

	t.Run("missing target rate", func(t *testing.T) {
		assert.Nil(t, Convert(fp(10), "USD", "KRW", rates))
	})

	t.Run("empty codes", func(t *testing.T) {
		assert.Nil(t, Convert(fp(10), "", "USD", rates))
		assert.Nil(t, Convert(fp(10), "USD", "", rates))
	})
}
