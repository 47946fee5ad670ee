// Package fx holds the numeric and currency utilities every other stage
// leans on: lossy-input-tolerant number coercion, currency alias
// normalization and USD-pivot conversion.
package fx

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

// aliases maps non-ISO currency spellings seen in the feeds onto the code
// the rate tables use. Offshore and onshore RMB are treated the same for
// NCAV purposes.
var aliases = map[string]string{
	"RMB": "CNY",
	"CNH": "CNY",
}

// SafeNumber coerces a raw feed value to a float. Nil, blank strings,
// "nan"/"none" markers, NaN floats, {"val": x} wrappers and unparseable
// strings all come back as nil. It never panics.
func SafeNumber(raw interface{}) *float64 {
	if raw == nil {
		return nil
	}

	// Cached feed shapes wrap values: {"val": 123.0, "unit": "CNY"}
	if m, ok := raw.(map[string]interface{}); ok {
		inner, ok := m["val"]
		if !ok {
			return nil
		}
		return SafeNumber(inner)
	}

	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		f := v
		return &f
	case float32:
		return SafeNumber(float64(v))
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case json.Number:
		return SafeNumber(v.String())
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		lower := strings.ToLower(s)
		if lower == "nan" || lower == "none" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// NormalizeCurrency uppercases a currency code and resolves aliases.
// Empty in, empty out.
func NormalizeCurrency(code string) string {
	if code == "" {
		return ""
	}
	up := strings.ToUpper(strings.TrimSpace(code))
	if mapped, ok := aliases[up]; ok {
		return mapped
	}
	return up
}

// NormalizeRates alias-normalizes the key set of a raw rate table. Zero and
// negative rates are dropped; on duplicate keys the last write wins.
func NormalizeRates(raw contracts.RateTable) contracts.RateTable {
	out := make(contracts.RateTable, len(raw))
	for code, rate := range raw {
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			continue
		}
		out[NormalizeCurrency(code)] = rate
	}
	return out
}

// Convert converts amount from one currency to another via USD. The table
// stores USD-per-unit rates, so going into a foreign target divides by that
// target's USD value. Absent amount, absent codes or missing table entries
// all yield nil; equal codes return the amount unchanged.
func Convert(amount *float64, fromCcy, toCcy string, rates contracts.RateTable) *float64 {
	if amount == nil {
		return nil
	}
	if fromCcy == "" || toCcy == "" {
		return nil
	}

	from := NormalizeCurrency(fromCcy)
	to := NormalizeCurrency(toCcy)

	// Same currency: no conversion
	if from == to {
		v := *amount
		return &v
	}

	fromRate, ok := rates[from]
	if !ok {
		return nil
	}
	usd := *amount * fromRate

	if to == "USD" {
		return &usd
	}

	toRate, ok := rates[to]
	if !ok || toRate == 0 {
		return nil
	}
	// 1 unit of target = toRate USD, so 1 USD = 1/toRate units
	v := usd / toRate
	return &v
}
