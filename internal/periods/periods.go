// Package periods turns heterogeneous raw feed records into the canonical
// period timeline. All shape tolerance lives here (historical field
// aliases, nested balance containers, wrapped values, legacy bucket
// layouts) so the computation stages only ever see contracts.FinancialPeriod.
package periods

import (
	"sort"
	"strings"
	"time"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/fx"
)

// dateLayouts are tried in order; first success wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
}

// dateFields are the keys a period's statement date may hide under, in
// priority order.
var dateFields = []string{"statement_date", "period_end", "date", "as_of_date", "fs_date"}

// currencyFields are checked at period level first, then inside the balance
// container.
var currencyFields = []string{"currency", "ccy", "report_ccy", "reporting_currency"}

// balanceContainers are the nested containers a balance field may sit in,
// checked before the flat period map.
var balanceContainers = []string{"balance", "balance_sheet", "bs"}

// fieldAliases is the ordered alias table per canonical field,
// first-present-wins. Kept as data so shape drift lands here and nowhere
// else.
var fieldAliases = map[string][]string{
	"assets_current":         {"assets_current", "current_assets", "total_current_assets"},
	"assets_total":           {"assets_total", "total_assets"},
	"assets_noncurrent":      {"assets_noncurrent", "noncurrent_assets", "total_noncurrent_assets"},
	"liab_current":           {"liab_current", "current_liabilities", "total_current_liabilities"},
	"liab_total":             {"liab_total", "total_liabilities", "total_liab"},
	"liab_noncurrent":        {"liab_noncurrent", "noncurrent_liabilities", "total_noncurrent_liabilities"},
	"cash":                   {"cash", "cash_and_equivalents"},
	"short_term_investments": {"short_term_investments", "st_investments"},
	"receivables":            {"receivables", "accounts_receivable"},
	"inventory":              {"inventory", "inventories"},
	"equity":                 {"equity", "total_equity", "stockholders_equity"},
	"working_capital":        {"working_capital"},
	"shares_out":             {"shares_out", "shares_outstanding", "basic_shares_out"},
	"operating_income":       {"operating_income", "op_income"},
	"net_income":             {"net_income"},
	"operating_cash_flow":    {"operating_cash_flow", "cash_from_operations", "ocf"},
	"capex":                  {"capex", "capital_expenditure"},
}

// ParseDate best-effort parses "2024-12-31", "2024-12-31T00:00:00Z" and
// friends. The second return is false when no layout matches.
func ParseDate(raw interface{}) (time.Time, bool) {
	if raw == nil {
		return time.Time{}, false
	}
	if t, ok := raw.(time.Time); ok {
		return t, true
	}

	s := strings.TrimSpace(toString(raw))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExtractDate pulls the accounting period end date out of a raw period,
// trying the known field names in priority order. Returns the parsed date
// and the raw label it came from.
func ExtractDate(raw map[string]interface{}) (time.Time, string, bool) {
	for _, key := range dateFields {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if t, parsed := ParseDate(v); parsed {
			return t, toString(v), true
		}
	}
	return time.Time{}, "", false
}

// DetectCurrency finds the reporting currency of a raw period: period-level
// currency-like keys first, then the balance container. Result is
// uppercased; nil when nothing is stated.
func DetectCurrency(raw map[string]interface{}) *string {
	if raw == nil {
		return nil
	}
	for _, key := range currencyFields {
		if s := toString(raw[key]); s != "" {
			up := strings.ToUpper(s)
			return &up
		}
	}
	if bal, ok := raw["balance"].(map[string]interface{}); ok {
		for _, key := range currencyFields {
			if s := toString(bal[key]); s != "" {
				up := strings.ToUpper(s)
				return &up
			}
		}
	}
	return nil
}

// Normalize builds a canonical FinancialPeriod from one raw period map.
// Periods without a parseable date are dropped (nil).
func Normalize(raw map[string]interface{}, source string) *contracts.FinancialPeriod {
	if raw == nil {
		return nil
	}
	date, label, ok := ExtractDate(raw)
	if !ok {
		return nil
	}

	p := &contracts.FinancialPeriod{
		Date:      date,
		DateLabel: label,
		Source:    source,
		Currency:  DetectCurrency(raw),
	}

	p.CurrentAssets = lookupField(raw, "assets_current")
	p.TotalAssets = lookupField(raw, "assets_total")
	p.NonCurrentAssets = lookupField(raw, "assets_noncurrent")
	p.CurrentLiabilities = lookupField(raw, "liab_current")
	p.TotalLiabilities = lookupField(raw, "liab_total")
	p.NonCurrentLiabilities = lookupField(raw, "liab_noncurrent")
	p.Cash = lookupField(raw, "cash")
	p.ShortTermInvestments = lookupField(raw, "short_term_investments")
	p.Receivables = lookupField(raw, "receivables")
	p.Inventory = lookupField(raw, "inventory")
	p.Equity = lookupField(raw, "equity")
	p.WorkingCapital = lookupField(raw, "working_capital")
	p.SharesOutstanding = lookupShares(raw)
	p.OperatingIncome = lookupField(raw, "operating_income")
	p.NetIncome = lookupField(raw, "net_income")
	p.OperatingCashFlow = lookupField(raw, "operating_cash_flow")
	p.CapEx = lookupField(raw, "capex")

	return p
}

// lookupField resolves one canonical field through the alias table: balance
// containers first, then the flat period map, first found wins.
func lookupField(raw map[string]interface{}, canonical string) *float64 {
	names := fieldAliases[canonical]

	for _, container := range balanceContainers {
		bal, ok := raw[container].(map[string]interface{})
		if !ok {
			continue
		}
		for _, name := range names {
			if v, present := bal[name]; present {
				if f := fx.SafeNumber(v); f != nil {
					return f
				}
			}
		}
	}

	for _, name := range names {
		if v, present := raw[name]; present {
			if f := fx.SafeNumber(v); f != nil {
				return f
			}
		}
	}

	return nil
}

// lookupShares additionally searches the period's meta container; some
// feeds put the share count there instead of the balance sheet.
func lookupShares(raw map[string]interface{}) *float64 {
	if f := lookupField(raw, "shares_out"); f != nil {
		return f
	}
	meta, ok := raw["meta"].(map[string]interface{})
	if !ok {
		return nil
	}
	for _, name := range fieldAliases["shares_out"] {
		if v, present := meta[name]; present {
			if f := fx.SafeNumber(v); f != nil {
				return f
			}
		}
	}
	return nil
}

// bucketPeriods extracts the raw period list for one bucket, supporting
// core["financials"][bucket]["periods"], core["financials"][bucket] as a
// bare list, and the legacy top-level core[bucket] layout.
func bucketPeriods(core contracts.CoreRecord, bucket string) []map[string]interface{} {
	var node interface{}
	if fin, ok := core["financials"].(map[string]interface{}); ok {
		node = fin[bucket]
	}

	var list []interface{}
	switch n := node.(type) {
	case map[string]interface{}:
		list, _ = n["periods"].([]interface{})
	case []interface{}:
		list = n
	default:
		list, _ = core[bucket].([]interface{})
	}

	out := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// QuartersSorted returns the normalized quarterly periods, newest-first.
func QuartersSorted(core contracts.CoreRecord) contracts.PeriodTimeline {
	return normalizeBucket(core, contracts.SourceQuarterly)
}

// AnnualsSorted returns the normalized annual periods, newest-first.
func AnnualsSorted(core contracts.CoreRecord) contracts.PeriodTimeline {
	return normalizeBucket(core, contracts.SourceAnnual)
}

func normalizeBucket(core contracts.CoreRecord, source string) contracts.PeriodTimeline {
	raws := bucketPeriods(core, source)
	out := make(contracts.PeriodTimeline, 0, len(raws))
	for _, raw := range raws {
		if p := Normalize(raw, source); p != nil {
			out = append(out, p)
		}
	}
	sortDesc(out)
	return out
}

// BuildTimeline merges the quarterly and annual buckets into one timeline:
// deduplicated by ISO date signature (quarterly wins ties), strictly
// newest-first.
func BuildTimeline(core contracts.CoreRecord) contracts.PeriodTimeline {
	quarterly := QuartersSorted(core)
	annual := AnnualsSorted(core)

	seen := make(map[string]bool, len(quarterly)+len(annual))
	merged := make(contracts.PeriodTimeline, 0, len(quarterly)+len(annual))
	for _, src := range []contracts.PeriodTimeline{quarterly, annual} {
		for _, p := range src {
			sig := p.Date.Format("2006-01-02")
			if seen[sig] {
				continue
			}
			seen[sig] = true
			merged = append(merged, p)
		}
	}

	sortDesc(merged)
	return merged
}

// ListingCurrency figures out the quote currency for a core record: meta
// first, then sniffed from the most recent period.
func ListingCurrency(core contracts.CoreRecord) *string {
	if meta, ok := core["meta"].(map[string]interface{}); ok {
		for _, key := range []string{"currency", "listing_currency"} {
			if s := toString(meta[key]); s != "" {
				up := strings.ToUpper(s)
				return &up
			}
		}
	}

	timeline := BuildTimeline(core)
	if latest := timeline.Latest(); latest != nil && latest.Currency != nil {
		return latest.Currency
	}
	return nil
}

// sortDesc orders periods newest-first; on equal dates quarterly sorts
// before annual.
func sortDesc(t contracts.PeriodTimeline) {
	sort.SliceStable(t, func(i, j int) bool {
		if !t[i].Date.Equal(t[j].Date) {
			return t[i].Date.After(t[j].Date)
		}
		return t[i].Source == contracts.SourceQuarterly && t[j].Source != contracts.SourceQuarterly
	})
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
