// Package contracts defines the canonical data model shared by every stage
// of the net-net scanner: normalized financial periods, rate tables, insider
// summaries and the final valuation record, plus the ports implemented by
// storage and external-feed adapters.
package contracts

import "time"

// Period sources. On a same-date collision between buckets the quarterly
// snapshot wins.
const (
	SourceQuarterly = "quarterly"
	SourceAnnual    = "annual"
)

// FinancialPeriod is one normalized reporting snapshot. Raw feed records are
// normalized into this shape exactly once, at ingestion; the heterogeneous
// flat/nested container shapes and historical field aliases never leak past
// that point.
//
// Every quantity except Date is optional. Absence is nil, never zero;
// downstream formulas propagate nil instead of silently computing with 0.
// A FinancialPeriod is immutable once built.
type FinancialPeriod struct {
	Date      time.Time `json:"date"`
	DateLabel string    `json:"date_label"` // date string as reported, e.g. "2024-12-31"
	Source    string    `json:"source"`     // "quarterly" or "annual"

	Currency *string `json:"currency,omitempty"` // reporting currency, if stated

	// Balance sheet
	CurrentAssets         *float64 `json:"assets_current,omitempty"`
	TotalAssets           *float64 `json:"assets_total,omitempty"`
	NonCurrentAssets      *float64 `json:"assets_noncurrent,omitempty"`
	CurrentLiabilities    *float64 `json:"liab_current,omitempty"`
	TotalLiabilities      *float64 `json:"liab_total,omitempty"`
	NonCurrentLiabilities *float64 `json:"liab_noncurrent,omitempty"`
	Cash                  *float64 `json:"cash,omitempty"`
	ShortTermInvestments  *float64 `json:"short_term_investments,omitempty"`
	Receivables           *float64 `json:"receivables,omitempty"`
	Inventory             *float64 `json:"inventory,omitempty"`
	Equity                *float64 `json:"equity,omitempty"`
	WorkingCapital        *float64 `json:"working_capital,omitempty"`
	SharesOutstanding     *float64 `json:"shares_out,omitempty"`

	// Income statement
	OperatingIncome *float64 `json:"operating_income,omitempty"`
	NetIncome       *float64 `json:"net_income,omitempty"`

	// Cash flow
	OperatingCashFlow *float64 `json:"operating_cash_flow,omitempty"`
	CapEx             *float64 `json:"capex,omitempty"`
}

// GapDays returns the whole number of days between this period and an older
// one (positive when p is newer).
func (p *FinancialPeriod) GapDays(older *FinancialPeriod) int {
	return int(p.Date.Sub(older.Date).Hours() / 24)
}

// AgeDays returns the age of this period relative to now, in whole days.
func (p *FinancialPeriod) AgeDays(now time.Time) int {
	return int(now.Sub(p.Date).Hours() / 24)
}

// PeriodTimeline is an ordered sequence of periods, newest-first, with no
// duplicate date signatures.
type PeriodTimeline []*FinancialPeriod

// Latest returns the newest period, or nil for an empty timeline.
func (t PeriodTimeline) Latest() *FinancialPeriod {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// CoreRecord is a decoded per-ticker financial-core feed record: a meta
// block plus labeled period buckets. Feeds disagree on shape, so this stays
// a raw map until period normalization.
type CoreRecord = map[string]interface{}
