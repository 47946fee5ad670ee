package contracts

// Insider headline classifications.
const (
	InsiderBuy     = "Buy"
	InsiderSell    = "Sell"
	InsiderNetBuy  = "Net Buy"
	InsiderNetSell = "Net Sell"
	InsiderNone    = "None"
	InsiderUnknown = "Unknown"
)

// InsiderActivitySummary collapses a raw insider-transaction blob into the
// quantities the valuation consumes. Counts can be fractional in some feeds,
// so everything stays float-typed.
type InsiderActivitySummary struct {
	TotalBuyTrades   *float64 `json:"total_buy_trades,omitempty"`
	TotalSellTrades  *float64 `json:"total_sell_trades,omitempty"`
	NetSharesChange  *float64 `json:"net_shares_change,omitempty"` // positive = insiders accumulated
	LastActivityDate *string  `json:"last_activity_date,omitempty"`
	Source           *string  `json:"source,omitempty"`
}
