// Package insider collapses heterogeneous insider-transaction summaries
// into one categorical headline signal.
package insider

import (
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/fx"
)

// Classify reduces a raw insider blob to a headline ("Buy", "Sell",
// "Net Buy", "Net Sell", "None", "Unknown") plus the extracted stats.
//
// Two field-naming schemes are accepted per quantity, presence-first:
// total_buy_trades/buys_count, total_sell_trades/sells_count,
// net_shares_change/net_shares, last_activity_date/as_of.
//
// The dominance override (all buys, zero sells, or the reverse) is applied
// after the net-change classification and may supersede it even when the
// two disagree. That ordering is long-observed behavior; change it only
// deliberately.
func Classify(blob map[string]interface{}) (string, contracts.InsiderActivitySummary) {
	if len(blob) == 0 {
		return contracts.InsiderNone, contracts.InsiderActivitySummary{}
	}

	totalBuy := pickNumber(blob, "total_buy_trades", "buys_count")
	totalSell := pickNumber(blob, "total_sell_trades", "sells_count")
	netChange := pickNumber(blob, "net_shares_change", "net_shares")
	lastDate := pickString(blob, "last_activity_date", "as_of")
	source := pickString(blob, "source")

	headline := contracts.InsiderUnknown
	if totalBuy == nil && totalSell == nil && netChange == nil {
		headline = contracts.InsiderNone
	} else {
		if netChange != nil {
			if *netChange > 0 {
				headline = contracts.InsiderNetBuy
			} else if *netChange < 0 {
				headline = contracts.InsiderNetSell
			}
		}

		// Explicit trade-count dominance overrides the net-change call
		if totalBuy != nil && totalSell != nil {
			if *totalBuy > 0 && *totalSell == 0 {
				headline = contracts.InsiderBuy
			}
			if *totalSell > 0 && *totalBuy == 0 {
				headline = contracts.InsiderSell
			}
		}
	}

	return headline, contracts.InsiderActivitySummary{
		TotalBuyTrades:   totalBuy,
		TotalSellTrades:  totalSell,
		NetSharesChange:  netChange,
		LastActivityDate: lastDate,
		Source:           source,
	}
}

// pickNumber resolves a quantity through its alias list. Selection is by
// key presence, so a present-but-null primary key shadows the fallback,
// matching how the feeds have always been read.
func pickNumber(blob map[string]interface{}, keys ...string) *float64 {
	for _, key := range keys {
		if v, present := blob[key]; present {
			return fx.SafeNumber(v)
		}
	}
	return nil
}

func pickString(blob map[string]interface{}, keys ...string) *string {
	for _, key := range keys {
		if s, ok := blob[key].(string); ok && s != "" {
			return &s
		}
	}
	return nil
}
