// Package metrics computes per-period balance-sheet ratios and the NCAV
// arithmetic at the heart of the screen. Every function is total: absent
// inputs and zero denominators come back as nil, never as a panic or a
// silent zero.
package metrics

import (
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/fx"
)

// CurrentRatio is current assets / current liabilities.
func CurrentRatio(p *contracts.FinancialPeriod) *float64 {
	if p == nil {
		return nil
	}
	ca := p.CurrentAssets
	cl := p.CurrentLiabilities
	if ca == nil || cl == nil || *cl == 0 {
		return nil
	}
	v := *ca / *cl
	return &v
}

// DebtToEquity is total liabilities / (total assets - total liabilities),
// the loose Graham sense of leverage.
func DebtToEquity(p *contracts.FinancialPeriod) *float64 {
	if p == nil {
		return nil
	}
	ta := p.TotalAssets
	tl := p.TotalLiabilities
	if ta == nil || tl == nil {
		return nil
	}
	equity := *ta - *tl
	if equity == 0 {
		return nil
	}
	v := *tl / equity
	return &v
}

// NCAVNative is current assets minus total liabilities in the reporting
// currency. When current assets are unavailable (some SEC facts), total
// assets stand in as a rough approximation.
func NCAVNative(p *contracts.FinancialPeriod) *float64 {
	if p == nil {
		return nil
	}
	ca := p.CurrentAssets
	if ca == nil {
		ca = p.TotalAssets
	}
	tl := p.TotalLiabilities
	if ca == nil || tl == nil {
		return nil
	}
	v := *ca - *tl
	return &v
}

// NCAVPerShare divides native NCAV by the share count.
func NCAVPerShare(p *contracts.FinancialPeriod, sharesOut *float64) *float64 {
	total := NCAVNative(p)
	if total == nil {
		return nil
	}
	if sharesOut == nil || *sharesOut == 0 {
		return nil
	}
	v := *total / *sharesOut
	return &v
}

// NCAVUSD converts native NCAV to USD using the period's own detected
// currency.
func NCAVUSD(p *contracts.FinancialPeriod, rates contracts.RateTable) *float64 {
	native := NCAVNative(p)
	if native == nil {
		return nil
	}
	if p.Currency == nil {
		return nil
	}
	return fx.Convert(native, *p.Currency, "USD", rates)
}
