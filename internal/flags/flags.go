// Package flags synthesizes the green/red flag lists from the computed
// metrics. Rules are independent and evaluated in a fixed order; a rule
// whose input is absent is skipped silently. The output preserves
// rule-evaluation order, it is never re-sorted.
package flags

import "fmt"

// Config holds every flag threshold. Values come from the caller; nothing
// here is hard-coded at use sites.
type Config struct {
	MaxPriceToNCAV    float64 // green when price/NCAVps at or below this
	MinCurrentRatio   float64 // green when current ratio at or above this
	MaxDebtToEquity   float64 // red when D/E above this
	MaxNCAVDrop       float64 // red when NCAV falls more than this per period (positive fraction)
	MaxPeriodDilution float64 // red when per-period dilution above this
	MaxDilution1Y     float64 // red when worst 12m issuance above this
	MaxIssuance3Y     float64 // red when worst 3y issuance above this
	MinBuyback3Y      float64 // green when best 3y buyback below this (negative)
}

// DefaultConfig returns the classic Graham-flavored thresholds.
func DefaultConfig() Config {
	return Config{
		MaxPriceToNCAV:    2.0 / 3.0,
		MinCurrentRatio:   2.0,
		MaxDebtToEquity:   1.5,
		MaxNCAVDrop:       0.20,
		MaxPeriodDilution: 0.05,
		MaxDilution1Y:     0.08,
		MaxIssuance3Y:     0.20,
		MinBuyback3Y:      -0.05,
	}
}

// Inputs carries everything the rules look at. Absent values skip their
// rule.
type Inputs struct {
	PriceToNCAVPS *float64
	CurrentRatio  *float64
	DebtToEquity  *float64

	NCAVChangeQoQ *float64
	NCAVChangeHoH *float64
	NCAVChangeYoY *float64

	DilutionQoQ *float64
	DilutionHoH *float64
	DilutionYoY *float64

	MaxDilution1Y *float64
	MaxIssuance3Y *float64
	MaxBuyback3Y  *float64

	IsOutdated bool
}

// Classify produces the green and red flag lists.
func Classify(in Inputs, cfg Config) (green []string, red []string) {
	green = make([]string, 0, 4)
	red = make([]string, 0, 8)

	// Value
	if in.PriceToNCAVPS != nil && *in.PriceToNCAVPS <= cfg.MaxPriceToNCAV {
		green = append(green, "Trading ≤ 2/3 NCAV")
	}

	// Liquidity
	if in.CurrentRatio != nil && *in.CurrentRatio >= cfg.MinCurrentRatio {
		green = append(green, "Current ratio ≥ 2")
	}

	// Capital discipline
	if in.MaxBuyback3Y != nil && *in.MaxBuyback3Y < cfg.MinBuyback3Y {
		green = append(green, "Meaningful buyback in last 3y")
	}

	// NCAV stability or improvement
	if in.NCAVChangeYoY != nil && *in.NCAVChangeYoY >= 0 {
		green = append(green, "NCAV stable YoY or improving")
	}

	// Stale data
	if in.IsOutdated {
		red = append(red, "Financials are stale")
	}

	// Leverage
	if in.DebtToEquity != nil && *in.DebtToEquity > cfg.MaxDebtToEquity {
		red = append(red, "High leverage")
	}

	// NCAV burn
	ncavChanges := []struct {
		label string
		value *float64
	}{
		{"QoQ", in.NCAVChangeQoQ},
		{"HoH", in.NCAVChangeHoH},
		{"YoY", in.NCAVChangeYoY},
	}
	for _, c := range ncavChanges {
		if c.value != nil && *c.value < -cfg.MaxNCAVDrop {
			red = append(red, fmt.Sprintf("NCAV down %s >20%%", c.label))
		}
	}

	// Recent dilution
	dilutions := []struct {
		label string
		value *float64
	}{
		{"QoQ", in.DilutionQoQ},
		{"HoH", in.DilutionHoH},
		{"YoY", in.DilutionYoY},
	}
	for _, d := range dilutions {
		if d.value != nil && *d.value > cfg.MaxPeriodDilution {
			red = append(red, fmt.Sprintf("Dilution %s >5%%", d.label))
		}
	}

	// Worst 12m issuance
	if in.MaxDilution1Y != nil && *in.MaxDilution1Y > cfg.MaxDilution1Y {
		red = append(red, "Issued >8% in last 12m")
	}

	// Worst 3y issuance
	if in.MaxIssuance3Y != nil && *in.MaxIssuance3Y > cfg.MaxIssuance3Y {
		red = append(red, "Issued >20% in last 3y")
	}

	return green, red
}
