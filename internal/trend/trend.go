// Package trend does the time-axis work: pairing periods across irregular
// reporting cadences, percent changes, and sliding-window share-count
// extrema for dilution and buyback detection.
package trend

import (
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

// GapSpec describes an approximate pairing gap: a nominal day count plus
// the tolerance around it.
type GapSpec struct {
	NominalDays   int
	ToleranceDays int
}

// Pair is a (newer, older) period pairing produced by the gap search.
type Pair struct {
	Newer *contracts.FinancialPeriod
	Older *contracts.FinancialPeriod
}

// PctChange returns (new - old) / |old| as a fraction. Positive means the
// quantity grew. Nil when either side is absent or old is zero.
func PctChange(old, new *float64) *float64 {
	if old == nil || new == nil {
		return nil
	}
	if *old == 0 {
		return nil
	}
	denom := *old
	if denom < 0 {
		denom = -denom
	}
	v := (*new - *old) / denom
	return &v
}

// PickPairByGap scans the descending timeline from its newest period for an
// older period whose day-gap falls inside the requested tolerance. When no
// candidate lands in range it falls back to the two most-recent periods; an
// approximate trend beats none at all.
func PickPairByGap(timeline contracts.PeriodTimeline, spec GapSpec) *Pair {
	if len(timeline) < 2 {
		return nil
	}

	newer := timeline[0]
	for _, older := range timeline[1:] {
		gap := newer.GapDays(older)
		diff := gap - spec.NominalDays
		if diff < 0 {
			diff = -diff
		}
		if diff <= spec.ToleranceDays {
			return &Pair{Newer: newer, Older: older}
		}
	}

	// Fallback: just take the first two
	return &Pair{Newer: timeline[0], Older: timeline[1]}
}

// ShareChange returns the fractional change in shares outstanding between
// two periods. Positive means stock was issued (dilution), negative means
// buyback.
func ShareChange(newer, older *contracts.FinancialPeriod) *float64 {
	if newer == nil || older == nil {
		return nil
	}
	return PctChange(older.SharesOutstanding, newer.SharesOutstanding)
}

// ShareChangeForPair applies ShareChange to a possibly-nil pair.
func ShareChangeForPair(pair *Pair) *float64 {
	if pair == nil {
		return nil
	}
	return ShareChange(pair.Newer, pair.Older)
}

// WindowExtrema examines every period pair whose gap fits within
// windowDays and records the worst issuance (max positive share change) and
// best buyback (most negative). All pairs are examined, not just adjacent
// ones: a company can show no quarter-to-quarter dilution yet a severe one
// across a skipped quarter. Quadratic over the timeline, which stays tiny.
func WindowExtrema(timeline contracts.PeriodTimeline, windowDays int) contracts.DilutionWindowStats {
	var stats contracts.DilutionWindowStats

	for i := 0; i < len(timeline); i++ {
		for j := i + 1; j < len(timeline); j++ {
			gap := timeline[i].GapDays(timeline[j])
			if gap < 0 || gap > windowDays {
				continue
			}
			chg := ShareChange(timeline[i], timeline[j])
			if chg == nil {
				continue
			}
			if stats.MaxIssuance == nil || *chg > *stats.MaxIssuance {
				v := *chg
				stats.MaxIssuance = &v
			}
			if stats.MaxBuyback == nil || *chg < *stats.MaxBuyback {
				v := *chg
				stats.MaxBuyback = &v
			}
		}
	}

	return stats
}
