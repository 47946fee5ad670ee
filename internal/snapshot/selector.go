// Package snapshot picks the "as-of-now" balance-sheet snapshot: the most
// recent period that is both fresh enough and complete enough to price a
// company on. Gather first, then filter newest-first, so stale-complete
// data never masks fresher-incomplete data or the other way around.
package snapshot

import (
	"fmt"
	"math"
	"time"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

// NoteNoShares is the diagnostic reason when selection is impossible for
// want of a share count.
const NoteNoShares = "no shares_out"

// Selection is the chosen snapshot with its resolved balance figures.
type Selection struct {
	Period        *contracts.FinancialPeriod
	CurrentAssets float64
	TotalLiab     float64
	NCAV          float64
	NCAVPerShare  float64
}

// ResolveBalances derives the (current assets, total liabilities) pair for
// a period, filling gaps from what the statement does carry:
//
//	CL = TL - NCL        when current liabilities are missing
//	CA = WC + CL         when current assets are missing
//	CA = TA - NCA        second fallback for current assets
//	TL = CL + NCL        when total liabilities are missing
//
// Either result may still be nil when the statement is too sparse.
func ResolveBalances(p *contracts.FinancialPeriod) (ca, tl *float64) {
	if p == nil {
		return nil, nil
	}

	cl := p.CurrentLiabilities
	if cl == nil && p.TotalLiabilities != nil && p.NonCurrentLiabilities != nil {
		v := *p.TotalLiabilities - *p.NonCurrentLiabilities
		cl = &v
	}

	ca = p.CurrentAssets
	if ca == nil && p.WorkingCapital != nil && cl != nil {
		v := *p.WorkingCapital + *cl
		ca = &v
	}
	if ca == nil && p.TotalAssets != nil && p.NonCurrentAssets != nil {
		v := *p.TotalAssets - *p.NonCurrentAssets
		ca = &v
	}

	tl = p.TotalLiabilities
	if tl == nil && cl != nil && p.NonCurrentLiabilities != nil {
		v := *cl + *p.NonCurrentLiabilities
		tl = &v
	}

	return ca, tl
}

// Select walks the merged timeline newest-first and returns the first
// period that is younger than maxAgeDays, resolves both CA and TL, and
// yields a finite NCAV per share for the given share count. The timeline
// is already sorted with quarterly winning date ties, which makes the
// choice deterministic for a fixed now.
//
// On failure the note distinguishes a missing share count from the absence
// of any viable column inside the window.
func Select(
	timeline contracts.PeriodTimeline,
	sharesOut *float64,
	now time.Time,
	maxAgeDays int,
) (*Selection, *string) {
	if sharesOut == nil || *sharesOut <= 0 {
		note := NoteNoShares
		return nil, &note
	}

	if len(timeline) == 0 {
		note := noViableNote(maxAgeDays)
		return nil, &note
	}

	cutoff := now.AddDate(0, 0, -maxAgeDays)

	for _, p := range timeline {
		if p.Date.Before(cutoff) {
			continue
		}
		ca, tl := ResolveBalances(p)
		if ca == nil || tl == nil {
			continue
		}

		ncav := *ca - *tl
		ncavPS := ncav / *sharesOut
		if math.IsNaN(ncavPS) || math.IsInf(ncavPS, 0) {
			continue
		}

		return &Selection{
			Period:        p,
			CurrentAssets: *ca,
			TotalLiab:     *tl,
			NCAV:          ncav,
			NCAVPerShare:  ncavPS,
		}, nil
	}

	note := noViableNote(maxAgeDays)
	return nil, &note
}

func noViableNote(maxAgeDays int) string {
	return fmt.Sprintf("no viable FS column (CA & TL present) within %dd", maxAgeDays)
}
