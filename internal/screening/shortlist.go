package screening

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/periods"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/snapshot"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/config"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

// ShortlistBuilder runs the cheap pre-pass: pick the newest viable
// balance-sheet snapshot per ticker and cache the NCAV arithmetic, so the
// expensive valuation phase only touches tickers that can possibly qualify.
type ShortlistBuilder struct {
	cores      contracts.CoreRepository
	candidates contracts.CandidateRepository
	cfg        config.ScreeningConfig
	logger     *logger.Logger
	now        func() time.Time
}

// NewShortlistBuilder wires the builder.
func NewShortlistBuilder(
	cores contracts.CoreRepository,
	candidates contracts.CandidateRepository,
	cfg config.ScreeningConfig,
	log *logger.Logger,
) *ShortlistBuilder {
	return &ShortlistBuilder{
		cores:      cores,
		candidates: candidates,
		cfg:        cfg,
		logger:     log.WithField("module", "shortlist"),
		now:        time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (b *ShortlistBuilder) WithClock(now func() time.Time) *ShortlistBuilder {
	b.now = now
	return b
}

// Build produces one candidate per ticker. Tickers whose snapshot selection
// fails still get a candidate carrying the diagnostic note; only load
// errors are skipped.
func (b *ShortlistBuilder) Build(ctx context.Context, tickers []string) ([]*contracts.NCAVCandidate, error) {
	b.logger.WithField("ticker_count", len(tickers)).Info("Building shortlist candidates")

	candidates := make([]*contracts.NCAVCandidate, 0, len(tickers))
	viableCount := 0

	for _, ticker := range tickers {
		select {
		case <-ctx.Done():
			return candidates, ctx.Err()
		default:
		}

		core, err := b.cores.LoadCore(ctx, ticker)
		if err != nil {
			b.logger.WithError(err).WithField("ticker", ticker).Error("Failed to load core record")
			continue
		}
		if core == nil {
			b.logger.WithField("ticker", ticker).Debug("No core record")
			continue
		}

		cand := b.buildOne(ticker, core)
		if cand.Note == nil {
			viableCount++
		}

		if b.candidates != nil {
			if err := b.candidates.SaveCandidate(ctx, cand); err != nil {
				b.logger.WithError(err).WithField("ticker", ticker).Error("Failed to cache candidate")
			}
		}
		candidates = append(candidates, cand)
	}

	b.logger.WithFields(map[string]interface{}{
		"total":  len(candidates),
		"viable": viableCount,
	}).Info("Shortlist candidates built")

	return candidates, nil
}

func (b *ShortlistBuilder) buildOne(ticker string, core contracts.CoreRecord) *contracts.NCAVCandidate {
	now := b.now()
	cand := &contracts.NCAVCandidate{
		Ticker:   ticker,
		CachedAt: now.UTC().Format(time.RFC3339),
	}

	timeline := periods.BuildTimeline(core)
	shares := latestShares(timeline)
	cand.SharesOut = shares
	cand.Currency = periods.ListingCurrency(core)

	sel, note := snapshot.Select(timeline, shares, now, b.cfg.ViabilityMaxAgeDays)
	if note != nil {
		cand.Note = note
		cand.StatementSig = statementSig(ticker, cand)
		return cand
	}

	age := sel.Period.AgeDays(now)
	cand.StatementDate = &sel.Period.DateLabel
	cand.CurrentAssets = &sel.CurrentAssets
	cand.TotalLiab = &sel.TotalLiab
	cand.NCAV = &sel.NCAV
	cand.NCAVPerShare = &sel.NCAVPerShare
	cand.DataAgeDays = &age
	cand.FSSource = &sel.Period.Source
	if cand.Currency == nil {
		cand.Currency = sel.Period.Currency
	}
	cand.StatementSig = statementSig(ticker, cand)

	return cand
}

// latestShares walks the timeline newest-first for the first period that
// reports a share count.
func latestShares(timeline contracts.PeriodTimeline) *float64 {
	for _, p := range timeline {
		if p.SharesOutstanding != nil {
			return p.SharesOutstanding
		}
	}
	return nil
}

// statementSig is a short stable signature over the inputs that shaped the
// candidate. Two runs over the same statement produce the same signature,
// which lets the cache skip rewrites.
func statementSig(ticker string, cand *contracts.NCAVCandidate) string {
	raw := fmt.Sprintf("%s|%s|%s|%s|%s",
		ticker,
		f64Sig(cand.CurrentAssets),
		f64Sig(cand.TotalLiab),
		f64Sig(cand.SharesOut),
		strSig(cand.StatementDate),
	)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}

func f64Sig(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}

func strSig(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}
