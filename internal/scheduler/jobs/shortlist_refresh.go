package jobs

import (
	"context"
	"fmt"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/screening"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

// TickerLister names the storage slice the shortlist refresh reads.
type TickerLister interface {
	ListCoreTickers(ctx context.Context) ([]string, error)
}

// ShortlistRefreshJob rebuilds the candidate cache over every stored core
// record, nightly, so the morning screen starts from fresh snapshots.
type ShortlistRefreshJob struct {
	tickers TickerLister
	builder *screening.ShortlistBuilder
	logger  *logger.Logger
}

// NewShortlistRefreshJob creates a new shortlist refresh job
func NewShortlistRefreshJob(tickers TickerLister, builder *screening.ShortlistBuilder, log *logger.Logger) *ShortlistRefreshJob {
	return &ShortlistRefreshJob{
		tickers: tickers,
		builder: builder,
		logger:  log,
	}
}

// Name returns the job name
func (j *ShortlistRefreshJob) Name() string {
	return "shortlist_refresh"
}

// Schedule returns the cron schedule (daily at 02:00 UTC)
func (j *ShortlistRefreshJob) Schedule() string {
	return "0 0 2 * * *"
}

// Run rebuilds the candidate cache
func (j *ShortlistRefreshJob) Run(ctx context.Context) error {
	tickers, err := j.tickers.ListCoreTickers(ctx)
	if err != nil {
		return fmt.Errorf("list core tickers: %w", err)
	}
	if len(tickers) == 0 {
		j.logger.Warn("No core records to refresh")
		return nil
	}

	candidates, err := j.builder.Build(ctx, tickers)
	if err != nil {
		return fmt.Errorf("build candidates: %w", err)
	}

	j.logger.WithField("candidate_count", len(candidates)).Info("Shortlist candidates refreshed")
	return nil
}
