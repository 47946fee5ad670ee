package jobs

import (
	"context"
	"fmt"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/external/yahoo"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

// FXRefreshJob pulls a fresh FX rate table once a day so screening runs
// never hit the feed on the hot path.
type FXRefreshJob struct {
	provider *yahoo.FXRateProvider
	logger   *logger.Logger
}

// NewFXRefreshJob creates a new FX refresh job
func NewFXRefreshJob(provider *yahoo.FXRateProvider, log *logger.Logger) *FXRefreshJob {
	return &FXRefreshJob{
		provider: provider,
		logger:   log,
	}
}

// Name returns the job name
func (j *FXRefreshJob) Name() string {
	return "fx_refresh"
}

// Schedule returns the cron schedule (daily at 05:00 UTC, before markets)
func (j *FXRefreshJob) Schedule() string {
	return "0 0 5 * * *"
}

// Run refreshes the cached rate table
func (j *FXRefreshJob) Run(ctx context.Context) error {
	table, err := j.provider.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh fx rates: %w", err)
	}

	j.logger.WithField("currency_count", len(table)).Info("FX rates refreshed")
	return nil
}
