package jobs

import (
	"context"
	"fmt"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/screening"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

// ScreenJob runs the full valuation pass over the stored shortlist.
type ScreenJob struct {
	shortlists contracts.ShortlistRepository
	service    *screening.Service
	logger     *logger.Logger
}

// NewScreenJob creates a new screening job
func NewScreenJob(shortlists contracts.ShortlistRepository, service *screening.Service, log *logger.Logger) *ScreenJob {
	return &ScreenJob{
		shortlists: shortlists,
		service:    service,
		logger:     log,
	}
}

// Name returns the job name
func (j *ScreenJob) Name() string {
	return "screen"
}

// Schedule returns the cron schedule (daily at 06:00 UTC, after fx_refresh)
func (j *ScreenJob) Schedule() string {
	return "0 0 6 * * *"
}

// Run values every shortlist entry
func (j *ScreenJob) Run(ctx context.Context) error {
	shortlist, err := j.shortlists.LoadShortlist(ctx)
	if err != nil {
		return fmt.Errorf("load shortlist: %w", err)
	}
	if len(shortlist) == 0 {
		j.logger.Warn("Shortlist is empty, nothing to screen")
		return nil
	}

	results, err := j.service.Screen(ctx, shortlist)
	if err != nil {
		return fmt.Errorf("screen shortlist: %w", err)
	}

	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"total":  len(results),
		"failed": failed,
	}).Info("Scheduled screening completed")

	return nil
}
