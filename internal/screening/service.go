// Package screening runs the batch phases: shortlist building over raw core
// records and full valuation over a shortlist. Tickers fan out over a small
// worker pool; one bad ticker never aborts the run.
package screening

import (
	"context"
	"fmt"
	"sync"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/valuation"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/config"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

// Service orchestrates a screening run end to end: load raw inputs, value
// each shortlist entry, persist the results.
type Service struct {
	analyzer   *valuation.Analyzer
	cores      contracts.CoreRepository
	insiders   contracts.InsiderRepository
	fxProvider contracts.FXProvider
	prices     contracts.PriceProvider
	valuations contracts.ValuationRepository
	candidates contracts.CandidateRepository
	cfg        config.ScreeningConfig
	logger     *logger.Logger
}

// NewService wires the screening service.
func NewService(
	analyzer *valuation.Analyzer,
	cores contracts.CoreRepository,
	insiders contracts.InsiderRepository,
	fxProvider contracts.FXProvider,
	prices contracts.PriceProvider,
	valuations contracts.ValuationRepository,
	candidates contracts.CandidateRepository,
	cfg config.ScreeningConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		analyzer:   analyzer,
		cores:      cores,
		insiders:   insiders,
		fxProvider: fxProvider,
		prices:     prices,
		valuations: valuations,
		candidates: candidates,
		cfg:        cfg,
		logger:     log.WithField("module", "screening"),
	}
}

// RunResult reports the outcome of valuing one ticker.
type RunResult struct {
	Ticker string
	Result *contracts.ValuationResult
	Error  error
}

// Screen values every shortlist entry and persists the results. Rates are
// fetched once up front and shared by all workers.
func (s *Service) Screen(ctx context.Context, shortlist []contracts.ShortlistItem) ([]RunResult, error) {
	if len(shortlist) == 0 {
		return nil, nil
	}

	rates, err := s.fxProvider.RatesToUSD(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fx rates: %w", err)
	}

	workers := s.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker_count": len(shortlist),
		"workers":      workers,
	}).Info("Starting screening run")

	results := make([]RunResult, 0, len(shortlist))
	resultCh := make(chan RunResult, len(shortlist))

	var wg sync.WaitGroup
	itemCh := make(chan contracts.ShortlistItem, len(shortlist))

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.screenWorker(ctx, workerID, itemCh, resultCh, rates)
		}(i)
	}

	for _, item := range shortlist {
		itemCh <- item
	}
	close(itemCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	successCount := 0
	failCount := 0
	for result := range resultCh {
		results = append(results, result)
		if result.Error != nil {
			failCount++
		} else {
			successCount++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"success": successCount,
		"failed":  failCount,
		"total":   len(results),
	}).Info("Screening run completed")

	return results, nil
}

// screenWorker values tickers from itemCh until it drains.
func (s *Service) screenWorker(
	ctx context.Context,
	workerID int,
	itemCh <-chan contracts.ShortlistItem,
	resultCh chan<- RunResult,
	rates contracts.RateTable,
) {
	for item := range itemCh {
		select {
		case <-ctx.Done():
			resultCh <- RunResult{Ticker: item.Ticker, Error: ctx.Err()}
			return
		default:
		}

		result, err := s.screenOne(ctx, item, rates)
		if err != nil {
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"ticker": item.Ticker,
			}).Error("Failed to value ticker")
			resultCh <- RunResult{Ticker: item.Ticker, Error: err}
			continue
		}

		s.logger.WithFields(map[string]interface{}{
			"worker": workerID,
			"ticker": item.Ticker,
		}).Debug("Valued ticker")

		resultCh <- RunResult{Ticker: item.Ticker, Result: result}
	}
}

func (s *Service) screenOne(ctx context.Context, item contracts.ShortlistItem, rates contracts.RateTable) (*contracts.ValuationResult, error) {
	core, err := s.cores.LoadCore(ctx, item.Ticker)
	if err != nil {
		return nil, fmt.Errorf("load core: %w", err)
	}
	if core == nil {
		return nil, fmt.Errorf("no core record for %s", item.Ticker)
	}

	// Insider data is optional; a load failure degrades to Unknown.
	var insiderBlob map[string]interface{}
	if s.insiders != nil {
		insiderBlob, err = s.insiders.LoadInsiders(ctx, item.Ticker)
		if err != nil {
			s.logger.WithError(err).WithField("ticker", item.Ticker).Warn("Failed to load insider data")
			insiderBlob = nil
		}
	}

	var candidate *contracts.NCAVCandidate
	if s.candidates != nil {
		candidate, err = s.candidates.GetCandidate(ctx, item.Ticker)
		if err != nil {
			s.logger.WithError(err).WithField("ticker", item.Ticker).Warn("Failed to load cached candidate")
			candidate = nil
		}
	}

	lastPrice := s.resolvePrice(ctx, item)

	result, err := s.analyzer.Analyze(valuation.Input{
		Ticker:      item.Ticker,
		Core:        core,
		LastPrice:   lastPrice,
		InsiderBlob: insiderBlob,
		Rates:       rates,
		Candidate:   candidate,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	if s.valuations != nil {
		if err := s.valuations.SaveValuation(ctx, result); err != nil {
			return nil, fmt.Errorf("save valuation: %w", err)
		}
	}

	return result, nil
}

// resolvePrice prefers a live quote and falls back to the shortlist price.
func (s *Service) resolvePrice(ctx context.Context, item contracts.ShortlistItem) *float64 {
	if s.prices != nil {
		price, err := s.prices.LastPrice(ctx, item.Ticker)
		if err != nil {
			s.logger.WithError(err).WithField("ticker", item.Ticker).Warn("Failed to fetch last price")
		} else if price != nil {
			return price
		}
	}
	if item.LastPrice > 0 {
		v := item.LastPrice
		return &v
	}
	return nil
}
