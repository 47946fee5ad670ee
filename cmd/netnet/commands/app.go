package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/external/sec"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/external/yahoo"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/screening"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/storage"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/valuation"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/config"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/database"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/httputil"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/redis"
)

// app bundles the wired components every command starts from.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	rdb   *redis.Client
	cache *redis.Cache
	repo  *storage.Repository

	secClient  *sec.Client
	fxProvider *yahoo.FXRateProvider
	prices     *yahoo.PriceProvider

	analyzer *valuation.Analyzer
	service  *screening.Service
	builder  *screening.ShortlistBuilder
}

// newApp loads config and wires the full dependency graph. Every command
// goes through here so the wiring exists in exactly one place.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "netnet")
	limiter := redis.NewRateLimiter(redisClient, "netnet")

	repo := storage.NewRepository(db.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// External clients, each behind its own rate limit
	yahooHTTP := httputil.NewWithTimeout(log, cfg.Yahoo.FetchTimeout).
		WithRetry(3, 1*time.Second).
		WithRateLimiter(limiter, redis.YahooRateLimit)
	secHTTP := httputil.New(log).
		WithRetry(3, 1*time.Second).
		WithRateLimiter(limiter, redis.SECRateLimit)
	fxHTTP := httputil.New(log).
		WithRetry(3, 1*time.Second).
		WithRateLimiter(limiter, redis.FXRateLimit)

	yahooClient := yahoo.NewClient(cfg.Yahoo, yahooHTTP, log)
	prices := yahoo.NewPriceProvider(yahooClient, cache)
	fxProvider := yahoo.NewFXRateProvider(cfg.FX, fxHTTP, cache, log)
	secClient := sec.NewClient(cfg.SEC, secHTTP, log)

	analyzer := valuation.NewAnalyzer(cfg.Screening, log)
	service := screening.NewService(
		analyzer, repo, repo, fxProvider, prices, repo, repo, cfg.Screening, log,
	)
	builder := screening.NewShortlistBuilder(repo, repo, cfg.Screening, log)

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		rdb:        redisClient,
		cache:      cache,
		repo:       repo,
		secClient:  secClient,
		fxProvider: fxProvider,
		prices:     prices,
		analyzer:   analyzer,
		service:    service,
		builder:    builder,
	}, nil
}

// close releases the app's connections.
func (a *app) close() {
	if err := a.rdb.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis connection")
	}
	a.db.Close()
}
