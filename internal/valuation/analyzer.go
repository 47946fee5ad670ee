// Package valuation assembles the per-ticker valuation record: NCAV math,
// trend pairing, dilution extrema, staleness, insider signal and flag
// synthesis, all from one normalized core record plus a price and a rate
// table. The Analyzer is pure apart from its clock; feeding it the same
// inputs and the same now always yields the same result.
package valuation

import (
	"fmt"
	"strings"
	"time"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/flags"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/fx"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/insider"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/metrics"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/periods"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/quality"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/trend"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/config"
	"github.com/paweenawitch/Net-Net-Global-Scanner/pkg/logger"
)

// Meta field aliases seen across feed generations.
var (
	exchangeKeys    = []string{"exchange", "exchange_code", "mic"}
	countryKeys     = []string{"country_iso", "country", "country_code"}
	sectorKeys      = []string{"sector", "gics_sector"}
	industryKeys    = []string{"industry", "gics_industry"}
	listingNoteKeys = []string{"listing_note", "note"}
)

// Analyzer turns raw per-ticker inputs into a ValuationResult.
type Analyzer struct {
	cfg config.ScreeningConfig
	log *logger.Logger
	now func() time.Time
}

// NewAnalyzer builds an Analyzer on the given thresholds.
func NewAnalyzer(cfg config.ScreeningConfig, log *logger.Logger) *Analyzer {
	return &Analyzer{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// Input is everything Analyze needs for one ticker. Candidate carries the
// shortlist-phase snapshot over when one exists; it is advisory only.
type Input struct {
	Ticker      string
	Core        contracts.CoreRecord
	LastPrice   *float64
	InsiderBlob map[string]interface{}
	Rates       contracts.RateTable
	Candidate   *contracts.NCAVCandidate
}

// Analyze computes the full valuation record. The result is built once and
// never mutated afterwards. A missing ticker is the only hard error; every
// other gap degrades to nil fields and a diagnostic note.
func (a *Analyzer) Analyze(in Input) (*contracts.ValuationResult, error) {
	ticker := strings.TrimSpace(in.Ticker)
	if ticker == "" {
		return nil, fmt.Errorf("valuation: empty ticker")
	}

	now := a.now()
	res := &contracts.ValuationResult{
		Ticker:        ticker,
		InsiderSignal: contracts.InsiderUnknown,
		GreenFlags:    []string{},
		RedFlags:      []string{},
	}

	a.fillMeta(res, in.Core)
	a.fillCandidate(res, in.Candidate)

	timeline := periods.BuildTimeline(in.Core)
	res.CorePeriodCount = len(timeline)

	latest := timeline.Latest()
	stale := quality.AssessStaleness(latest, now, a.cfg.StaleAfterDays)
	res.IsOutdated = stale.IsOutdated
	res.DataAgeDays = stale.AgeDays

	signal, summary := insider.Classify(in.InsiderBlob)
	res.InsiderSignal = signal
	res.InsiderRecords = summary.TotalBuyTrades

	if latest == nil {
		note := "no financial periods"
		res.Note = &note
		return res, nil
	}

	res.LatestFSDate = strPtr(latest.DateLabel)
	res.LatestPeriodLabel = strPtr(latest.DateLabel)
	if res.FSSource == nil {
		res.FSSource = strPtr(latest.Source)
	}

	ccy := periods.ListingCurrency(in.Core)
	if ccy == nil {
		ccy = latest.Currency
	}
	res.ReportingCurrency = ccy

	shares := latest.SharesOutstanding
	if shares == nil && in.Candidate != nil {
		shares = in.Candidate.SharesOut
	}
	res.SharesOut = shares

	// Snapshot metrics
	res.CurrentRatio = metrics.CurrentRatio(latest)
	res.DebtToEquity = metrics.DebtToEquity(latest)
	res.NCAVTotalNative = metrics.NCAVNative(latest)
	res.NCAVPerShare = metrics.NCAVPerShare(latest, shares)
	res.NCAVTotalUSD = a.convertNCAV(res, latest, ccy, in.Rates)

	// Price vs NCAV
	res.LastPrice = in.LastPrice
	if in.LastPrice != nil && res.NCAVPerShare != nil && *res.NCAVPerShare != 0 {
		ratio := *in.LastPrice / *res.NCAVPerShare
		res.PriceToNCAVPS = &ratio
		mos := 1 - ratio
		res.MarginOfSafety = &mos
	}

	// Trend pairing and dilution
	a.fillTrends(res, timeline)

	// Flags and the convenience booleans that mirror them
	green, red := flags.Classify(flags.Inputs{
		PriceToNCAVPS: res.PriceToNCAVPS,
		CurrentRatio:  res.CurrentRatio,
		DebtToEquity:  res.DebtToEquity,
		NCAVChangeQoQ: res.NCAVChangeQoQ,
		NCAVChangeHoH: res.NCAVChangeHoH,
		NCAVChangeYoY: res.NCAVChangeYoY,
		DilutionQoQ:   res.DilutionQoQ,
		DilutionHoH:   res.DilutionHoH,
		DilutionYoY:   res.DilutionYoY,
		MaxDilution1Y: res.MaxDilution1Y,
		MaxIssuance3Y: res.MaxIssuance3Y,
		MaxBuyback3Y:  res.MaxBuyback3Y,
		IsOutdated:    res.IsOutdated,
	}, a.flagConfig())
	res.GreenFlags = green
	res.RedFlags = red

	res.PassesPriceToNCAVRule = res.PriceToNCAVPS != nil && *res.PriceToNCAVPS <= a.cfg.MaxPriceToNCAV
	res.HasRecentBuyback = res.MaxBuyback3Y != nil && *res.MaxBuyback3Y < a.cfg.MinBuyback3Y
	res.HasRecentDilution = res.MaxDilution1Y != nil && *res.MaxDilution1Y > a.cfg.MaxDilution1Y

	return res, nil
}

func (a *Analyzer) fillMeta(res *contracts.ValuationResult, core contracts.CoreRecord) {
	meta := metaMap(core)
	if meta == nil {
		return
	}
	res.Exchange = metaString(meta, exchangeKeys)
	res.CountryISO = metaString(meta, countryKeys)
	res.Sector = metaString(meta, sectorKeys)
	res.Industry = metaString(meta, industryKeys)
	res.ListingNote = metaString(meta, listingNoteKeys)
}

func (a *Analyzer) fillCandidate(res *contracts.ValuationResult, cand *contracts.NCAVCandidate) {
	if cand == nil {
		return
	}
	res.NCAVPSShortlist = cand.NCAVPerShare
	res.FSSource = cand.FSSource
	res.Note = cand.Note
}

// convertNCAV converts the native NCAV total to USD and records the FX
// diagnostics. A missing rate leaves the USD figure nil with a note instead
// of guessing.
func (a *Analyzer) convertNCAV(
	res *contracts.ValuationResult,
	latest *contracts.FinancialPeriod,
	ccy *string,
	rates contracts.RateTable,
) *float64 {
	native := metrics.NCAVNative(latest)
	if native == nil {
		return nil
	}
	if ccy == nil {
		note := "reporting currency unknown"
		res.NCAVPSFXNote = &note
		return nil
	}

	code := fx.NormalizeCurrency(*ccy)
	rate, ok := rates[code]
	if !ok {
		note := fmt.Sprintf("no USD rate for %s", code)
		res.NCAVPSFXNote = &note
		return nil
	}
	res.FXRateUsed = &rate
	res.FXSource = strPtr("cache")

	return fx.Convert(native, code, "USD", rates)
}

func (a *Analyzer) fillTrends(res *contracts.ValuationResult, timeline contracts.PeriodTimeline) {
	specs := []struct {
		spec      trend.GapSpec
		ncavDst   **float64
		sharesDst **float64
	}{
		{trend.GapSpec{NominalDays: a.cfg.QoQGapDays, ToleranceDays: a.cfg.QoQToleranceDays}, &res.NCAVChangeQoQ, &res.DilutionQoQ},
		{trend.GapSpec{NominalDays: a.cfg.HoHGapDays, ToleranceDays: a.cfg.HoHToleranceDays}, &res.NCAVChangeHoH, &res.DilutionHoH},
		{trend.GapSpec{NominalDays: a.cfg.YoYGapDays, ToleranceDays: a.cfg.YoYToleranceDays}, &res.NCAVChangeYoY, &res.DilutionYoY},
	}
	for _, s := range specs {
		pair := trend.PickPairByGap(timeline, s.spec)
		if pair == nil {
			continue
		}
		*s.ncavDst = trend.PctChange(metrics.NCAVNative(pair.Older), metrics.NCAVNative(pair.Newer))
		*s.sharesDst = trend.ShareChangeForPair(pair)
	}

	oneYear := trend.WindowExtrema(timeline, a.cfg.DilutionWindow1YDays)
	res.MaxDilution1Y = oneYear.MaxIssuance

	threeYear := trend.WindowExtrema(timeline, a.cfg.DilutionWindow3YDays)
	res.MaxIssuance3Y = threeYear.MaxIssuance
	res.MaxBuyback3Y = threeYear.MaxBuyback
}

func (a *Analyzer) flagConfig() flags.Config {
	cfg := flags.DefaultConfig()
	cfg.MaxPriceToNCAV = a.cfg.MaxPriceToNCAV
	cfg.MinCurrentRatio = a.cfg.MinCurrentRatio
	cfg.MaxDebtToEquity = a.cfg.MaxDebtToEquity
	cfg.MaxPeriodDilution = a.cfg.MaxPeriodDilution
	cfg.MaxDilution1Y = a.cfg.MaxDilution1Y
	cfg.MaxIssuance3Y = a.cfg.MaxIssuance3Y
	cfg.MinBuyback3Y = a.cfg.MinBuyback3Y
	return cfg
}

func metaMap(core contracts.CoreRecord) map[string]interface{} {
	if core == nil {
		return nil
	}
	for _, k := range []string{"meta", "metadata", "profile"} {
		if m, ok := core[k].(map[string]interface{}); ok {
			return m
		}
	}
	return nil
}

func metaString(meta map[string]interface{}, keys []string) *string {
	for _, k := range keys {
		v, ok := meta[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				return &s
			}
		}
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
