package contracts

// DilutionWindowStats holds the share-count extrema found across all period
// pairs inside a sliding window. Issuance is a positive fraction, buyback
// negative; either can be absent when no pair produced a usable change.
type DilutionWindowStats struct {
	MaxIssuance *float64 `json:"max_issuance,omitempty"` // most positive change (worst dilution)
	MaxBuyback  *float64 `json:"max_buyback,omitempty"`  // most negative change (best buyback)
}

// ValuationResult is the per-ticker aggregate produced by the valuation
// orchestrator. It is built exactly once, is immutable afterwards, and every
// field serializes as string/number/boolean/string-list for the report
// writer. Nil means "unknown", never zero or false.
type ValuationResult struct {
	// Identity / listing info
	Ticker     string  `json:"ticker"`
	Exchange   *string `json:"exchange,omitempty"`
	CountryISO *string `json:"country_iso,omitempty"`
	Sector     *string `json:"sector,omitempty"`
	Industry   *string `json:"industry,omitempty"`

	// Trading / quote currency for this equity
	ReportingCurrency *string `json:"reporting_currency,omitempty"`

	// Latest financial statement date actually used (as reported)
	LatestFSDate *string `json:"latest_fs_date,omitempty"`

	// Balance sheet / solvency / liquidity
	CurrentRatio *float64 `json:"current_ratio,omitempty"`
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`

	// NCAV math
	NCAVTotalNative *float64 `json:"ncav_total_native,omitempty"`
	NCAVTotalUSD    *float64 `json:"ncav_total_usd,omitempty"`
	NCAVPerShare    *float64 `json:"ncav_per_share,omitempty"`
	NCAVPSShortlist *float64 `json:"ncav_ps_shortlist,omitempty"` // NCAV/share carried over from the shortlist phase
	SharesOut       *float64 `json:"shares_out,omitempty"`

	// Price snapshot & valuation
	LastPrice      *float64 `json:"last_price,omitempty"`
	PriceToNCAVPS  *float64 `json:"price_to_ncavps,omitempty"`
	MarginOfSafety *float64 `json:"margin_of_safety,omitempty"` // 1 - price_to_ncavps

	// FX diagnostics
	FXRateUsed  *float64 `json:"fx_rate_used,omitempty"`
	FXSource    *string  `json:"fx_source,omitempty"`
	NCAVPSFXNote *string `json:"ncavps_fx_note,omitempty"`

	// NCAV change over time (burn or growth)
	NCAVChangeQoQ *float64 `json:"ncav_change_qoq,omitempty"`
	NCAVChangeHoH *float64 `json:"ncav_change_hoh,omitempty"`
	NCAVChangeYoY *float64 `json:"ncav_change_yoy,omitempty"`

	// Dilution / buyback tracking
	DilutionQoQ   *float64 `json:"dilution_qoq,omitempty"`
	DilutionHoH   *float64 `json:"dilution_hoh,omitempty"`
	DilutionYoY   *float64 `json:"dilution_yoy,omitempty"`
	MaxDilution1Y *float64 `json:"max_dilution_1y,omitempty"`
	MaxIssuance3Y *float64 `json:"max_issue_3y,omitempty"`
	MaxBuyback3Y  *float64 `json:"max_buyback_3y,omitempty"`

	// Data quality / recency
	IsOutdated  bool    `json:"is_outdated"`
	DataAgeDays *int    `json:"data_age_days,omitempty"`
	FSSource    *string `json:"fs_source,omitempty"`
	Note        *string `json:"note,omitempty"`

	// Signals / flags
	InsiderSignal string   `json:"insider_signal"`
	GreenFlags    []string `json:"green_flags"`
	RedFlags      []string `json:"red_flags"`

	// Debug / tracing
	CorePeriodCount   int      `json:"core_period_count"`
	InsiderRecords    *float64 `json:"insider_records,omitempty"`
	LatestPeriodLabel *string  `json:"latest_period_label,omitempty"`
	ListingNote       *string  `json:"listing_note,omitempty"`

	// Convenience booleans mirroring flag thresholds. Duplicated on purpose
	// so consumers never have to re-parse flag strings.
	PassesPriceToNCAVRule bool `json:"passes_price_to_ncav_rule"`
	HasRecentBuyback      bool `json:"has_recent_buyback"`
	HasRecentDilution     bool `json:"has_recent_dilution"`
}

// NCAVCandidate is the outcome of the shortlist phase for one ticker: the
// newest viable balance-sheet snapshot plus the NCAV arithmetic derived from
// it. The Note records why selection failed when it did.
type NCAVCandidate struct {
	Ticker        string   `json:"ticker"`
	StatementDate *string  `json:"statement_date,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
	CurrentAssets *float64 `json:"assets_current,omitempty"`
	TotalLiab     *float64 `json:"liab_total,omitempty"`
	NCAV          *float64 `json:"ncav,omitempty"`
	SharesOut     *float64 `json:"shares_out,omitempty"`
	NCAVPerShare  *float64 `json:"ncav_ps,omitempty"`
	DataAgeDays   *int     `json:"data_age_days,omitempty"`
	FSSource      *string  `json:"fs_source,omitempty"` // "quarterly" or "annual"
	StatementSig  string   `json:"statement_sig"`       // dedupe signature over the selected inputs
	CachedAt      string   `json:"cached_at"`
	Note          *string  `json:"note,omitempty"`
}

// ShortlistItem is one entry of a screening shortlist: a ticker plus the
// last traded price to compare against NCAV per share.
type ShortlistItem struct {
	Ticker    string  `json:"ticker"`
	LastPrice float64 `json:"last_price"`
}
