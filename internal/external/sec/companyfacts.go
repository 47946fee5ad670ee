package sec

import (
	"context"
	"fmt"
	"strings"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

// us-gaap concept -> canonical core field. Only the concepts the valuation
// reads; everything else in the filing is ignored.
var conceptFields = map[string]string{
	"AssetsCurrent":                          "assets_current",
	"Assets":                                 "assets_total",
	"LiabilitiesCurrent":                     "liab_current",
	"Liabilities":                            "liab_total",
	"LiabilitiesNoncurrent":                  "liab_noncurrent",
	"CashAndCashEquivalentsAtCarryingValue":  "cash",
	"ShortTermInvestments":                   "short_term_investments",
	"AccountsReceivableNetCurrent":           "receivables",
	"InventoryNet":                           "inventory",
	"StockholdersEquity":                     "equity",
	"OperatingIncomeLoss":                    "operating_income",
	"NetIncomeLoss":                          "net_income",
	"CommonStockSharesOutstanding":           "shares_out",
}

// factEntry is one reported value of a concept.
type factEntry struct {
	End  string   `json:"end"`
	Val  *float64 `json:"val"`
	Form string   `json:"form"` // "10-Q", "10-K", ...
}

// companyFacts mirrors the slice of the companyfacts payload we read.
type companyFacts struct {
	EntityName string `json:"entityName"`
	Facts      struct {
		USGAAP map[string]struct {
			Units map[string][]factEntry `json:"units"`
		} `json:"us-gaap"`
		DEI map[string]struct {
			Units map[string][]factEntry `json:"units"`
		} `json:"dei"`
	} `json:"facts"`
}

// LoadCore fetches the companyfacts filing for a US ticker and reassembles
// it into the quarterly/annual core-record layout, one flat field map per
// statement date. Implements contracts.CoreRepository for SEC-covered
// listings.
func (c *Client) LoadCore(ctx context.Context, ticker string) (contracts.CoreRecord, error) {
	cik, err := c.resolveCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.baseURL, cik)

	var facts companyFacts
	if err := c.httpClient.GetJSON(ctx, reqURL, &facts); err != nil {
		return nil, fmt.Errorf("fetch companyfacts %s: %w", ticker, err)
	}

	core := assembleCore(&facts)
	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"cik":    cik,
	}).Debug("Assembled core record from companyfacts")

	return core, nil
}

// assembleCore pivots concept-major facts into date-major period maps and
// splits them by filing form: 10-Q rows become the quarterly bucket, 10-K
// rows the annual one.
func assembleCore(facts *companyFacts) contracts.CoreRecord {
	quarterly := map[string]map[string]interface{}{}
	annual := map[string]map[string]interface{}{}

	put := func(form, end, field string, val *float64, currency string) {
		if val == nil || end == "" {
			return
		}
		var bucket map[string]map[string]interface{}
		switch {
		case strings.HasPrefix(form, "10-Q"):
			bucket = quarterly
		case strings.HasPrefix(form, "10-K"):
			bucket = annual
		default:
			return
		}
		row, ok := bucket[end]
		if !ok {
			row = map[string]interface{}{"statement_date": end}
			if currency != "" {
				row["currency"] = currency
			}
			bucket[end] = row
		}
		// First value per field wins; amendments re-report the same figure.
		if _, exists := row[field]; !exists {
			row[field] = *val
		}
	}

	for concept, fact := range facts.Facts.USGAAP {
		field, ok := conceptFields[concept]
		if !ok {
			continue
		}
		for unit, entries := range fact.Units {
			currency := currencyForUnit(unit)
			for _, e := range entries {
				put(e.Form, e.End, field, e.Val, currency)
			}
		}
	}

	// Share counts usually live under dei, in plain share units.
	if fact, ok := facts.Facts.DEI["EntityCommonStockSharesOutstanding"]; ok {
		for _, entries := range fact.Units {
			for _, e := range entries {
				put(e.Form, e.End, "shares_out", e.Val, "")
			}
		}
	}

	core := contracts.CoreRecord{
		"meta": map[string]interface{}{
			"currency":    "USD",
			"country_iso": "US",
		},
		"quarterly": rowsOf(quarterly),
		"annual":    rowsOf(annual),
	}
	return core
}

// currencyForUnit extracts the ISO code from a monetary unit name. Share
// and ratio units carry no currency.
func currencyForUnit(unit string) string {
	if len(unit) == 3 && unit == strings.ToUpper(unit) {
		return unit
	}
	return ""
}

func rowsOf(bucket map[string]map[string]interface{}) []interface{} {
	rows := make([]interface{}, 0, len(bucket))
	for _, row := range bucket {
		rows = append(rows, row)
	}
	return rows
}
