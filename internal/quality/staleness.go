// Package quality classifies data recency. A statement older than the
// configured threshold is treated as lower-confidence, never as an error.
package quality

import (
	"time"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/contracts"
)

// Staleness is the outcome of a recency check.
type Staleness struct {
	IsOutdated bool
	AgeDays    *int // nil when there was no period to age
}

// AssessStaleness decides whether the latest financial data is outdated.
// A nil latest period is stale with an unknown age. Never fails.
func AssessStaleness(latest *contracts.FinancialPeriod, now time.Time, staleAfterDays int) Staleness {
	if latest == nil {
		return Staleness{IsOutdated: true, AgeDays: nil}
	}

	age := latest.AgeDays(now)
	return Staleness{
		IsOutdated: age > staleAfterDays,
		AgeDays:    &age,
	}
}
