package yahoo

import "strings"

// Exchange-suffix translation from house tickers ("7203.JP") to Yahoo
// symbols ("7203.T"). US listings drop their suffix entirely.
var suffixMap = map[string]string{
	"JP": "T",
	"UK": "L",
	"PL": "WA",
	"FR": "PA",
	"TH": "BK",
	"HK": "HK",
}

// ToYahooSymbol maps a house ticker to the Yahoo quote symbol. Unknown
// suffixes pass through unchanged rather than guessing.
func ToYahooSymbol(ticker string) string {
	ticker = strings.TrimSpace(ticker)
	idx := strings.LastIndex(ticker, ".")
	if idx < 0 {
		return ticker
	}

	base := ticker[:idx]
	suffix := strings.ToUpper(ticker[idx+1:])

	if suffix == "US" {
		return base
	}
	if mapped, ok := suffixMap[suffix]; ok {
		return base + "." + mapped
	}
	return ticker
}
