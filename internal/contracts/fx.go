package contracts

// RateTable maps a currency code to the USD value of one unit of that
// currency (1 JPY = 0.0067 USD stores {"JPY": 0.0067}). A missing key means
// the rate is unknown, never zero. Tables are built once per batch and are
// read-only afterwards.
type RateTable map[string]float64
