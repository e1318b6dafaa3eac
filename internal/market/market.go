// Package market defines the price-row and summary types produced by the
// acquisition engine and the per-market aggregation over them.
package market

import "time"

// PriceRow is one raw scraped (or synthetic) price record for a commodity at
// a market. Price fields are nil when the source cell was not numeric.
type PriceRow struct {
	Market     string
	Commodity  string
	MinPrice   *float64
	MaxPrice   *float64
	ModalPrice *float64
	Date       *time.Time
}

// Summary is one aggregated row per distinct market. Aggregates are nil when
// the market had no parseable numeric prices for that field.
type Summary struct {
	Market     string
	AvgModal   *int64
	AvgMin     *int64
	AvgMax     *int64
	LatestDate *time.Time
}

// Float returns a pointer to f, for building rows in literals and tests.
func Float(f float64) *float64 { return &f }

// Date returns a pointer to a UTC calendar date.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
