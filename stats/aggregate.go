// Package stats derives the per-day aggregate table (trade count, gross
// P&L, fees, net profit) from ledger rows. Aggregation is a pure
// function of the rows it is given: recomputing from scratch always
// reproduces the same values.
package stats

import (
	"sort"

	"github.com/rustyeddy/tsxledger/ledger"
)

// Options control aggregation policy.
type Options struct {
	// ExcludeVoided drops voided fills from counts and sums. Off by
	// default: the ledger has always included them, and filtering
	// silently would change historical totals.
	ExcludeVoided bool
}

// DailyAggregate is one day's summary.
type DailyAggregate struct {
	Date       string
	TradeCount int
	TotalPnL   float64
	TotalFees  float64
	NetProfit  float64 // TotalPnL - TotalFees
}

// Result is the sorted table plus the count of rows that had to be
// skipped because their timestamp could not be dated.
type Result struct {
	Days    []DailyAggregate
	Skipped int
}

// Aggregate groups rows by UTC calendar date and sums each day. Rows
// without a usable date are counted as skipped, never fatal. A row with
// no realized P&L contributes zero to the sum but still counts as a
// trade. Output is sorted ascending by date; empty input gives an empty
// table.
func Aggregate(rows []ledger.StoredRow, opts Options) Result {
	byDay := make(map[string]*DailyAggregate)
	skipped := 0

	for _, r := range rows {
		date, ok := r.Date()
		if !ok {
			skipped++
			continue
		}
		if opts.ExcludeVoided && r.Voided == ledger.VoidedYes {
			continue
		}

		agg := byDay[date]
		if agg == nil {
			agg = &DailyAggregate{Date: date}
			byDay[date] = agg
		}

		agg.TradeCount++
		if r.PnL.Valid {
			agg.TotalPnL += r.PnL.Float64
		}
		agg.TotalFees += r.Fees
	}

	days := make([]DailyAggregate, 0, len(byDay))
	for _, agg := range byDay {
		agg.NetProfit = agg.TotalPnL - agg.TotalFees
		days = append(days, *agg)
	}

	// Lexical sort is date-correct for YYYY-MM-DD keys.
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return Result{Days: days, Skipped: skipped}
}
