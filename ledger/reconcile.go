package ledger

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tsxledger/topstepx"
	"github.com/rustyeddy/tsxledger/window"
)

// WriteError is a row-store mutation failure during reconciliation. It
// is fatal for the run.
type WriteError struct {
	Op  string // "delete" or "append"
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("ledger %s failed: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Report summarizes one reconciliation pass.
type Report struct {
	Date    string
	Removed int
	Added   int
	Skipped int // existing rows whose stored timestamp could not be dated

	// AddedPnL is the realized P&L of the appended rows, rounded to two
	// decimals for reporting. Stored values keep full precision.
	AddedPnL float64
}

// Reconciler merges one day's freshly retrieved trades into the store.
type Reconciler struct {
	store Store
	log   zerolog.Logger
}

func NewReconciler(store Store, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		store: store,
		log:   log.With().Str("component", "reconciler").Logger(),
	}
}

// Reconcile replaces every stored row dated targetDate with the given
// trades: scan, collect matching positions, delete, append. Running it
// twice with identical trades leaves the store identical to one run.
//
// The replacement rows are built before anything is deleted, so a bad
// input can never leave a date emptied without its replacement ready.
// Rows whose stored timestamp cannot be dated are counted and skipped,
// never deleted on a guess.
func (r *Reconciler) Reconcile(targetDate string, trades []topstepx.Trade) (Report, error) {
	if _, err := window.Day(targetDate); err != nil {
		return Report{}, err
	}

	existing, err := r.store.Rows()
	if err != nil {
		return Report{}, fmt.Errorf("scan ledger: %w", err)
	}

	var (
		doomed  []int64
		skipped int
	)
	for _, row := range existing {
		date, ok := row.Date()
		if !ok {
			skipped++
			r.log.Warn().Int64("pos", row.Pos).Int64("trade_id", row.TradeID).
				Msg("row has unparseable timestamp, leaving untouched")
			continue
		}
		if date == targetDate {
			doomed = append(doomed, row.Pos)
		}
	}

	replacement := make([]Row, 0, len(trades))
	var pnl float64
	for _, t := range trades {
		row := FromTrade(t)
		replacement = append(replacement, row)
		if row.PnL.Valid {
			pnl += row.PnL.Float64
		}
	}

	if err := r.store.DeleteRows(doomed); err != nil {
		return Report{}, &WriteError{Op: "delete", Err: err}
	}
	if err := r.store.AppendRows(replacement); err != nil {
		return Report{}, &WriteError{Op: "append", Err: err}
	}

	report := Report{
		Date:     targetDate,
		Removed:  len(doomed),
		Added:    len(replacement),
		Skipped:  skipped,
		AddedPnL: math.Round(pnl*100) / 100,
	}

	r.log.Info().Str("date", targetDate).
		Int("removed", report.Removed).Int("added", report.Added).
		Float64("added_pnl", report.AddedPnL).
		Msg("reconciled")

	return report, nil
}
