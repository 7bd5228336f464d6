package run

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tsxledger/ledger"
	"github.com/rustyeddy/tsxledger/stats"
)

// Outcome classifies a finished run.
type Outcome string

const (
	// OutcomeSuccess — every account's trades were retrieved and the
	// target date reconciled.
	OutcomeSuccess Outcome = "success"
	// OutcomePartial — at least one account failed but at least one
	// succeeded; the ledger reflects the successful accounts.
	OutcomePartial Outcome = "partial"
	// OutcomeFailed — authentication failed, every account failed, or
	// the ledger write failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeNoop — nothing to ingest: no accounts, or none tradable.
	OutcomeNoop Outcome = "noop"
)

// AccountFailure records one account's failed trade search without
// aborting the rest of the run.
type AccountFailure struct {
	AccountID int64
	Name      string
	Err       string
}

// Report is the sole surface a run communicates through. It is complete
// and immutable by the time notifiers see it.
type Report struct {
	RunID     string
	Date      string
	Outcome   Outcome
	StartedAt time.Time
	Duration  time.Duration

	Accounts int // tradable accounts attempted
	Trades   int // fills retrieved across successful accounts

	Failures  []AccountFailure
	Reconcile ledger.Report

	// Aggregates is populated only when the run aggregates after
	// reconciling.
	Aggregates  []stats.DailyAggregate
	SkippedRows int

	// Err is the fatal error when Outcome is failed or noop.
	Err string
}

// Summary renders the one-line form used in logs and notifications.
func (r *Report) Summary() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return fmt.Sprintf("run %s %s: %d trades from %d accounts, removed %d added %d, day P&L %.2f",
			r.RunID, r.Date, r.Trades, r.Accounts, r.Reconcile.Removed, r.Reconcile.Added, r.Reconcile.AddedPnL)
	case OutcomePartial:
		return fmt.Sprintf("run %s %s: partial — %d of %d accounts failed, %d trades reconciled",
			r.RunID, r.Date, len(r.Failures), r.Accounts, r.Trades)
	case OutcomeNoop:
		return fmt.Sprintf("run %s %s: nothing to ingest (%s)", r.RunID, r.Date, r.Err)
	default:
		return fmt.Sprintf("run %s %s: failed — %s", r.RunID, r.Date, r.Err)
	}
}
