// Package run sequences one ingest run: authenticate, resolve tradable
// accounts, fetch each account's trades for the target date, reconcile
// the ledger, and optionally aggregate. The run's outcome and every
// error it absorbed end up in a single Report.
package run

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tsxledger/ledger"
	"github.com/rustyeddy/tsxledger/pkg/id"
	"github.com/rustyeddy/tsxledger/stats"
	"github.com/rustyeddy/tsxledger/topstepx"
	"github.com/rustyeddy/tsxledger/window"
)

// phase names the orchestrator's states, in order.
type phase string

const (
	phaseIdle      phase = "idle"
	phaseAuth      phase = "authenticating"
	phaseAccounts  phase = "resolving_accounts"
	phaseFetching  phase = "fetching_trades"
	phaseReconcile phase = "reconciling"
	phaseAggregate phase = "aggregating"
	phaseReporting phase = "reporting"
)

// Notifier receives the finished report. Notification failures are
// logged and dropped; they can never change a run's recorded outcome.
type Notifier interface {
	Notify(ctx context.Context, report *Report) error
}

// Config is the per-invocation orchestrator configuration. There is no
// process-wide mutable state; a Runner owns everything it needs.
type Config struct {
	// Aggregate recomputes the daily table after reconciling.
	Aggregate bool
	// ExcludeVoided is the aggregation policy for voided fills.
	ExcludeVoided bool
	// Workers bounds the per-account fetch pool. Zero means one worker
	// per account.
	Workers int
}

// Runner executes runs. Create one per invocation; the session token it
// acquires is read-only after authentication, so the fetch workers share
// it without further synchronization.
type Runner struct {
	client    *topstepx.Client
	store     ledger.Store
	cfg       Config
	notifiers []Notifier
	log       zerolog.Logger
}

func New(client *topstepx.Client, store ledger.Store, cfg Config, log zerolog.Logger, notifiers ...Notifier) *Runner {
	return &Runner{
		client:    client,
		store:     store,
		cfg:       cfg,
		notifiers: notifiers,
		log:       log.With().Str("component", "run").Logger(),
	}
}

// ForDate runs one full ingest for the given YYYY-MM-DD date. Errors are
// folded into the returned report; the report is never nil.
func (r *Runner) ForDate(ctx context.Context, date string) *Report {
	report := &Report{
		RunID:     id.New(),
		Date:      date,
		StartedAt: time.Now().UTC(),
	}
	log := r.log.With().Str("run_id", report.RunID).Str("date", date).Logger()

	r.execute(ctx, log, report)

	report.Duration = time.Since(report.StartedAt)
	r.setPhase(log, phaseReporting)
	log.Info().Str("outcome", string(report.Outcome)).Dur("took", report.Duration).Msg(report.Summary())

	for _, n := range r.notifiers {
		if err := n.Notify(ctx, report); err != nil {
			log.Warn().Err(err).Msg("notification failed")
		}
	}
	r.setPhase(log, phaseIdle)

	return report
}

func (r *Runner) execute(ctx context.Context, log zerolog.Logger, report *Report) {
	w, err := window.Day(report.Date)
	if err != nil {
		report.Outcome = OutcomeFailed
		report.Err = err.Error()
		return
	}

	r.setPhase(log, phaseAuth)
	if _, err := r.client.Authenticate(ctx); err != nil {
		// No token means no per-account work is meaningful.
		report.Outcome = OutcomeFailed
		report.Err = err.Error()
		return
	}

	r.setPhase(log, phaseAccounts)
	accounts, err := r.client.TradableAccounts(ctx)
	if err != nil {
		if errors.Is(err, topstepx.ErrNoAccounts) || errors.Is(err, topstepx.ErrNoTradableAccounts) {
			report.Outcome = OutcomeNoop
		} else {
			report.Outcome = OutcomeFailed
		}
		report.Err = err.Error()
		return
	}
	report.Accounts = len(accounts)

	r.setPhase(log, phaseFetching)
	trades, failures := r.fetchAll(ctx, accounts, w)
	report.Trades = len(trades)
	report.Failures = failures

	if len(failures) == len(accounts) {
		report.Outcome = OutcomeFailed
		report.Err = "trade search failed for every account"
		return
	}

	r.setPhase(log, phaseReconcile)
	recReport, err := ledger.NewReconciler(r.store, log).Reconcile(report.Date, trades)
	if err != nil {
		report.Outcome = OutcomeFailed
		report.Err = err.Error()
		return
	}
	report.Reconcile = recReport

	if r.cfg.Aggregate {
		r.setPhase(log, phaseAggregate)
		rows, err := r.store.Rows()
		if err != nil {
			// The ingest itself succeeded; a failed aggregation read is
			// reported but does not undo that.
			log.Error().Err(err).Msg("aggregation scan failed")
		} else {
			res := stats.Aggregate(rows, stats.Options{ExcludeVoided: r.cfg.ExcludeVoided})
			report.Aggregates = res.Days
			report.SkippedRows = res.Skipped
		}
	}

	if len(failures) > 0 {
		report.Outcome = OutcomePartial
	} else {
		report.Outcome = OutcomeSuccess
	}
}

// fetchAll retrieves trades for every account over a bounded worker
// pool. One account's failure is recorded and the rest continue.
func (r *Runner) fetchAll(ctx context.Context, accounts []topstepx.Account, w window.Window) ([]topstepx.Trade, []AccountFailure) {
	workers := r.cfg.Workers
	if workers <= 0 || workers > len(accounts) {
		workers = len(accounts)
	}

	type result struct {
		account topstepx.Account
		trades  []topstepx.Trade
		err     error
	}

	workCh := make(chan topstepx.Account, len(accounts))
	resCh := make(chan result, len(accounts))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for acc := range workCh {
				trades, err := r.client.SearchTrades(ctx, acc.ID, w)
				resCh <- result{account: acc, trades: trades, err: err}
			}
		}()
	}

	for _, acc := range accounts {
		workCh <- acc
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resCh)
	}()

	var (
		trades   []topstepx.Trade
		failures []AccountFailure
	)
	for res := range resCh {
		if res.err != nil {
			r.log.Warn().Int64("account_id", res.account.ID).Err(res.err).Msg("account fetch failed")
			failures = append(failures, AccountFailure{
				AccountID: res.account.ID,
				Name:      res.account.Name,
				Err:       res.err.Error(),
			})
			continue
		}
		trades = append(trades, res.trades...)
	}

	// Pool completion order is nondeterministic; sort so identical
	// upstream data always reconciles to an identical row sequence.
	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].Timestamp.Equal(trades[j].Timestamp) {
			return trades[i].Timestamp.Before(trades[j].Timestamp)
		}
		return trades[i].ID < trades[j].ID
	})
	sort.Slice(failures, func(i, j int) bool { return failures[i].AccountID < failures[j].AccountID })

	return trades, failures
}

func (r *Runner) setPhase(log zerolog.Logger, p phase) {
	log.Debug().Str("phase", string(p)).Msg("phase change")
}
