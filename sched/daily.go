// Package sched invokes the ingest run once a day at a configured hour.
// The canonical scheduled behavior is running for "yesterday", once the
// day being ingested is complete.
package sched

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tsxledger/run"
	"github.com/rustyeddy/tsxledger/window"
)

// Each scheduled run gets a generous but bounded lifetime.
const runTimeout = 10 * time.Minute

// Runner is the slice of the orchestrator the scheduler needs.
type Runner interface {
	ForDate(ctx context.Context, date string) *run.Report
}

// Daily fires the runner at hour:00 in the configured location.
type Daily struct {
	runner Runner
	hour   int
	loc    *time.Location
	log    zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

func NewDaily(runner Runner, hour int, loc *time.Location, log zerolog.Logger) *Daily {
	if loc == nil {
		loc = time.UTC
	}
	return &Daily{
		runner: runner,
		hour:   hour,
		loc:    loc,
		log:    log.With().Str("component", "sched").Logger(),
	}
}

func (d *Daily) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		d.log.Warn().Msg("scheduler already running")
		return
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.done = make(chan struct{})

	go d.loop(d.stopCh, d.done)
	d.log.Info().Int("hour", d.hour).Str("tz", d.loc.String()).Msg("scheduler started")
}

// Stop halts the schedule and waits for the loop to exit. A run already
// in flight finishes first.
func (d *Daily) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.stopCh)
	done := d.done
	d.mu.Unlock()

	<-done
	d.log.Info().Msg("scheduler stopped")
}

func (d *Daily) loop(stopCh, done chan struct{}) {
	defer close(done)

	for {
		next := nextRun(time.Now().In(d.loc), d.hour)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}

		date := window.Yesterday(time.Now())
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		report := d.runner.ForDate(ctx, date)
		cancel()

		d.log.Info().Str("run_id", report.RunID).Str("outcome", string(report.Outcome)).
			Msg("scheduled run finished")
	}
}

// nextRun returns the next hour:00 strictly after now, in now's zone.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
