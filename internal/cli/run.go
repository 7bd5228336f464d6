package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tsxledger/run"
	"github.com/rustyeddy/tsxledger/window"
)

func newRunCmd(rc *RootConfig) *cobra.Command {
	var (
		date        string
		noAggregate bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ingest one day of trades into the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rc.newLogger()

			cfg, err := rc.loadConfig()
			if err != nil {
				return err
			}

			if date == "" {
				date = window.Yesterday(time.Now())
			}
			if _, err := window.Day(date); err != nil {
				return fmt.Errorf("bad --date: %w", err)
			}

			client, err := newAPIClient(cfg, log)
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runner := run.New(client, store, run.Config{
				Aggregate:     cfg.Run.Aggregate && !noAggregate,
				ExcludeVoided: cfg.Run.ExcludeVoided,
				Workers:       cfg.Run.Workers,
			}, log, notifiers(cfg)...)

			report := runner.ForDate(cmd.Context(), date)
			if report.Outcome == run.OutcomeFailed {
				return fmt.Errorf("run %s failed: %s", report.RunID, report.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to ingest, YYYY-MM-DD (default: yesterday UTC)")
	cmd.Flags().BoolVar(&noAggregate, "no-aggregate", false, "Skip the post-ingest aggregation pass")

	return cmd
}
