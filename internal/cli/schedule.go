package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tsxledger/run"
	"github.com/rustyeddy/tsxledger/sched"
)

func newScheduleCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily ingest on the configured schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rc.newLogger()

			cfg, err := rc.loadConfig()
			if err != nil {
				return err
			}

			loc, err := cfg.Schedule.Location()
			if err != nil {
				return err
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
				Aggregate:     cfg.Run.Aggregate,
				ExcludeVoided: cfg.Run.ExcludeVoided,
				Workers:       cfg.Run.Workers,
			}, log, notifiers(cfg)...)

			daily := sched.NewDaily(runner, cfg.Schedule.Hour, loc, log)
			daily.Start()
			defer daily.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()
			log.Info().Msg("shutting down")
			return nil
		},
	}

	return cmd
}
