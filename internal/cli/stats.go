package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tsxledger/stats"
	"github.com/rustyeddy/tsxledger/window"
)

func newStatsCmd(rc *RootConfig) *cobra.Command {
	var (
		date          string
		excludeVoided bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print per-day aggregates from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rc.loadConfig()
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.Rows()
			if err != nil {
				return err
			}

			result := stats.Aggregate(rows, stats.Options{ExcludeVoided: excludeVoided})
			days := result.Days
			if date != "" {
				if _, err := window.Day(date); err != nil {
					return fmt.Errorf("bad --date: %w", err)
				}
				days = nil
				for _, d := range result.Days {
					if d.Date == date {
						days = append(days, d)
					}
				}
			}
			if err := stats.RenderTable(os.Stdout, days); err != nil {
				return err
			}
			if result.Skipped > 0 {
				logger := rc.newLogger()
				logger.Warn().Int("rows", result.Skipped).
					Msg("rows without a readable trade day were skipped")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Restrict output to one day, YYYY-MM-DD")
	cmd.Flags().BoolVar(&excludeVoided, "exclude-voided", false, "Leave voided trades out of the totals")

	return cmd
}
