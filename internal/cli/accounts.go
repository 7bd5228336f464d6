package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const tokenTTL = 24 * time.Hour

func tokenCachePath() string {
	return filepath.Join(os.TempDir(), "tsxledger.token")
}

func freshTokenFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < tokenTTL
}

func newAccountsCmd(rc *RootConfig) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts the ingest run would cover",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := rc.newLogger()

			cfg, err := rc.loadConfig()
			if err != nil {
				return err
			}

			client, err := newAPIClient(cfg, log)
			if err != nil {
				return err
			}

			// Session tokens live 24h; reuse a fresh cached one across
			// short-lived invocations instead of re-authenticating.
			cache := tokenCachePath()
			if !freshTokenFile(cache) || client.LoadToken(cache) != nil {
				if _, err := client.Authenticate(cmd.Context()); err != nil {
					return err
				}
				if err := client.SaveToken(cache); err != nil {
					log.Warn().Err(err).Msg("token cache write failed")
				}
			}

			accounts, err := client.TradableAccounts(cmd.Context())
			if all {
				// Show everything, practice accounts included.
				accounts, err = client.SearchAccounts(cmd.Context(), true)
			}
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Balance", "Can Trade")
			for _, a := range accounts {
				table.Append(
					fmt.Sprintf("%d", a.ID),
					a.Name,
					fmt.Sprintf("%.2f", a.Balance),
					fmt.Sprintf("%t", a.CanTrade),
				)
			}
			return table.Render()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include practice accounts")

	return cmd
}
