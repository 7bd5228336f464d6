package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tsxledger/config"
	"github.com/rustyeddy/tsxledger/ledger"
	"github.com/rustyeddy/tsxledger/notify"
	"github.com/rustyeddy/tsxledger/run"
	"github.com/rustyeddy/tsxledger/topstepx"
)

// RootConfig carries the persistent flag values into subcommands.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	NoColor    bool
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "tsxledger",
		Short:         "TopstepX trade ingest — ledger, daily stats, and scheduling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "Ledger store path (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&rc.NoColor, "no-color", false, "Disable colored output")

	// Subcommands
	cmd.AddCommand(
		newRunCmd(rc),
		newStatsCmd(rc),
		newAccountsCmd(rc),
		newScheduleCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("tsxledger (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from the persistent flags.
func (rc *RootConfig) newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(rc.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    rc.NoColor,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// loadConfig resolves file config plus flag overrides.
func (rc *RootConfig) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		loaded, err := config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if rc.DBPath != "" {
		switch cfg.Ledger.Type {
		case "csv":
			cfg.Ledger.CSVPath = rc.DBPath
		default:
			cfg.Ledger.DBPath = rc.DBPath
		}
	}
	return cfg, nil
}

// openStore opens the configured ledger store. Callers own Close.
func openStore(cfg *config.Config) (ledger.Store, error) {
	switch cfg.Ledger.Type {
	case "csv":
		return ledger.NewCSV(cfg.Ledger.CSVPath)
	case "sqlite":
		return ledger.NewSQLite(cfg.Ledger.DBPath)
	default:
		return nil, fmt.Errorf("unknown ledger type %q", cfg.Ledger.Type)
	}
}

// newAPIClient builds an authenticated-capable client from config plus
// environment credentials.
func newAPIClient(cfg *config.Config, log zerolog.Logger) (*topstepx.Client, error) {
	creds, err := config.Credentials()
	if err != nil {
		return nil, err
	}
	return topstepx.NewClient(cfg.API.BaseURL, creds, log), nil
}

// notifiers assembles the post-run hooks: always the console, plus a
// webhook when one is configured.
func notifiers(cfg *config.Config) []run.Notifier {
	out := []run.Notifier{notify.NewConsole()}
	if cfg.Notify.WebhookURL != "" {
		out = append(out, notify.NewWebhook(cfg.Notify.WebhookURL, cfg.Notify.Name))
	}
	return out
}
