// Package config loads the ingest configuration. File settings come from
// YAML (or JSON); API credentials come only from the environment, never
// from the config file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tsxledger/topstepx"
)

// Environment variables holding the API credentials.
const (
	EnvUserName = "TOPSTEPX_USERNAME"
	EnvAPIKey   = "TOPSTEPX_API_KEY"
)

// Config represents the complete ingest configuration.
type Config struct {
	API      APIConfig      `json:"api" yaml:"api"`
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger"`
	Run      RunConfig      `json:"run" yaml:"run"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule"`
	Notify   NotifyConfig   `json:"notify" yaml:"notify"`
}

// APIConfig contains TopstepX gateway parameters.
type APIConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// LedgerConfig selects and locates the trade store.
type LedgerConfig struct {
	Type    string `json:"type" yaml:"type"` // "sqlite" or "csv"
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
}

// RunConfig contains per-run behavior knobs.
type RunConfig struct {
	Aggregate     bool `json:"aggregate" yaml:"aggregate"`
	ExcludeVoided bool `json:"exclude_voided" yaml:"exclude_voided"`
	Workers       int  `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// ScheduleConfig contains the daily trigger parameters.
type ScheduleConfig struct {
	Hour     int    `json:"hour" yaml:"hour"`
	Timezone string `json:"timezone" yaml:"timezone"`
}

// NotifyConfig contains optional webhook delivery parameters.
type NotifyConfig struct {
	WebhookURL string `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Location resolves the schedule timezone.
func (s ScheduleConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule.timezone: %w", err)
	}
	return loc, nil
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Ledger.Type != "csv" && c.Ledger.Type != "sqlite" {
		return fmt.Errorf("ledger.type must be 'csv' or 'sqlite'")
	}
	if c.Ledger.Type == "sqlite" && c.Ledger.DBPath == "" {
		return fmt.Errorf("ledger.db_path required for sqlite type")
	}
	if c.Ledger.Type == "csv" && c.Ledger.CSVPath == "" {
		return fmt.Errorf("ledger.csv_path required for csv type")
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("run.workers must not be negative")
	}
	if c.Schedule.Hour < 0 || c.Schedule.Hour > 23 {
		return fmt.Errorf("schedule.hour must be between 0 and 23")
	}
	if _, err := c.Schedule.Location(); err != nil {
		return err
	}
	return nil
}

// Credentials reads the API credentials from the environment. A .env
// file in the working directory is loaded first when present.
func Credentials() (topstepx.Credentials, error) {
	_ = godotenv.Load()

	user := os.Getenv(EnvUserName)
	key := os.Getenv(EnvAPIKey)
	if user == "" || key == "" {
		return topstepx.Credentials{}, fmt.Errorf("%s and %s must be set", EnvUserName, EnvAPIKey)
	}
	return topstepx.Credentials{UserName: user, APIKey: key}, nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: topstepx.DefaultBaseURL,
		},
		Ledger: LedgerConfig{
			Type:   "sqlite",
			DBPath: "./trades.db",
		},
		Run: RunConfig{
			Aggregate: true,
		},
		Schedule: ScheduleConfig{
			Hour:     6,
			Timezone: "UTC",
		},
		Notify: NotifyConfig{
			Name: "tsxledger",
		},
	}
}
