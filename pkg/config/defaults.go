package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultScanWindow     = 30
	DefaultMinMatches     = 1
	DefaultFieldTolerance = 2
	DefaultAccount        = "Account_1"
	DefaultOutputFormat   = "csv"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvAccount      = "TRADECOMPILER_ACCOUNT"
	EnvOutputFormat = "TRADECOMPILER_OUTPUT_FORMAT"
)

// DefaultConfig returns a configuration with sensible defaults. It is
// valid without any config file.
func DefaultConfig() *Config {
	return &Config{
		Header: HeaderConfig{
			ScanWindow: DefaultScanWindow,
			MinMatches: DefaultMinMatches,
		},
		FieldTolerance: DefaultFieldTolerance,
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
		Account: DefaultAccount,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if account := os.Getenv(EnvAccount); account != "" {
		c.Account = account
	}
	if format := os.Getenv(EnvOutputFormat); format != "" {
		c.Output.Format = format
	}
}
