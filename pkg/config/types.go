// Package config provides configuration loading and validation for the
// trade compiler.
package config

import "time"

// Config is the root configuration structure loaded from YAML. Every
// field has a sensible default, so a config file is optional.
type Config struct {
	// Header controls header-row detection.
	Header HeaderConfig `yaml:"header"`

	// Timestamp controls time-column resolution and parsing.
	Timestamp TimestampConfig `yaml:"timestamp"`

	// FieldTolerance is how many fields a data row may be short of the
	// header and still be padded instead of skipped. Spreadsheet rows
	// drop trailing empty cells, so a small tolerance is normal.
	FieldTolerance int `yaml:"field_tolerance"`

	// DedupKeys names the columns that define record equality for
	// deduplication. Empty means every column (whole-record equality).
	DedupKeys []string `yaml:"dedup_keys,omitempty"`

	// Output controls the consolidated output file.
	Output OutputConfig `yaml:"output"`

	// Account is the account label used for the default output file
	// name.
	Account string `yaml:"account"`

	// Webhooks optionally receive the merge report after a compile.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// HeaderConfig controls header-row detection.
type HeaderConfig struct {
	// Keywords are the column-name tokens that identify a header row.
	// Empty means the built-in NinjaTrader set.
	Keywords []string `yaml:"keywords,omitempty"`

	// ScanWindow bounds how many leading rows are scanned.
	ScanWindow int `yaml:"scan_window"`

	// MinMatches is how many keywords a row must contain to qualify.
	MinMatches int `yaml:"min_matches"`
}

// TimestampConfig controls time-column resolution.
type TimestampConfig struct {
	// Columns are the substrings that mark a column as time-like.
	// Empty means the built-in set (time, date, entry, exit).
	Columns []string `yaml:"columns,omitempty"`

	// Layouts are the Go time layouts tried when parsing values.
	// Empty means the built-in NinjaTrader layouts.
	Layouts []string `yaml:"layouts,omitempty"`
}

// OutputConfig controls the consolidated output file.
type OutputConfig struct {
	// Format is the output encoding: csv or xlsx.
	Format string `yaml:"format"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnSkips fires only when files or rows were skipped
	// (default).
	WebhookTriggerOnSkips WebhookTrigger = "on_skips"
	// WebhookTriggerAlways fires after every compile.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending merge reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_skips" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
