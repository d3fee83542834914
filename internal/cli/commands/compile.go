package commands

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/compiler"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/config"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/encoder"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/output"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/parser"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// CompileOptions holds command-line options for the compile command.
type CompileOptions struct {
	Config       string
	Account      string
	OutputFile   string
	OutputFormat string
	Report       string
	Verbose      bool
	Quiet        bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	opts := &CompileOptions{}

	cmd := &cobra.Command{
		Use:   "compile <export-file>...",
		Short: "Compile trade exports into one consolidated file",
		Long: `Compile per-day NinjaTrader trade export files into a single
chronologically ordered file.

Each input may be CSV or XLSX. Leading metadata rows before the real
column header are skipped automatically, duplicate rows across files
are removed, and the merged records are sorted by trade timestamp.

Files that cannot be parsed are skipped and reported; the compile only
fails when no input file yields any usable data.

Exit codes:
  0 - Compile succeeded with no skipped files or rows
  1 - Compile succeeded but some files or rows were skipped
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().StringVarP(&opts.Account, "account", "a", "", "Account label for the output file name")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "Output file (default <account>_compiled.<format>)")
	cmd.Flags().StringVar(&opts.OutputFormat, "output-format", "", "Output encoding (csv|xlsx)")
	cmd.Flags().StringVar(&opts.Report, "report", "text", "Report format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show per-file details in the report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_skips", "When to fire webhook (on_skips|always|never)")

	return cmd
}

func runCompile(cmd *cobra.Command, args []string, opts *CompileOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := loadConfig(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.Account != "" {
		cfg.Account = opts.Account
	}
	if opts.OutputFormat != "" {
		cfg.Output.Format = opts.OutputFormat
	}

	// Expand input globs
	paths, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}

	// Read input files
	files, err := readFiles(paths)
	if err != nil {
		return err
	}

	// Select encoder
	enc, err := createEncoder(cfg.Output.Format)
	if err != nil {
		return err
	}

	// Compile
	start := time.Now()
	result, err := compiler.New(cfg).Compile(ctx, files, enc)
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	// Write output unless the run was a no-op
	outputFile := opts.OutputFile
	if outputFile == "" {
		outputFile = DefaultOutputFile(cfg.Account, enc.Name())
	}
	if len(files) > 0 {
		// #nosec G306 - trade exports don't need restrictive permissions
		if err := os.WriteFile(outputFile, result.Output, 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	// Create report
	report := output.NewReport(result.Stats, output.Metadata{
		Account:    cfg.Account,
		Sources:    paths,
		OutputFile: outputFile,
		CompiledAt: start,
		Duration:   time.Since(start),
	})

	// Create formatter
	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	// Output report
	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail the compile)
	sendWebhooks(ctx, cfg, opts, report)

	// Set exit code based on results
	if report.HasSkips() {
		ExitCode = 1
	}

	return nil
}

// loadConfig loads the named config file, or the defaults when no file
// was given.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		cfg := config.DefaultConfig()
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.Load(ctx, path)
}

// readFiles reads every input path into memory.
func readFiles(paths []string) ([]parser.RawFile, error) {
	files := make([]parser.RawFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 - user-supplied input path
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, parser.RawFile{Name: path, Data: data})
	}
	return files, nil
}

func createEncoder(format string) (compiler.Encoder, error) {
	switch format {
	case "", "csv":
		return encoder.NewCSVEncoder(), nil
	case "xlsx":
		return encoder.NewXLSXEncoder(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use csv or xlsx)", format)
	}
}

func createFormatter(opts *CompileOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Report {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (use text or json)", opts.Report)
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DefaultOutputFile builds the output file name for an account label.
// Characters that are awkward in file names collapse to underscores.
func DefaultOutputFile(account, format string) string {
	name := unsafeFileChars.ReplaceAllString(strings.TrimSpace(account), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		name = config.DefaultAccount
	}
	return name + "_compiled." + format
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged to stderr but don't fail the compile.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *CompileOptions, report *output.Report) {
	// Collect webhooks from config and CLI
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		// Check trigger condition
		if !shouldFireWebhook(wh.Trigger, report.HasSkips()) {
			continue
		}

		// Send webhook
		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		// Log result
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *CompileOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	// Add config file webhooks
	webhooks = append(webhooks, cfg.Webhooks...)

	// Add CLI webhook if specified
	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnSkips
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire based on trigger and skips.
func shouldFireWebhook(trigger config.WebhookTrigger, hasSkips bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnSkips:
		return hasSkips
	default:
		// Default to on_skips
		return hasSkips
	}
}
