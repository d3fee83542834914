package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a trade compiler configuration file without running a compile.

Checks:
  - YAML syntax
  - Output format validity
  - Field tolerance bounds
  - Webhook URL, trigger, and timeout validity`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report what we found
	fmt.Printf("\nConfiguration valid!\n")
	fmt.Printf("  Account:         %s\n", cfg.Account)
	fmt.Printf("  Output format:   %s\n", cfg.Output.Format)
	fmt.Printf("  Scan window:     %d\n", cfg.Header.ScanWindow)
	fmt.Printf("  Field tolerance: %d\n", cfg.FieldTolerance)

	if len(cfg.DedupKeys) > 0 {
		fmt.Printf("  Dedup keys:      %v\n", cfg.DedupKeys)
	} else {
		fmt.Printf("  Dedup keys:      all columns\n")
	}

	if len(cfg.Webhooks) > 0 {
		fmt.Printf("\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Printf("  %d. %s (%s, trigger: %s)\n", i+1, name, wh.URL, wh.Trigger)
		}
	}

	return nil
}
