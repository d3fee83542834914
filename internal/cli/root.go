// Package cli provides the command-line interface for the trade compiler.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trade-compiler",
		Short: "Merge NinjaTrader trade exports into a single file",
		Long: `Trade Compiler merges per-day NinjaTrader trade export files into one
chronologically ordered file per account.

It handles:
  - Variable preamble rows before the real column header
  - Mixed CSV and XLSX exports in one run
  - Duplicate rows across overlapping exports
  - Stable chronological ordering by trade timestamp

Point it at a directory of daily exports and get back a single compiled file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewCompileCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
