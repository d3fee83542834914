package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/config"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/detector"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output     string
	ScanWindow int
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <export-file>",
		Short: "Detect the header row in an export file",
		Long: `Inspect a trade export file and report where its real column header is.

Scans the leading rows for known NinjaTrader column names, then shows
the detected header line, the column names, the column resolved for
timestamp ordering, and a sample of parsed rows.

Useful for diagnosing exports with unusual preamble blocks before
running a full compile.

Example:
  trade-compiler detect exports/2024-01-15.csv
  trade-compiler detect --scan-window 50 exports/deep-preamble.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.ScanWindow, "scan-window", "n", config.DefaultScanWindow, "Number of leading rows to scan")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	exportFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Check file exists
	if _, err := os.Stat(exportFile); os.IsNotExist(err) {
		return fmt.Errorf("export file not found: %s", exportFile)
	}

	data, err := os.ReadFile(exportFile) // #nosec G304 - user-supplied input path
	if err != nil {
		return fmt.Errorf("reading %s: %w", exportFile, err)
	}
	file := parser.RawFile{Name: exportFile, Data: data}

	d := detector.New(detector.WithScanWindow(opts.ScanWindow))
	resolver := parser.NewTimeResolver(nil, nil)

	reader, err := parser.ForFile(file, d, resolver, config.DefaultFieldTolerance)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	result, err := reader.Read(ctx, file)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	// Output results
	switch opts.Output {
	case "json":
		return outputDetectJSON(result, reader.Name())
	default:
		return outputDetectText(result, reader.Name())
	}
}

func outputDetectText(result *parser.FileResult, format string) error {
	fmt.Println("=== Header Detection ===")
	fmt.Println()
	fmt.Printf("File: %s\n", result.Source)
	fmt.Printf("Format: %s\n", format)
	fmt.Printf("Header line: %d (%d rows of preamble)\n", result.Header.Line+1, result.Header.Line)
	fmt.Printf("Keyword matches: %d\n", result.Header.Matches)
	fmt.Println()

	fmt.Println("Columns:")
	for _, col := range result.Columns {
		marker := ""
		if col == result.TimeColumn {
			marker = "  (time column)"
		}
		fmt.Printf("  - %s%s\n", col, marker)
	}
	fmt.Println()

	fmt.Printf("Data rows parsed: %d\n", len(result.Records))
	if result.RowsSkipped > 0 {
		fmt.Printf("Rows skipped: %d\n", result.RowsSkipped)
	}

	if len(result.Records) > 0 {
		first := result.Records[0]
		last := result.Records[len(result.Records)-1]
		fmt.Println()
		fmt.Printf("First timestamp: %s (row %d)\n", first.Timestamp.Format("2006-01-02 15:04:05"), first.Row)
		fmt.Printf("Last timestamp:  %s (row %d)\n", last.Timestamp.Format("2006-01-02 15:04:05"), last.Row)
	}

	return nil
}

// detectJSON is the JSON shape of a detection result.
type detectJSON struct {
	File        string   `json:"file"`
	Format      string   `json:"format"`
	HeaderLine  int      `json:"header_line"`
	Matches     int      `json:"keyword_matches"`
	Columns     []string `json:"columns"`
	TimeColumn  string   `json:"time_column"`
	RowsParsed  int      `json:"rows_parsed"`
	RowsSkipped int      `json:"rows_skipped"`
}

func outputDetectJSON(result *parser.FileResult, format string) error {
	out := detectJSON{
		File:        result.Source,
		Format:      format,
		HeaderLine:  result.Header.Line,
		Matches:     result.Header.Matches,
		Columns:     result.Columns,
		TimeColumn:  result.TimeColumn,
		RowsParsed:  len(result.Records),
		RowsSkipped: result.RowsSkipped,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
