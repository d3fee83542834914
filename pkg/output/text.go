package output

import (
	"context"
	"fmt"
	"io"
	"time"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "%s: %d rows compiled, %d duplicates removed, %d rows skipped\n",
		report.Metadata.Account,
		report.Summary.OutputRows,
		report.Summary.DuplicatesRemoved,
		report.Summary.RowsSkipped)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Trade Compile Report ===")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Account: %s\n", report.Metadata.Account)
	if report.Metadata.OutputFile != "" {
		fmt.Fprintf(w, "Output:  %s\n", report.Metadata.OutputFile)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Files processed: %d\n", report.Summary.FilesProcessed)
	if report.Summary.FilesSkipped > 0 {
		fmt.Fprintf(w, "Files skipped:   %d\n", report.Summary.FilesSkipped)
		for _, sf := range report.Metadata.SkippedFiles {
			fmt.Fprintf(w, "  - %s: %s\n", sf.Name, sf.Reason)
		}
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d rows in output, %d duplicates removed, %d rows skipped\n",
		report.Summary.OutputRows,
		report.Summary.DuplicatesRemoved,
		report.Summary.RowsSkipped)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Sources: %d file(s)\n", len(report.Metadata.Sources))
		for _, src := range report.Metadata.Sources {
			fmt.Fprintf(w, "  - %s\n", src)
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}

	return nil
}
