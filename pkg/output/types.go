// Package output provides formatting for compile reports.
package output

import (
	"time"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/compiler"
)

// Report is the complete compile summary.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Metadata provides context about the compile run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// FilesProcessed is the number of input files that parsed.
	FilesProcessed int `json:"files_processed"`

	// FilesSkipped is the number of input files excluded.
	FilesSkipped int `json:"files_skipped"`

	// RowsSkipped counts data rows excluded across all files.
	RowsSkipped int `json:"rows_skipped"`

	// DuplicatesRemoved counts records dropped by deduplication.
	DuplicatesRemoved int `json:"duplicates_removed"`

	// OutputRows is the number of records in the merged output.
	OutputRows int `json:"output_rows"`
}

// Metadata provides context about the compile run.
type Metadata struct {
	// Account is the account label the output was compiled for.
	Account string `json:"account"`

	// Sources lists the input files.
	Sources []string `json:"sources"`

	// SkippedFiles lists excluded inputs with reasons.
	SkippedFiles []compiler.SkippedFile `json:"skipped_files,omitempty"`

	// OutputFile is where the consolidated export was written.
	OutputFile string `json:"output_file,omitempty"`

	// CompiledAt is when the compile finished.
	CompiledAt time.Time `json:"compiled_at"`

	// Duration is how long the compile took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from compile stats.
func NewReport(stats compiler.MergeStats, meta Metadata) *Report {
	meta.SkippedFiles = stats.FilesSkipped
	return &Report{
		Summary: Summary{
			FilesProcessed:    stats.FilesProcessed,
			FilesSkipped:      len(stats.FilesSkipped),
			RowsSkipped:       stats.RowsSkipped,
			DuplicatesRemoved: stats.DuplicatesRemoved,
			OutputRows:        stats.OutputRows,
		},
		Metadata: meta,
	}
}

// HasSkips returns true if any file or row was excluded.
func (r *Report) HasSkips() bool {
	return r.Summary.FilesSkipped > 0 || r.Summary.RowsSkipped > 0
}
