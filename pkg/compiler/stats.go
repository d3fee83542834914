package compiler

// SkippedFile records an input file excluded from the merge and why.
type SkippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// MergeStats summarizes one compile operation. Per-file and per-row
// problems are recovered locally and surface here rather than as
// errors.
type MergeStats struct {
	// FilesProcessed is the number of input files that parsed.
	FilesProcessed int `json:"files_processed"`

	// FilesSkipped lists input files excluded from the merge.
	FilesSkipped []SkippedFile `json:"files_skipped,omitempty"`

	// RowsSkipped counts data rows excluded across all files
	// (misaligned with the header or unparseable timestamp).
	RowsSkipped int `json:"rows_skipped"`

	// DuplicatesRemoved counts records dropped by deduplication.
	DuplicatesRemoved int `json:"duplicates_removed"`

	// OutputRows is the number of records in the merged output.
	OutputRows int `json:"output_rows"`
}
