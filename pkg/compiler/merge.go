package compiler

import (
	"sort"
	"strings"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/parser"
)

// MergedResult is the consolidated, deduplicated, time-ordered record
// set spanning all input files.
type MergedResult struct {
	// Columns are the output column names: the first-seen-order union
	// across all input files.
	Columns []string

	// Records are sorted by timestamp ascending. Ties keep input
	// order (files in argument order, rows in file order).
	Records []parser.Record
}

// MergeOptions configures the merge.
type MergeOptions struct {
	// DedupKeys names the columns that define record equality.
	// Empty means every column.
	DedupKeys []string
}

// Merge unions the per-file record sequences into one MergedResult.
// Records are concatenated preserving input order, deduplicated (first
// occurrence wins), and stable-sorted by timestamp. Returns the result
// and the number of duplicates removed. An empty input yields an empty
// result, not an error.
func Merge(results []*parser.FileResult, opts MergeOptions) (*MergedResult, int) {
	columns := unionColumns(results)

	keyColumns := opts.DedupKeys
	if len(keyColumns) == 0 {
		keyColumns = columns
	}

	seen := make(map[string]bool)
	duplicates := 0
	var records []parser.Record

	for _, res := range results {
		for _, rec := range res.Records {
			key := recordKey(rec, keyColumns)
			if seen[key] {
				duplicates++
				continue
			}
			seen[key] = true
			records = append(records, rec)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	return &MergedResult{Columns: columns, Records: records}, duplicates
}

// unionColumns builds the output column set in first-seen order.
func unionColumns(results []*parser.FileResult) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, res := range results {
		for _, col := range res.Columns {
			if col == "" || seen[col] {
				continue
			}
			seen[col] = true
			columns = append(columns, col)
		}
	}
	return columns
}

// recordKey builds the equality key over the given columns. Columns a
// record does not have count as empty, so records from files with
// different column sets compare on the shared shape.
func recordKey(rec parser.Record, columns []string) string {
	var b strings.Builder
	for _, col := range columns {
		b.WriteString(rec.Values[col])
		b.WriteByte(0x1f) // unit separator between fields
	}
	return b.String()
}
