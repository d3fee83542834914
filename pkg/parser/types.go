// Package parser reads trade-export files and produces normalized records.
package parser

import (
	"time"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/detector"
)

// RawFile is an uploaded or on-disk export file. It is owned by a single
// compile invocation and discarded afterwards.
type RawFile struct {
	// Name is the original file name, used for format selection and
	// reporting.
	Name string

	// Data is the raw file content.
	Data []byte
}

// Record is one normalized trade-history row.
type Record struct {
	// Values maps column name to the verbatim cell value.
	Values map[string]string

	// Timestamp is the parsed value of the file's time column,
	// used for ordering.
	Timestamp time.Time

	// Source is the file name this record came from.
	Source string

	// Row is the 1-based row number in the source file.
	Row int
}

// FileResult holds the parsed records of a single input file.
type FileResult struct {
	// Source is the input file name.
	Source string

	// Header describes the detected header row.
	Header detector.HeaderInfo

	// Columns are the column names, in file order.
	Columns []string

	// TimeColumn is the column resolved for timestamp ordering.
	TimeColumn string

	// Records are the parsed rows, in file order.
	Records []Record

	// RowsSkipped counts data rows excluded because they were
	// misaligned with the header or had an unparseable timestamp.
	RowsSkipped int
}
