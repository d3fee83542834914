// Package detector locates the real header row in a trade-export file.
//
// NinjaTrader exports carry a variable block of metadata (account summary,
// report parameters, blank lines) before the row that names the columns.
// The detector performs a bounded forward scan over the leading rows and
// picks the first row containing enough known column-name tokens.
package detector

import (
	"errors"
	"strings"
)

// ErrNoHeader is returned when no row within the scan window qualifies
// as a header.
var ErrNoHeader = errors.New("no recognizable header row found")

// HeaderInfo describes a detected header row.
type HeaderInfo struct {
	// Line is the zero-based row index of the header within the file.
	Line int

	// Columns are the trimmed column names found on the header row.
	// Trailing empty cells are dropped.
	Columns []string

	// Matches is the number of keyword tokens that matched.
	Matches int
}

// Detector scans leading rows for a recognizable header.
type Detector struct {
	keywords   map[string]bool
	scanWindow int
	minMatches int
}

// Option configures the Detector.
type Option func(*Detector)

// WithScanWindow sets the maximum number of leading rows to scan
// (default 30). Bounding the scan avoids false positives deep in
// data rows.
func WithScanWindow(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.scanWindow = n
		}
	}
}

// WithKeywords replaces the default keyword set.
func WithKeywords(keywords []string) Option {
	return func(d *Detector) {
		if len(keywords) > 0 {
			d.keywords = buildKeywordSet(keywords)
		}
	}
}

// WithMinMatches sets how many keywords a row must contain to qualify
// as a header (default 1).
func WithMinMatches(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.minMatches = n
		}
	}
}

// New creates a Detector with the default keyword set.
func New(opts ...Option) *Detector {
	d := &Detector{
		keywords:   buildKeywordSet(DefaultKeywords()),
		scanWindow: 30,
		minMatches: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ScanWindow returns the configured scan window.
func (d *Detector) ScanWindow() int {
	return d.scanWindow
}

// MatchRow returns the number of cells in the row that match a known
// column-name token.
func (d *Detector) MatchRow(cells []string) int {
	matches := 0
	for _, cell := range cells {
		if d.keywords[strings.ToLower(strings.TrimSpace(cell))] {
			matches++
		}
	}
	return matches
}

// DetectRows scans the given rows (already split into cells) from the
// top and returns the first row that qualifies as a header. Only the
// first scanWindow rows are considered. Returns ErrNoHeader when no
// row qualifies.
func (d *Detector) DetectRows(rows [][]string) (*HeaderInfo, error) {
	limit := len(rows)
	if limit > d.scanWindow {
		limit = d.scanWindow
	}

	for i := 0; i < limit; i++ {
		matches := d.MatchRow(rows[i])
		if matches < d.minMatches {
			continue
		}
		return &HeaderInfo{
			Line:    i,
			Columns: normalizeColumns(rows[i]),
			Matches: matches,
		}, nil
	}

	return nil, ErrNoHeader
}

func buildKeywordSet(keywords []string) map[string]bool {
	set := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		set[strings.ToLower(strings.TrimSpace(k))] = true
	}
	return set
}

// normalizeColumns trims cell whitespace and drops trailing empty cells
// (spreadsheet exports often pad rows with empty columns).
func normalizeColumns(cells []string) []string {
	cols := make([]string, len(cells))
	for i, c := range cells {
		cols[i] = strings.TrimSpace(c)
	}
	end := len(cols)
	for end > 0 && cols[end-1] == "" {
		end--
	}
	return cols[:end]
}
