package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeTokens returns the substrings used to identify time-like
// columns in a header (case-insensitive).
func DefaultTimeTokens() []string {
	return []string{"time", "date", "entry", "exit"}
}

// DefaultTimeLayouts returns the layouts tried when parsing timestamp
// values, ordered from most to least specific. NinjaTrader exports use
// US-style dates with either 12h or 24h clocks.
func DefaultTimeLayouts() []string {
	return []string{
		"1/2/2006 3:04:05 PM",
		"1/2/2006 15:04:05",
		"1/2/2006 3:04 PM",
		"1/2/2006 15:04",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"1/2/2006",
	}
}

// excelEpoch is day zero of the 1900 date system used by spreadsheet
// serial dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// TimeResolver locates a file's time column and parses its values.
type TimeResolver struct {
	tokens  []string
	layouts []string
}

// NewTimeResolver creates a resolver. Empty arguments fall back to the
// defaults.
func NewTimeResolver(tokens, layouts []string) *TimeResolver {
	if len(tokens) == 0 {
		tokens = DefaultTimeTokens()
	}
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts()
	}
	return &TimeResolver{tokens: tokens, layouts: layouts}
}

// CandidateColumns returns the columns whose names look time-like,
// ordered by token priority: "Entry time" is probed before "Entry
// price" even though both contain a token, because price values can
// masquerade as spreadsheet serial dates.
func (r *TimeResolver) CandidateColumns(columns []string) []string {
	var candidates []string
	seen := make(map[string]bool)
	for _, tok := range r.tokens {
		for _, col := range columns {
			if seen[col] {
				continue
			}
			if strings.Contains(strings.ToLower(col), tok) {
				seen[col] = true
				candidates = append(candidates, col)
			}
		}
	}
	return candidates
}

// Parse parses a single timestamp value. Besides the configured
// layouts it accepts spreadsheet serial dates (days since the 1900
// epoch), which appear when a workbook cell loses its date format.
func (r *TimeResolver) Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp value")
	}

	for _, layout := range r.layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		// Serial dates for plausible trading years fall well inside
		// this range (1930..2260).
		if serial >= 11000 && serial < 132000 {
			days := int(serial)
			frac := serial - float64(days)
			ts := excelEpoch.AddDate(0, 0, days)
			return ts.Add(time.Duration(frac * 24 * float64(time.Hour))), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

// ResolveColumn picks the time column for a file: the first candidate
// column whose first non-blank data value parses. Returns an error when
// the file has no usable time column.
func (r *TimeResolver) ResolveColumn(columns []string, rows [][]string) (string, error) {
	candidates := r.CandidateColumns(columns)
	if len(candidates) == 0 {
		return "", fmt.Errorf("no time-like column among %v", columns)
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col] = i
	}

	for _, col := range candidates {
		i := index[col]
		for _, row := range rows {
			if i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value == "" {
				continue
			}
			if _, err := r.Parse(value); err == nil {
				return col, nil
			}
			break // first non-blank value decides for this column
		}
	}

	return "", fmt.Errorf("no candidate column parses as a timestamp (tried %v)", candidates)
}
