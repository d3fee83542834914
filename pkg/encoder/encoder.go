// Package encoder serializes merged results into downloadable files.
package encoder

import (
	"fmt"
	"unicode/utf8"
)

// EncodingError reports a field value that cannot be represented in
// the output encoding. It is fatal to the compile operation.
type EncodingError struct {
	// Row is the 1-based output row (0 for the header row).
	Row int

	// Column is the column name.
	Column string

	// Reason describes the failure.
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding row %d column %q: %s", e.Row, e.Column, e.Reason)
}

// checkValue rejects values the UTF-8 output cannot represent.
func checkValue(row int, column, value string) error {
	if !utf8.ValidString(value) {
		return &EncodingError{Row: row, Column: column, Reason: "value is not valid UTF-8"}
	}
	return nil
}
