package parser

import "fmt"

// MalformedInputError reports a file that could not be parsed: no
// recognizable header, an unreadable workbook, or no usable time
// column. The compiler skips and counts such files rather than
// failing the whole merge.
type MalformedInputError struct {
	// File is the input file name.
	File string

	// Reason describes why the file was rejected.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input %s: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed input %s: %s", e.File, e.Reason)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func malformed(file, reason string, err error) error {
	return &MalformedInputError{File: file, Reason: reason, Err: err}
}
