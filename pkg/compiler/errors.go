package compiler

import "errors"

// ErrNoUsableData is returned when files were supplied but every one
// of them failed to parse. An empty file list is not an error.
var ErrNoUsableData = errors.New("no readable trade data in any input file")
