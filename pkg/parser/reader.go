package parser

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/detector"
)

// Reader parses one raw export file into a FileResult. Implementations
// exist for delimited text and spreadsheet files; both converge on the
// same Record shape.
type Reader interface {
	// Read parses the file. Returns *MalformedInputError when the file
	// has no detectable header or cannot be read at all.
	Read(ctx context.Context, file RawFile) (*FileResult, error)

	// Name returns the reader name (csv, xlsx).
	Name() string
}

// zip magic, start of every xlsx file.
var xlsxMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// ole magic, start of legacy binary .xls workbooks.
var oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0}

// ForFile selects a Reader for the file by extension, falling back to
// content sniffing for unknown extensions. Legacy binary .xls workbooks
// are not supported.
func ForFile(file RawFile, d *detector.Detector, resolver *TimeResolver, tolerance int) (Reader, error) {
	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".xlsx":
		return NewXLSXReader(d, resolver, tolerance), nil
	case ".xls":
		return nil, malformed(file.Name, "legacy binary .xls is not supported, re-export as .xlsx or .csv", nil)
	case ".csv", ".txt":
		return NewCSVReader(d, resolver, tolerance), nil
	}

	if bytes.HasPrefix(file.Data, xlsxMagic) {
		return NewXLSXReader(d, resolver, tolerance), nil
	}
	if bytes.HasPrefix(file.Data, oleMagic) {
		return nil, malformed(file.Name, "legacy binary .xls is not supported, re-export as .xlsx or .csv", nil)
	}
	return NewCSVReader(d, resolver, tolerance), nil
}
