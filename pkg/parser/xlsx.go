package parser

import (
	"bytes"
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/detector"
)

// XLSXReader parses spreadsheet exports. Only the first sheet of the
// workbook is read.
type XLSXReader struct {
	detector  *detector.Detector
	resolver  *TimeResolver
	tolerance int
}

// NewXLSXReader creates a Reader for xlsx workbooks.
func NewXLSXReader(d *detector.Detector, resolver *TimeResolver, tolerance int) *XLSXReader {
	return &XLSXReader{detector: d, resolver: resolver, tolerance: tolerance}
}

// Name returns the reader name.
func (r *XLSXReader) Name() string {
	return "xlsx"
}

// Read parses the workbook.
func (r *XLSXReader) Read(ctx context.Context, file RawFile) (*FileResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		return nil, malformed(file.Name, "opening workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, malformed(file.Name, "workbook has no sheets", nil)
	}

	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, malformed(file.Name, "reading rows", err)
	}
	defer iter.Close()

	var rows [][]string
	for iter.Next() {
		cells, err := iter.Columns()
		if err != nil {
			return nil, malformed(file.Name, "reading row", err)
		}
		rows = append(rows, cells)
	}
	if err := iter.Error(); err != nil {
		return nil, malformed(file.Name, "iterating rows", err)
	}

	header, err := r.detector.DetectRows(rows)
	if err != nil {
		return nil, malformed(file.Name, "detecting header", err)
	}

	return buildRecords(file, header, rows, r.resolver, r.tolerance)
}
