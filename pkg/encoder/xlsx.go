package encoder

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/compiler"
)

// XLSXEncoder writes the merged result as a single-sheet workbook,
// streamed row by row so large merges stay cheap.
type XLSXEncoder struct{}

// NewXLSXEncoder creates an xlsx encoder.
func NewXLSXEncoder() *XLSXEncoder {
	return &XLSXEncoder{}
}

// Name returns the encoding name.
func (e *XLSXEncoder) Name() string {
	return "xlsx"
}

// Encode writes the result to w.
func (e *XLSXEncoder) Encode(ctx context.Context, result *compiler.MergedResult, w io.Writer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(f.GetSheetName(0))
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	header := make([]interface{}, len(result.Columns))
	for i, col := range result.Columns {
		if err := checkValue(0, col, col); err != nil {
			return err
		}
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range result.Records {
		row := make([]interface{}, len(result.Columns))
		for j, col := range result.Columns {
			value := rec.Values[col]
			if err := checkValue(i+1, col, value); err != nil {
				return err
			}
			row[j] = value
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+1, err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing stream writer: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
