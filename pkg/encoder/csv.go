package encoder

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/compiler"
)

// CSVEncoder writes the merged result as UTF-8 comma-separated text:
// one header row, one line per record, standard CSV quoting. Field
// values are written verbatim, so compiling a compiled file again
// yields the same records.
type CSVEncoder struct{}

// NewCSVEncoder creates a CSV encoder.
func NewCSVEncoder() *CSVEncoder {
	return &CSVEncoder{}
}

// Name returns the encoding name.
func (e *CSVEncoder) Name() string {
	return "csv"
}

// Encode writes the result to w.
func (e *CSVEncoder) Encode(ctx context.Context, result *compiler.MergedResult, w io.Writer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for _, col := range result.Columns {
		if err := checkValue(0, col, col); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(result.Columns))
	for i, rec := range result.Records {
		for j, col := range result.Columns {
			value := rec.Values[col]
			if err := checkValue(i+1, col, value); err != nil {
				return err
			}
			row[j] = value
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
