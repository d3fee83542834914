package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/detector"
)

// candidateDelimiters are tried in order when sniffing a delimited
// file. NinjaTrader exports are comma-separated, but locale settings
// produce semicolon and tab variants.
var candidateDelimiters = []rune{',', ';', '\t'}

// CSVReader parses delimited text exports.
type CSVReader struct {
	detector  *detector.Detector
	resolver  *TimeResolver
	tolerance int
}

// NewCSVReader creates a Reader for delimited text files.
func NewCSVReader(d *detector.Detector, resolver *TimeResolver, tolerance int) *CSVReader {
	return &CSVReader{detector: d, resolver: resolver, tolerance: tolerance}
}

// Name returns the reader name.
func (r *CSVReader) Name() string {
	return "csv"
}

// Read parses the file. The delimiter is sniffed by splitting the
// leading rows under each candidate delimiter and keeping the one
// whose header row matches the most column keywords.
func (r *CSVReader) Read(ctx context.Context, file RawFile) (*FileResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rows, header, err := r.sniff(file)
	if err != nil {
		return nil, err
	}

	return buildRecords(file, header, rows, r.resolver, r.tolerance)
}

// sniff splits the file under each candidate delimiter and returns the
// rows and header of the best-matching split.
func (r *CSVReader) sniff(file RawFile) ([][]string, *detector.HeaderInfo, error) {
	var (
		bestRows   [][]string
		bestHeader *detector.HeaderInfo
	)

	for _, delim := range candidateDelimiters {
		rows, err := splitRows(file.Data, delim)
		if err != nil {
			continue
		}
		header, err := r.detector.DetectRows(rows)
		if err != nil {
			continue
		}
		if bestHeader == nil || header.Matches > bestHeader.Matches {
			bestRows, bestHeader = rows, header
		}
	}

	if bestHeader == nil {
		return nil, nil, malformed(file.Name, "detecting header", detector.ErrNoHeader)
	}
	return bestRows, bestHeader, nil
}

// splitRows parses the content into rows under one delimiter.
// Field counts vary between the metadata preamble and the data rows,
// so per-record field validation is disabled.
func splitRows(data []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	return rows, nil
}
