// Package compiler merges per-day trade-export files into one
// consolidated, deduplicated, time-ordered export.
//
// The pipeline is a single synchronous pass: header detection and row
// parsing per file, then a merge across all files, then encoding. All
// state is local to one Compile call, so a Compiler is safe for
// concurrent use.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/config"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/detector"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/parser"
)

// Encoder serializes a MergedResult. Implementations live in the
// encoder package.
type Encoder interface {
	// Encode writes the result to w.
	Encode(ctx context.Context, result *MergedResult, w io.Writer) error

	// Name returns the encoding name (csv, xlsx).
	Name() string
}

// Result is the outcome of one compile operation.
type Result struct {
	// Output is the encoded consolidated export.
	Output []byte

	// Merged is the record set the output was encoded from.
	Merged *MergedResult

	// Stats summarizes the operation.
	Stats MergeStats
}

// Compiler runs the merge pipeline.
type Compiler struct {
	detector  *detector.Detector
	resolver  *parser.TimeResolver
	tolerance int
	dedupKeys []string
}

// New creates a Compiler from a configuration.
func New(cfg *config.Config) *Compiler {
	var detectorOpts []detector.Option
	if len(cfg.Header.Keywords) > 0 {
		detectorOpts = append(detectorOpts, detector.WithKeywords(cfg.Header.Keywords))
	}
	detectorOpts = append(detectorOpts,
		detector.WithScanWindow(cfg.Header.ScanWindow),
		detector.WithMinMatches(cfg.Header.MinMatches),
	)

	return &Compiler{
		detector:  detector.New(detectorOpts...),
		resolver:  parser.NewTimeResolver(cfg.Timestamp.Columns, cfg.Timestamp.Layouts),
		tolerance: cfg.FieldTolerance,
		dedupKeys: cfg.DedupKeys,
	}
}

// Compile parses every input file, merges the records, and encodes the
// consolidated export with enc.
//
// Files that cannot be parsed are skipped and reported in the stats;
// Compile fails with ErrNoUsableData only when every supplied file
// failed. Zero input files is a no-op success with empty output.
// Encoding failures are fatal.
func (c *Compiler) Compile(ctx context.Context, files []parser.RawFile, enc Encoder) (*Result, error) {
	results, stats, err := c.parseFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	merged, duplicates := Merge(results, MergeOptions{DedupKeys: c.dedupKeys})
	stats.DuplicatesRemoved = duplicates
	stats.OutputRows = len(merged.Records)

	var buf bytes.Buffer
	if len(files) > 0 {
		if err := enc.Encode(ctx, merged, &buf); err != nil {
			return nil, err
		}
	}

	return &Result{
		Output: buf.Bytes(),
		Merged: merged,
		Stats:  *stats,
	}, nil
}

// parseFiles runs the per-file stage. Parse failures are collected
// into the stats; only context cancellation or total failure aborts.
func (c *Compiler) parseFiles(ctx context.Context, files []parser.RawFile) ([]*parser.FileResult, *MergeStats, error) {
	stats := &MergeStats{}
	var results []*parser.FileResult

	for _, file := range files {
		res, err := c.parseFile(ctx, file)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			stats.FilesSkipped = append(stats.FilesSkipped, SkippedFile{
				Name:   file.Name,
				Reason: skipReason(err),
			})
			continue
		}
		stats.FilesProcessed++
		stats.RowsSkipped += res.RowsSkipped
		results = append(results, res)
	}

	if len(files) > 0 && len(results) == 0 {
		return nil, nil, ErrNoUsableData
	}

	return results, stats, nil
}

// parseFile parses one file with the reader selected for it.
func (c *Compiler) parseFile(ctx context.Context, file parser.RawFile) (*parser.FileResult, error) {
	reader, err := parser.ForFile(file, c.detector, c.resolver, c.tolerance)
	if err != nil {
		return nil, err
	}
	return reader.Read(ctx, file)
}

// skipReason extracts a report-friendly reason from a parse error.
func skipReason(err error) string {
	var malformedErr *parser.MalformedInputError
	if errors.As(err, &malformedErr) {
		if malformedErr.Err != nil {
			return malformedErr.Reason + ": " + malformedErr.Err.Error()
		}
		return malformedErr.Reason
	}
	return err.Error()
}
