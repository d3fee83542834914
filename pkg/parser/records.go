package parser

import (
	"strings"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/detector"
)

// buildRecords converts the rows after a detected header into Records.
// Shared by the csv and xlsx readers.
//
// Rows are excluded and counted, not fatal, when they cannot be aligned
// to the header (more fields than the header, or short by more than the
// tolerance) or when their timestamp does not parse. Rows short by at
// most the tolerance are padded with empty values; spreadsheet readers
// drop trailing empty cells, so a small deficit is normal. Fully blank
// rows are dropped silently.
func buildRecords(file RawFile, header *detector.HeaderInfo, rows [][]string, resolver *TimeResolver, tolerance int) (*FileResult, error) {
	columns := header.Columns
	dataRows := rows[header.Line+1:]

	timeColumn, err := resolver.ResolveColumn(columns, dataRows)
	if err != nil {
		return nil, malformed(file.Name, "resolving time column", err)
	}

	timeIdx := 0
	for i, col := range columns {
		if col == timeColumn {
			timeIdx = i
			break
		}
	}

	result := &FileResult{
		Source:     file.Name,
		Header:     *header,
		Columns:    columns,
		TimeColumn: timeColumn,
	}

	for i, row := range dataRows {
		cells := alignRow(row, len(columns))
		if cells == nil {
			if !blankRow(row) {
				result.RowsSkipped++
			}
			continue
		}
		if deficit := len(columns) - len(row); deficit > tolerance {
			result.RowsSkipped++
			continue
		}

		ts, err := resolver.Parse(cells[timeIdx])
		if err != nil {
			result.RowsSkipped++
			continue
		}

		values := make(map[string]string, len(columns))
		for j, col := range columns {
			if col == "" {
				continue
			}
			values[col] = cells[j]
		}

		result.Records = append(result.Records, Record{
			Values:    values,
			Timestamp: ts,
			Source:    file.Name,
			// +2: data rows start one past the header, rows are 1-based.
			Row: header.Line + i + 2,
		})
	}

	return result, nil
}

// alignRow trims cell whitespace and fits the row to the header width:
// trailing empty cells beyond the header are dropped, short rows are
// padded with empty values. Returns nil when the row is blank or has
// more non-empty fields than the header.
func alignRow(row []string, columns int) []string {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = strings.TrimSpace(c)
	}

	end := len(cells)
	for end > columns && cells[end-1] == "" {
		end--
	}
	if end > columns {
		return nil // extra populated fields, cannot align
	}
	cells = cells[:end]

	if blankRow(cells) {
		return nil
	}

	for len(cells) < columns {
		cells = append(cells, "")
	}
	return cells
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
