package compiler

import (
	"testing"
	"time"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/parser"
)

func record(source string, row int, ts time.Time, values map[string]string) parser.Record {
	return parser.Record{Values: values, Timestamp: ts, Source: source, Row: row}
}

func fileResult(source string, columns []string, records ...parser.Record) *parser.FileResult {
	return &parser.FileResult{Source: source, Columns: columns, Records: records}
}

var base = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

func TestMerge_SortsAcrossFiles(t *testing.T) {
	columns := []string{"Trade", "Entry time"}

	a := fileResult("a.csv", columns,
		record("a.csv", 2, base.Add(4*time.Minute), map[string]string{"Trade": "3", "Entry time": "9:34"}),
		record("a.csv", 3, base, map[string]string{"Trade": "1", "Entry time": "9:30"}),
	)
	b := fileResult("b.csv", columns,
		record("b.csv", 2, base.Add(2*time.Minute), map[string]string{"Trade": "2", "Entry time": "9:32"}),
	)

	merged, duplicates := Merge([]*parser.FileResult{a, b}, MergeOptions{})
	if duplicates != 0 {
		t.Errorf("duplicates = %d, want 0", duplicates)
	}
	if len(merged.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(merged.Records))
	}

	for i := 1; i < len(merged.Records); i++ {
		if merged.Records[i].Timestamp.Before(merged.Records[i-1].Timestamp) {
			t.Errorf("records out of order at index %d", i)
		}
	}
	if merged.Records[0].Values["Trade"] != "1" {
		t.Errorf("first record Trade = %q, want 1", merged.Records[0].Values["Trade"])
	}
}

func TestMerge_NonOverlappingFiles(t *testing.T) {
	// Two files, three non-overlapping rows each: all six survive.
	columns := []string{"Trade", "Entry time"}

	var a, b []parser.Record
	for i := 0; i < 3; i++ {
		a = append(a, record("a.csv", i+2, base.Add(time.Duration(i)*time.Minute),
			map[string]string{"Trade": "a", "Entry time": base.Add(time.Duration(i) * time.Minute).String()}))
		b = append(b, record("b.csv", i+2, base.Add(time.Duration(i+10)*time.Minute),
			map[string]string{"Trade": "b", "Entry time": base.Add(time.Duration(i+10) * time.Minute).String()}))
	}

	merged, duplicates := Merge([]*parser.FileResult{
		fileResult("a.csv", columns, a...),
		fileResult("b.csv", columns, b...),
	}, MergeOptions{})

	if duplicates != 0 {
		t.Errorf("duplicates = %d, want 0", duplicates)
	}
	if len(merged.Records) != 6 {
		t.Errorf("got %d records, want 6", len(merged.Records))
	}
}

func TestMerge_RemovesExactDuplicates(t *testing.T) {
	columns := []string{"Trade", "Entry time"}
	values := map[string]string{"Trade": "1", "Entry time": "9:30"}

	a := fileResult("a.csv", columns,
		record("a.csv", 2, base, values),
		record("a.csv", 3, base, values),
	)
	b := fileResult("b.csv", columns,
		record("b.csv", 2, base, values),
	)

	merged, duplicates := Merge([]*parser.FileResult{a, b}, MergeOptions{})
	if len(merged.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(merged.Records))
	}
	if duplicates != 2 {
		t.Errorf("duplicates = %d, want 2", duplicates)
	}
	// First occurrence wins.
	if merged.Records[0].Source != "a.csv" || merged.Records[0].Row != 2 {
		t.Errorf("kept record from %s row %d, want a.csv row 2",
			merged.Records[0].Source, merged.Records[0].Row)
	}
}

func TestMerge_DedupKeySubset(t *testing.T) {
	columns := []string{"Trade", "Entry time", "Notes"}

	a := fileResult("a.csv", columns,
		record("a.csv", 2, base, map[string]string{"Trade": "1", "Entry time": "9:30", "Notes": "first"}),
		record("a.csv", 3, base, map[string]string{"Trade": "1", "Entry time": "9:30", "Notes": "second"}),
	)

	// Whole-record equality keeps both.
	merged, duplicates := Merge([]*parser.FileResult{a}, MergeOptions{})
	if len(merged.Records) != 2 || duplicates != 0 {
		t.Errorf("whole-record: got %d records / %d duplicates, want 2 / 0",
			len(merged.Records), duplicates)
	}

	// Key on Trade + Entry time collapses them.
	merged, duplicates = Merge([]*parser.FileResult{a}, MergeOptions{DedupKeys: []string{"Trade", "Entry time"}})
	if len(merged.Records) != 1 || duplicates != 1 {
		t.Errorf("keyed: got %d records / %d duplicates, want 1 / 1",
			len(merged.Records), duplicates)
	}
	if merged.Records[0].Values["Notes"] != "first" {
		t.Errorf("kept Notes = %q, want first occurrence", merged.Records[0].Values["Notes"])
	}
}

func TestMerge_StableTieBreak(t *testing.T) {
	// Same timestamp, different values: input order is preserved.
	columns := []string{"Trade", "Entry time"}

	a := fileResult("a.csv", columns,
		record("a.csv", 2, base, map[string]string{"Trade": "a1", "Entry time": "9:30"}),
	)
	b := fileResult("b.csv", columns,
		record("b.csv", 2, base, map[string]string{"Trade": "b1", "Entry time": "9:30"}),
	)

	merged, _ := Merge([]*parser.FileResult{a, b}, MergeOptions{})
	if len(merged.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(merged.Records))
	}
	if merged.Records[0].Values["Trade"] != "a1" || merged.Records[1].Values["Trade"] != "b1" {
		t.Errorf("tie not broken by input order: %v, %v",
			merged.Records[0].Values["Trade"], merged.Records[1].Values["Trade"])
	}
}

func TestMerge_ColumnUnionAcrossShapes(t *testing.T) {
	a := fileResult("a.csv", []string{"Trade", "Entry time"},
		record("a.csv", 2, base, map[string]string{"Trade": "1", "Entry time": "9:30"}),
	)
	b := fileResult("b.csv", []string{"Trade", "Entry time", "MAE"},
		record("b.csv", 2, base.Add(time.Minute), map[string]string{"Trade": "2", "Entry time": "9:31", "MAE": "$10"}),
	)

	merged, _ := Merge([]*parser.FileResult{a, b}, MergeOptions{})
	want := []string{"Trade", "Entry time", "MAE"}
	if len(merged.Columns) != len(want) {
		t.Fatalf("Columns = %v, want %v", merged.Columns, want)
	}
	for i, col := range want {
		if merged.Columns[i] != col {
			t.Errorf("Columns[%d] = %q, want %q", i, merged.Columns[i], col)
		}
	}
}

func TestMerge_EmptyInput(t *testing.T) {
	merged, duplicates := Merge(nil, MergeOptions{})
	if len(merged.Records) != 0 || duplicates != 0 {
		t.Errorf("got %d records / %d duplicates, want empty result", len(merged.Records), duplicates)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	// Merging a result with itself introduces no new records.
	columns := []string{"Trade", "Entry time"}
	a := fileResult("a.csv", columns,
		record("a.csv", 2, base, map[string]string{"Trade": "1", "Entry time": "9:30"}),
		record("a.csv", 3, base.Add(time.Minute), map[string]string{"Trade": "2", "Entry time": "9:31"}),
	)

	first, _ := Merge([]*parser.FileResult{a}, MergeOptions{})

	again := &parser.FileResult{Source: "merged.csv", Columns: first.Columns, Records: first.Records}
	second, duplicates := Merge([]*parser.FileResult{again, again}, MergeOptions{})

	if len(second.Records) != len(first.Records) {
		t.Errorf("got %d records, want %d", len(second.Records), len(first.Records))
	}
	if duplicates != len(first.Records) {
		t.Errorf("duplicates = %d, want %d", duplicates, len(first.Records))
	}
}
