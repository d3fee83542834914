package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{})

	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Summary.OutputRows != 42 {
		t.Errorf("OutputRows = %d, want 42", decoded.Summary.OutputRows)
	}
	if decoded.Metadata.Account != "Sim101" {
		t.Errorf("Account = %q, want Sim101", decoded.Metadata.Account)
	}
	if len(decoded.Metadata.SkippedFiles) != 1 {
		t.Errorf("SkippedFiles = %v, want 1 entry", decoded.Metadata.SkippedFiles)
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(FormatOptions{Quiet: true})

	if err := f.Format(context.Background(), sampleReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("quiet output is not a summary: %v", err)
	}
	if summary.DuplicatesRemoved != 5 {
		t.Errorf("DuplicatesRemoved = %d, want 5", summary.DuplicatesRemoved)
	}
}
