package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/internal/cli/commands"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/compiler"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/config"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/encoder"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/output"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/parser"
	"github.com/FineShyt-jpg/ninjatrader-trade-compiler/pkg/webhook"
)

// writeFile writes a test fixture into dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}

// chdir changes the working directory for the duration of the test and
// restores the previous one on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Failed to restore working directory: %v", err)
		}
	})
}

// writeWorkbook writes an xlsx fixture with the given rows on the first
// sheet and returns its path.
func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("Failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("Failed to set sheet row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to serialize workbook: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", name, err)
	}
	return path
}

// readRawFiles loads paths into RawFile values.
func readRawFiles(t *testing.T, paths []string) []parser.RawFile {
	t.Helper()
	files := make([]parser.RawFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", p, err)
		}
		files = append(files, parser.RawFile{Name: p, Data: data})
	}
	return files
}

const day1CSV = `Account summary report
Account: Sim101
Generated: 1/16/2024

Instrument,Market pos.,Qty,Entry price,Exit price,Entry time,Exit time,Profit
NQ 03-24,Long,1,17000.25,17010.25,1/15/2024 9:31:00 AM,1/15/2024 9:45:00 AM,200
NQ 03-24,Short,2,17020.50,17015.50,1/15/2024 10:02:00 AM,1/15/2024 10:08:00 AM,200
`

const day2CSV = `Instrument,Market pos.,Qty,Entry price,Exit price,Entry time,Exit time,Profit
NQ 03-24,Short,2,17020.50,17015.50,1/15/2024 10:02:00 AM,1/15/2024 10:08:00 AM,200
NQ 03-24,Long,1,17050.00,17055.00,1/16/2024 9:30:00 AM,1/16/2024 9:40:00 AM,100
`

// TestE2E_CompileMixedFormats runs the full pipeline over a CSV with a
// preamble, a plain CSV, and an XLSX export, with one overlapping row.
func TestE2E_CompileMixedFormats(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	p1 := writeFile(t, dir, "day1.csv", day1CSV)
	p2 := writeFile(t, dir, "day2.csv", day2CSV)
	p3 := writeWorkbook(t, dir, "day3.xlsx", [][]interface{}{
		{"Realized PnL report"},
		{},
		{"Instrument", "Market pos.", "Qty", "Entry price", "Exit price", "Entry time", "Exit time", "Profit"},
		{"NQ 03-24", "Long", "3", "17060.00", "17070.00", "1/17/2024 9:35:00 AM", "1/17/2024 9:50:00 AM", "600"},
	})

	cfg := config.DefaultConfig()
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Failed to validate config: %v", err)
	}

	files := readRawFiles(t, []string{p1, p2, p3})

	result, err := compiler.New(cfg).Compile(ctx, files, encoder.NewCSVEncoder())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if result.Stats.FilesProcessed != 3 {
		t.Errorf("Expected 3 files processed, got %d", result.Stats.FilesProcessed)
	}
	if result.Stats.DuplicatesRemoved != 1 {
		t.Errorf("Expected 1 duplicate removed, got %d", result.Stats.DuplicatesRemoved)
	}
	if result.Stats.OutputRows != 4 {
		t.Errorf("Expected 4 output rows, got %d", result.Stats.OutputRows)
	}

	// Records must be in chronological order
	recs := result.Merged.Records
	for i := 1; i < len(recs); i++ {
		if recs[i].Timestamp.Before(recs[i-1].Timestamp) {
			t.Errorf("Records out of order at %d: %v before %v", i, recs[i].Timestamp, recs[i-1].Timestamp)
		}
	}

	lines := strings.Split(strings.TrimRight(string(result.Output), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected header + 4 data lines, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Instrument,") {
		t.Errorf("Expected header as first output line, got: %s", lines[0])
	}
}

// TestE2E_RecompileIsNoOp feeds the compiled output back through the
// pipeline and expects an identical result.
func TestE2E_RecompileIsNoOp(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	p1 := writeFile(t, dir, "day1.csv", day1CSV)
	p2 := writeFile(t, dir, "day2.csv", day2CSV)

	cfg := config.DefaultConfig()
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Failed to validate config: %v", err)
	}
	c := compiler.New(cfg)
	enc := encoder.NewCSVEncoder()

	first, err := c.Compile(ctx, readRawFiles(t, []string{p1, p2}), enc)
	if err != nil {
		t.Fatalf("First compile failed: %v", err)
	}

	second, err := c.Compile(ctx, []parser.RawFile{{Name: "compiled.csv", Data: first.Output}}, enc)
	if err != nil {
		t.Fatalf("Recompile failed: %v", err)
	}

	if !bytes.Equal(first.Output, second.Output) {
		t.Errorf("Recompile changed output:\nfirst:\n%s\nsecond:\n%s", first.Output, second.Output)
	}
	if second.Stats.DuplicatesRemoved != 0 {
		t.Errorf("Expected no duplicates on recompile, got %d", second.Stats.DuplicatesRemoved)
	}
}

// TestE2E_CompileCommand runs the compile command end to end through
// cobra, including output file creation.
func TestE2E_CompileCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	writeFile(t, dir, "day1.csv", day1CSV)
	writeFile(t, dir, "day2.csv", day2CSV)

	cmd := commands.NewCompileCommand()
	cmd.SetArgs([]string{
		"--account", "Sim101",
		"--quiet",
		"day1.csv", "day2.csv",
	})
	cmd.SetOut(io.Discard)

	commands.ExitCode = 0
	defer func() { commands.ExitCode = 0 }()

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Compile command failed: %v", err)
	}
	if commands.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", commands.ExitCode)
	}

	data, err := os.ReadFile("Sim101_compiled.csv")
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Errorf("Expected header + 3 data lines, got %d", len(lines))
	}
}

// TestE2E_CompileCommand_SkippedFileSetsExitCode verifies the partial
// failure path: one unreadable file means exit code 1, not an error.
func TestE2E_CompileCommand_SkippedFileSetsExitCode(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	writeFile(t, dir, "day1.csv", day1CSV)
	writeFile(t, dir, "notes.csv", "just some notes\nnothing tabular here\n")

	cmd := commands.NewCompileCommand()
	cmd.SetArgs([]string{"--account", "Sim101", "--quiet", "day1.csv", "notes.csv"})
	cmd.SetOut(io.Discard)

	commands.ExitCode = 0
	defer func() { commands.ExitCode = 0 }()

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Compile command failed: %v", err)
	}
	if commands.ExitCode != 1 {
		t.Errorf("Expected exit code 1 for skipped file, got %d", commands.ExitCode)
	}
}

// TestE2E_WebhookDelivery compiles and delivers the report to a webhook
// endpoint, verifying the JSON payload.
func TestE2E_WebhookDelivery(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	p1 := writeFile(t, dir, "day1.csv", day1CSV)

	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Failed to validate config: %v", err)
	}

	result, err := compiler.New(cfg).Compile(ctx, readRawFiles(t, []string{p1}), encoder.NewCSVEncoder())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	report := output.NewReport(result.Stats, output.Metadata{
		Account:    "Sim101",
		OutputFile: "Sim101_compiled.csv",
	})

	resp := webhook.NewClient().Send(ctx, report, webhook.SendOptions{URL: server.URL})
	if !resp.Success() {
		t.Fatalf("Webhook delivery failed: %v", resp.Error)
	}

	summary, ok := received["summary"].(map[string]interface{})
	if !ok {
		t.Fatal("Payload missing summary object")
	}
	if rows, _ := summary["output_rows"].(float64); int(rows) != 2 {
		t.Errorf("Expected 2 output rows in payload, got %v", summary["output_rows"])
	}
}
