package output_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wexeljose/perfgate/internal/analyzer"
	"github.com/wexeljose/perfgate/internal/output"
	"github.com/wexeljose/perfgate/internal/threshold"
)

func sampleReport() analyzer.Report {
	return analyzer.Report{
		RunID:          "01JTESTRUNID0000000000000",
		Total:          100,
		Successes:      96,
		Failures:       4,
		SuccessRatePct: 96,
		ErrorRatePct:   4,
		AvgResponseMS:  300.5,
		MinResponseMS:  12,
		MaxResponseMS:  2150,
		P50ResponseMS:  250,
		P90ResponseMS:  600,
		P95ResponseMS:  900,
		P99ResponseMS:  1800,
		DurationSec:    40,
		ThroughputRPS:  2.5,
		Verdict:        threshold.VerdictPass,
		Bands:          threshold.DefaultBands(),
		GeneratedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPrintReportSurfacesEveryField(t *testing.T) {
	var buf bytes.Buffer
	output.PrintReport(&buf, sampleReport())
	got := buf.String()

	for _, want := range []string{
		"01JTESTRUNID0000000000000",
		"Total Samples:     100",
		"Successful:        96",
		"Failed:            4",
		"96.00%",
		"300.50ms",
		"12.00ms",
		"2150.00ms",
		"2.50",
		"Verdict: PASS",
		"success >= 95.00% and avg <= 1000.00ms",
		"success >= 90.00% and avg <= 2000.00ms",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestPrintReportMalformedNoteSurvivesPass(t *testing.T) {
	report := sampleReport()
	report.Malformed = 2

	var buf bytes.Buffer
	output.PrintReport(&buf, report)
	got := buf.String()

	if !strings.Contains(got, "Verdict: PASS") {
		t.Errorf("verdict should remain PASS:\n%s", got)
	}
	if !strings.Contains(got, "2 malformed sample rows") {
		t.Errorf("malformed rows must be surfaced even on PASS:\n%s", got)
	}
}

func TestPrintReportDegenerateThroughput(t *testing.T) {
	report := sampleReport()
	report.DurationSec = 0
	report.ThroughputRPS = 0

	var buf bytes.Buffer
	output.PrintReport(&buf, report)

	if !strings.Contains(buf.String(), "throughput undefined") {
		t.Errorf("degenerate duration should be explicit:\n%s", buf.String())
	}
}

func TestPrintJSONReportRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := output.PrintJSONReport(&buf, sampleReport()); err != nil {
		t.Fatalf("PrintJSONReport: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if decoded["verdict"] != "PASS" {
		t.Errorf("verdict = %v", decoded["verdict"])
	}
	if decoded["success_rate_pct"] != 96.0 {
		t.Errorf("success_rate_pct = %v", decoded["success_rate_pct"])
	}
}

func TestGenerateHTMLReport(t *testing.T) {
	report := sampleReport()
	report.Malformed = 1
	report.Verdict = threshold.VerdictUnstable
	report.SuccessRatePct = 91
	report.AvgResponseMS = 1500

	var buf bytes.Buffer
	if err := output.GenerateHTMLReport(&buf, report); err != nil {
		t.Fatalf("GenerateHTMLReport: %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		`class="verdict unstable"`,
		"UNSTABLE",
		"91.00%",
		"1500.00ms",
		"malformed sample row",
		"95.00%",    // pass tier bound shown in the threshold table
		"2000.00ms", // unstable tier bound
		report.RunID,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("html report missing %q", want)
		}
	}

	// Warn coloring keyed to the same bounds as the verdict.
	if !strings.Contains(got, `card warn`) {
		t.Error("expected warn-colored metric cards for an unstable run")
	}
}

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")

	err := output.WriteReportFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("content"))
		return err
	})
	if err != nil {
		t.Fatalf("WriteReportFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content" {
		t.Errorf("file content = %q", data)
	}
	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Error("lock file should be removed after writing")
	}
}
