package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wexeljose/perfgate/internal/analyzer"
	"github.com/wexeljose/perfgate/internal/threshold"
)

// PrintReport outputs a human-readable performance summary. Per-metric
// markers are derived from the same bands as the verdict, so the narrative
// and the classification cannot disagree.
func PrintReport(w io.Writer, report analyzer.Report) {
	fmt.Fprintln(w, "\n--- Performance Analysis ---")
	fmt.Fprintf(w, "Run ID:            %s\n", report.RunID)
	fmt.Fprintf(w, "Total Samples:     %d\n", report.Total)
	fmt.Fprintf(w, "Successful:        %d\n", report.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", report.Failures)
	if report.Malformed > 0 {
		fmt.Fprintf(w, "Malformed Rows:    %d (skipped; check the test harness)\n", report.Malformed)
	}
	fmt.Fprintf(w, "Success Rate:      %s %.2f%%\n", levelMark(report.Bands.SuccessRateLevel(report.SuccessRatePct)), report.SuccessRatePct)
	fmt.Fprintf(w, "Error Rate:        %.2f%%\n", report.ErrorRatePct)

	fmt.Fprintln(w, "\nResponse Times:")
	fmt.Fprintf(w, "  Avg:             %s %.2fms\n", levelMark(report.Bands.AvgLatencyLevel(report.AvgResponseMS)), report.AvgResponseMS)
	fmt.Fprintf(w, "  Min:             %.2fms\n", report.MinResponseMS)
	fmt.Fprintf(w, "  Max:             %.2fms\n", report.MaxResponseMS)
	fmt.Fprintf(w, "  P50:             %.2fms\n", report.P50ResponseMS)
	fmt.Fprintf(w, "  P90:             %.2fms\n", report.P90ResponseMS)
	fmt.Fprintf(w, "  P95:             %.2fms\n", report.P95ResponseMS)
	fmt.Fprintf(w, "  P99:             %.2fms\n", report.P99ResponseMS)

	fmt.Fprintln(w, "\nThroughput:")
	if report.DurationSec > 0 {
		fmt.Fprintf(w, "  Duration:        %.2fs\n", report.DurationSec)
		fmt.Fprintf(w, "  Requests/sec:    %.2f\n", report.ThroughputRPS)
	} else {
		fmt.Fprintln(w, "  Duration:        0s (degenerate sample span; throughput undefined)")
		fmt.Fprintln(w, "  Requests/sec:    0.00")
	}

	fmt.Fprintf(w, "\nVerdict: %s\n", report.Verdict)
	fmt.Fprintf(w, "  PASS requires     success >= %.2f%% and avg <= %.2fms\n",
		report.Bands.PassMinSuccessRate, report.Bands.PassMaxAvgLatencyMS)
	fmt.Fprintf(w, "  UNSTABLE requires success >= %.2f%% and avg <= %.2fms\n",
		report.Bands.UnstableMinSuccessRate, report.Bands.UnstableMaxAvgLatencyMS)
	if report.Malformed > 0 {
		fmt.Fprintf(w, "  Note: %d malformed sample rows were skipped during ingest.\n", report.Malformed)
	}
}

// PrintJSONReport outputs the report as indented JSON.
func PrintJSONReport(w io.Writer, report analyzer.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func levelMark(level threshold.Level) string {
	switch level {
	case threshold.LevelOK:
		return "✓"
	case threshold.LevelWarn:
		return "!"
	default:
		return "✗"
	}
}
