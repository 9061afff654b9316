package analyzer_test

import (
	"errors"
	"math"
	"testing"

	"github.com/wexeljose/perfgate/internal/analyzer"
	"github.com/wexeljose/perfgate/internal/threshold"
)

// buildSet produces n samples spaced 10ms apart starting at startMS, with the
// given number of failures at the tail and a constant elapsed time.
func buildSet(n, failures int, elapsedMS float64, startMS int64) analyzer.Set {
	samples := make([]analyzer.Sample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, analyzer.Sample{
			TimestampMS: startMS + int64(i)*10,
			ElapsedMS:   elapsedMS,
			Success:     i < n-failures,
		})
	}
	return analyzer.Set{Samples: samples}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyzeEmptyInput(t *testing.T) {
	_, err := analyzer.Analyze(analyzer.Set{}, threshold.DefaultBands())
	if !errors.Is(err, analyzer.ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}

func TestAnalyzeVerdicts(t *testing.T) {
	tests := []struct {
		name        string
		set         analyzer.Set
		wantRatePct float64
		wantVerdict threshold.Verdict
	}{
		{
			name:        "96 of 100 fast requests pass",
			set:         buildSet(100, 4, 300, 1000),
			wantRatePct: 96,
			wantVerdict: threshold.VerdictPass,
		},
		{
			name:        "91 of 100 at 1500ms is unstable",
			set:         buildSet(100, 9, 1500, 1000),
			wantRatePct: 91,
			wantVerdict: threshold.VerdictUnstable,
		},
		{
			name:        "70 of 100 fails both tiers",
			set:         buildSet(100, 30, 300, 1000),
			wantRatePct: 70,
			wantVerdict: threshold.VerdictFail,
		},
		{
			name:        "perfect rate but slow responses is not a pass",
			set:         buildSet(50, 0, 2500, 1000),
			wantRatePct: 100,
			wantVerdict: threshold.VerdictFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := analyzer.Analyze(tt.set, threshold.DefaultBands())
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if !almostEqual(report.SuccessRatePct, tt.wantRatePct) {
				t.Errorf("success rate = %.2f, want %.2f", report.SuccessRatePct, tt.wantRatePct)
			}
			if !almostEqual(report.ErrorRatePct, 100-tt.wantRatePct) {
				t.Errorf("error rate = %.2f, want %.2f", report.ErrorRatePct, 100-tt.wantRatePct)
			}
			if report.Verdict != tt.wantVerdict {
				t.Errorf("verdict = %s, want %s", report.Verdict, tt.wantVerdict)
			}
		})
	}
}

func TestAnalyzeStats(t *testing.T) {
	set := analyzer.Set{Samples: []analyzer.Sample{
		{TimestampMS: 1_000, ElapsedMS: 100, Success: true},
		{TimestampMS: 2_000, ElapsedMS: 300, Success: true},
		{TimestampMS: 3_000, ElapsedMS: 200, Success: false},
	}}

	report, err := analyzer.Analyze(set, threshold.DefaultBands())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.Total != 3 || report.Successes != 2 || report.Failures != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", report.Total, report.Successes, report.Failures)
	}
	if !almostEqual(report.AvgResponseMS, 200) {
		t.Errorf("avg = %.2f, want 200 (failed requests still consume time)", report.AvgResponseMS)
	}
	if !almostEqual(report.MinResponseMS, 100) || !almostEqual(report.MaxResponseMS, 300) {
		t.Errorf("min/max = %.2f/%.2f, want 100/300", report.MinResponseMS, report.MaxResponseMS)
	}
	if !almostEqual(report.DurationSec, 2) {
		t.Errorf("duration = %.2fs, want 2s", report.DurationSec)
	}
	if !almostEqual(report.ThroughputRPS, 1.5) {
		t.Errorf("throughput = %.2f rps, want 1.5", report.ThroughputRPS)
	}
}

func TestAnalyzeOutOfOrderTimestamps(t *testing.T) {
	set := analyzer.Set{Samples: []analyzer.Sample{
		{TimestampMS: 5_000, ElapsedMS: 100, Success: true},
		{TimestampMS: 1_000, ElapsedMS: 100, Success: true},
	}}

	report, err := analyzer.Analyze(set, threshold.DefaultBands())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.DurationSec != 0 {
		t.Errorf("duration clamped to 0 expected, got %.2f", report.DurationSec)
	}
	if report.ThroughputRPS != 0 || math.IsNaN(report.ThroughputRPS) {
		t.Errorf("throughput should be 0 on degenerate duration, got %v", report.ThroughputRPS)
	}
}

func TestAnalyzeSingleSample(t *testing.T) {
	set := analyzer.Set{Samples: []analyzer.Sample{
		{TimestampMS: 1_000, ElapsedMS: 42, Success: true},
	}}

	report, err := analyzer.Analyze(set, threshold.DefaultBands())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.DurationSec != 0 || report.ThroughputRPS != 0 {
		t.Errorf("single sample run has no span: duration=%.2f throughput=%.2f", report.DurationSec, report.ThroughputRPS)
	}
	if !almostEqual(report.MinResponseMS, 42) || !almostEqual(report.MaxResponseMS, 42) {
		t.Errorf("min/max should both be 42, got %.2f/%.2f", report.MinResponseMS, report.MaxResponseMS)
	}
}

func TestAnalyzeIsPure(t *testing.T) {
	set := buildSet(100, 7, 250, 10_000)
	bands := threshold.DefaultBands()

	first, err := analyzer.Analyze(set, bands)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := analyzer.Analyze(set, bands)
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}

		// RunID and GeneratedAt are regenerated per invocation; every
		// measurement must be identical.
		again.RunID = first.RunID
		again.GeneratedAt = first.GeneratedAt
		if again != first {
			t.Fatalf("invocation %d produced a different report:\n%+v\nvs\n%+v", i, again, first)
		}
	}
}

func TestAnalyzeMalformedCarriedThrough(t *testing.T) {
	set := buildSet(10, 0, 100, 1_000)
	set.Malformed = 3

	report, err := analyzer.Analyze(set, threshold.DefaultBands())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Malformed != 3 {
		t.Errorf("malformed = %d, want 3", report.Malformed)
	}
	if report.Total != 10 {
		t.Errorf("malformed rows must not count toward total, got %d", report.Total)
	}
	if report.Verdict != threshold.VerdictPass {
		t.Errorf("malformed rows alone must not change the verdict, got %s", report.Verdict)
	}
}

func TestAnalyzePercentiles(t *testing.T) {
	samples := make([]analyzer.Sample, 0, 100)
	for i := 1; i <= 100; i++ {
		samples = append(samples, analyzer.Sample{
			TimestampMS: int64(i) * 100,
			ElapsedMS:   float64(i),
			Success:     true,
		})
	}

	report, err := analyzer.Analyze(analyzer.Set{Samples: samples}, threshold.DefaultBands())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.P50ResponseMS < 49 || report.P50ResponseMS > 51 {
		t.Errorf("p50 ~50ms expected, got %.2f", report.P50ResponseMS)
	}
	if report.P90ResponseMS < 89 || report.P90ResponseMS > 91 {
		t.Errorf("p90 ~90ms expected, got %.2f", report.P90ResponseMS)
	}
	if report.P99ResponseMS < 98 || report.P99ResponseMS > 100 {
		t.Errorf("p99 ~99ms expected, got %.2f", report.P99ResponseMS)
	}
}

func TestAnalyzeRejectsInvalidBands(t *testing.T) {
	set := buildSet(10, 0, 100, 1_000)
	bands := threshold.Bands{
		PassMinSuccessRate:      80,
		PassMaxAvgLatencyMS:     1000,
		UnstableMinSuccessRate:  90,
		UnstableMaxAvgLatencyMS: 2000,
	}

	if _, err := analyzer.Analyze(set, bands); err == nil {
		t.Fatal("expected error for inconsistent bands")
	}
}
