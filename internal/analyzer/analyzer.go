package analyzer

import (
	"errors"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/oklog/ulid/v2"

	"github.com/wexeljose/perfgate/internal/threshold"
)

// ErrNoSamples is returned when a sample set contains no parsable records.
var ErrNoSamples = errors.New("no samples to analyze")

// Sample is one completed request as recorded by the load-test harness.
type Sample struct {
	TimestampMS int64
	ElapsedMS   float64
	Success     bool
	Label       string
}

// Set is the ingested result of one load test run. Malformed counts rows the
// reader had to skip; they are reported separately and never folded into the
// success or failure tallies.
type Set struct {
	Samples   []Sample
	Malformed int
}

// Report is the aggregate outcome of one analysis run.
type Report struct {
	RunID          string            `json:"run_id"`
	Total          int               `json:"total"`
	Successes      int               `json:"successes"`
	Failures       int               `json:"failures"`
	Malformed      int               `json:"malformed"`
	SuccessRatePct float64           `json:"success_rate_pct"`
	ErrorRatePct   float64           `json:"error_rate_pct"`
	AvgResponseMS  float64           `json:"avg_response_ms"`
	MinResponseMS  float64           `json:"min_response_ms"`
	MaxResponseMS  float64           `json:"max_response_ms"`
	P50ResponseMS  float64           `json:"p50_response_ms"`
	P90ResponseMS  float64           `json:"p90_response_ms"`
	P95ResponseMS  float64           `json:"p95_response_ms"`
	P99ResponseMS  float64           `json:"p99_response_ms"`
	DurationSec    float64           `json:"duration_sec"`
	ThroughputRPS  float64           `json:"throughput_rps"`
	Verdict        threshold.Verdict `json:"verdict"`
	Bands          threshold.Bands   `json:"bands"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// Track response times from 1µs up to one hour with 3 significant figures.
const (
	histogramMinMicros = 1
	histogramMaxMicros = 3_600_000_000
)

// Analyze computes a Report from a fully collected sample set. The samples
// are expected in recording order; out-of-order timestamps degrade duration
// to zero rather than producing a negative throughput.
func Analyze(set Set, bands threshold.Bands) (Report, error) {
	if len(set.Samples) == 0 {
		return Report{}, ErrNoSamples
	}
	if err := bands.Validate(); err != nil {
		return Report{}, err
	}

	hist := hdrhistogram.New(histogramMinMicros, histogramMaxMicros, 3)

	var (
		successes int
		sumMS     float64
		minMS     = set.Samples[0].ElapsedMS
		maxMS     = set.Samples[0].ElapsedMS
	)

	for _, s := range set.Samples {
		if s.Success {
			successes++
		}
		sumMS += s.ElapsedMS
		if s.ElapsedMS < minMS {
			minMS = s.ElapsedMS
		}
		if s.ElapsedMS > maxMS {
			maxMS = s.ElapsedMS
		}

		us := int64(s.ElapsedMS * 1000)
		if us < histogramMinMicros {
			us = histogramMinMicros
		}
		if us > histogramMaxMicros {
			us = histogramMaxMicros
		}
		_ = hist.RecordValue(us)
	}

	total := len(set.Samples)
	successRate := float64(successes) / float64(total) * 100

	// Wall-clock span between the first and last recorded sample. A negative
	// span means the harness emitted rows out of order; clamp to zero and
	// report throughput as undefined rather than dividing by it.
	durationSec := float64(set.Samples[total-1].TimestampMS-set.Samples[0].TimestampMS) / 1000
	if durationSec < 0 {
		durationSec = 0
	}
	throughput := 0.0
	if durationSec > 0 {
		throughput = float64(total) / durationSec
	}

	avgMS := sumMS / float64(total)

	return Report{
		RunID:          ulid.Make().String(),
		Total:          total,
		Successes:      successes,
		Failures:       total - successes,
		Malformed:      set.Malformed,
		SuccessRatePct: successRate,
		ErrorRatePct:   100 - successRate,
		AvgResponseMS:  avgMS,
		MinResponseMS:  minMS,
		MaxResponseMS:  maxMS,
		P50ResponseMS:  float64(hist.ValueAtQuantile(50)) / 1000,
		P90ResponseMS:  float64(hist.ValueAtQuantile(90)) / 1000,
		P95ResponseMS:  float64(hist.ValueAtQuantile(95)) / 1000,
		P99ResponseMS:  float64(hist.ValueAtQuantile(99)) / 1000,
		DurationSec:    durationSec,
		ThroughputRPS:  throughput,
		Verdict:        threshold.Classify(successRate, avgMS, bands),
		Bands:          bands,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}
