package threshold

import (
	"fmt"
	"strings"
)

// Verdict is the overall classification of a load test run.
type Verdict string

const (
	VerdictPass     Verdict = "PASS"
	VerdictUnstable Verdict = "UNSTABLE"
	VerdictFail     Verdict = "FAIL"
)

// Level grades a single metric against the band bounds used for the verdict.
type Level string

const (
	LevelOK   Level = "ok"
	LevelWarn Level = "warn"
	LevelBad  Level = "bad"
)

// Bands holds the two verdict tiers. Each tier is a strict AND of a minimum
// success rate and a maximum average latency; a run that misses either bound
// falls through to the next tier.
type Bands struct {
	PassMinSuccessRate      float64 `json:"pass_min_success_rate" mapstructure:"pass_min_success_rate"`
	PassMaxAvgLatencyMS     float64 `json:"pass_max_avg_latency_ms" mapstructure:"pass_max_avg_latency_ms"`
	UnstableMinSuccessRate  float64 `json:"unstable_min_success_rate" mapstructure:"unstable_min_success_rate"`
	UnstableMaxAvgLatencyMS float64 `json:"unstable_max_avg_latency_ms" mapstructure:"unstable_max_avg_latency_ms"`
}

// DefaultBands returns the standard tiers: PASS at >=95% success and <=1000ms
// average latency, UNSTABLE at >=90% and <=2000ms.
func DefaultBands() Bands {
	return Bands{
		PassMinSuccessRate:      95,
		PassMaxAvgLatencyMS:     1000,
		UnstableMinSuccessRate:  90,
		UnstableMaxAvgLatencyMS: 2000,
	}
}

// Validate checks that the tiers are internally consistent: rates within
// [0,100], positive latency bounds, and the PASS tier at least as strict as
// the UNSTABLE tier on both axes.
func (b Bands) Validate() error {
	var issues []string

	if b.PassMinSuccessRate < 0 || b.PassMinSuccessRate > 100 {
		issues = append(issues, fmt.Sprintf("pass success rate %.2f outside [0,100]", b.PassMinSuccessRate))
	}
	if b.UnstableMinSuccessRate < 0 || b.UnstableMinSuccessRate > 100 {
		issues = append(issues, fmt.Sprintf("unstable success rate %.2f outside [0,100]", b.UnstableMinSuccessRate))
	}
	if b.PassMaxAvgLatencyMS <= 0 {
		issues = append(issues, fmt.Sprintf("pass avg latency bound %.2fms must be positive", b.PassMaxAvgLatencyMS))
	}
	if b.UnstableMaxAvgLatencyMS <= 0 {
		issues = append(issues, fmt.Sprintf("unstable avg latency bound %.2fms must be positive", b.UnstableMaxAvgLatencyMS))
	}
	if b.PassMinSuccessRate < b.UnstableMinSuccessRate {
		issues = append(issues, "pass tier success rate must not be lower than unstable tier")
	}
	if b.PassMaxAvgLatencyMS > b.UnstableMaxAvgLatencyMS {
		issues = append(issues, "pass tier latency bound must not exceed unstable tier")
	}

	if len(issues) > 0 {
		return fmt.Errorf("invalid threshold bands: %s", strings.Join(issues, "; "))
	}
	return nil
}

// Classify evaluates the tiers in precedence order against a run's success
// rate (percent) and average latency (milliseconds). Both bounds of a tier
// must hold for that tier to apply.
func Classify(successRatePct, avgLatencyMS float64, b Bands) Verdict {
	if successRatePct >= b.PassMinSuccessRate && avgLatencyMS <= b.PassMaxAvgLatencyMS {
		return VerdictPass
	}
	if successRatePct >= b.UnstableMinSuccessRate && avgLatencyMS <= b.UnstableMaxAvgLatencyMS {
		return VerdictUnstable
	}
	return VerdictFail
}

// SuccessRateLevel grades the success rate against the same bounds Classify
// uses, so a rendered report can never contradict the verdict.
func (b Bands) SuccessRateLevel(pct float64) Level {
	switch {
	case pct >= b.PassMinSuccessRate:
		return LevelOK
	case pct >= b.UnstableMinSuccessRate:
		return LevelWarn
	default:
		return LevelBad
	}
}

// AvgLatencyLevel grades the average latency against the verdict bounds.
func (b Bands) AvgLatencyLevel(ms float64) Level {
	switch {
	case ms <= b.PassMaxAvgLatencyMS:
		return LevelOK
	case ms <= b.UnstableMaxAvgLatencyMS:
		return LevelWarn
	default:
		return LevelBad
	}
}
