package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wexeljose/perfgate/internal/threshold"
)

// FailOn controls which verdicts make the analyze command exit non-zero.
type FailOn string

const (
	FailOnFail     FailOn = "fail"
	FailOnUnstable FailOn = "unstable"
	FailOnNever    FailOn = "never"
)

// AnalyzeConfig configures the batch analysis command.
type AnalyzeConfig struct {
	Input      string          `mapstructure:"input"`
	Format     string          `mapstructure:"format"`
	JSONOutput bool            `mapstructure:"json_output"`
	HTMLOutput string          `mapstructure:"html_output"`
	FailOn     FailOn          `mapstructure:"fail_on"`
	Bands      threshold.Bands `mapstructure:"bands"`
	ConfigFile string          `mapstructure:"-"`
}

// ServeConfig configures the instrumenting proxy command.
type ServeConfig struct {
	Listen            string        `mapstructure:"listen"`
	Upstream          string        `mapstructure:"upstream"`
	MaxRPS            int           `mapstructure:"max_rps"`
	MetricsPath       string        `mapstructure:"metrics_path"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	Tracing           TracingConfig `mapstructure:"tracing"`
	ConfigFile        string        `mapstructure:"-"`
}

// TracingConfig configures the optional OTLP trace exporter.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c AnalyzeConfig) Validate() error {
	var issues []string

	if c.Input == "" {
		issues = append(issues, "input sample file is required")
	}
	switch c.Format {
	case "", "jtl", "jsonl":
	default:
		issues = append(issues, fmt.Sprintf("unsupported format %q (supported: jtl, jsonl)", c.Format))
	}
	switch c.FailOn {
	case FailOnFail, FailOnUnstable, FailOnNever:
	default:
		issues = append(issues, fmt.Sprintf("unsupported fail-on value %q (supported: fail, unstable, never)", c.FailOn))
	}
	if err := c.Bands.Validate(); err != nil {
		issues = append(issues, err.Error())
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func (c ServeConfig) Validate() error {
	var issues []string

	if c.Listen == "" {
		issues = append(issues, "listen address is required")
	}
	if c.Upstream == "" {
		issues = append(issues, "upstream URL is required")
	} else if u, err := url.Parse(c.Upstream); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		issues = append(issues, fmt.Sprintf("upstream %q must be an absolute http(s) URL", c.Upstream))
	}
	if c.MaxRPS < 0 {
		issues = append(issues, "max rps must not be negative")
	}
	if c.MetricsPath == "" || !strings.HasPrefix(c.MetricsPath, "/") {
		issues = append(issues, fmt.Sprintf("metrics path %q must start with /", c.MetricsPath))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing sample rate %g outside [0,1]", c.Tracing.SampleRate))
	}
	switch strings.ToLower(c.Tracing.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("unsupported tracing protocol %q (supported: grpc, http)", c.Tracing.Protocol))
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}
