package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wexeljose/perfgate/internal/threshold"
)

// RegisterAnalyzeFlags configures the analyze command's flags.
func RegisterAnalyzeFlags(flags *pflag.FlagSet) {
	flags.StringP("input", "i", "", "Path to the load test sample file (JTL or JSON lines)")
	flags.String("format", "", "Sample file format: 'jtl' or 'jsonl' (default: detect from extension)")
	flags.Bool("json-output", false, "Emit JSON formatted report")
	flags.String("html-output", "", "Generate HTML report to the specified file path")
	flags.String("fail-on", string(FailOnFail), "Verdict that makes the command exit non-zero: 'fail', 'unstable', or 'never'")

	defaults := threshold.DefaultBands()
	flags.Float64("pass-success-rate", defaults.PassMinSuccessRate, "Minimum success rate (percent) for a PASS verdict")
	flags.Float64("pass-avg-latency", defaults.PassMaxAvgLatencyMS, "Maximum average latency (ms) for a PASS verdict")
	flags.Float64("unstable-success-rate", defaults.UnstableMinSuccessRate, "Minimum success rate (percent) for an UNSTABLE verdict")
	flags.Float64("unstable-avg-latency", defaults.UnstableMaxAvgLatencyMS, "Maximum average latency (ms) for an UNSTABLE verdict")

	flags.String("config", "", "Path to configuration file (JSON or YAML)")
}

// RegisterServeFlags configures the serve command's flags.
func RegisterServeFlags(flags *pflag.FlagSet) {
	flags.StringP("listen", "l", ":8080", "Address to listen on")
	flags.StringP("upstream", "u", "", "Upstream URL to proxy instrumented requests to")
	flags.Int("max-rps", 0, "Shed load above this many requests per second (0 means unlimited)")
	flags.String("metrics-path", "/metrics", "Path serving Prometheus exposition")
	flags.Duration("read-header-timeout", 10*time.Second, "Timeout for reading request headers")
	flags.Duration("shutdown-timeout", 15*time.Second, "Max time to wait for in-flight requests on shutdown")

	flags.String("tracing-endpoint", "", "OTLP endpoint for trace export (empty disables tracing)")
	flags.String("tracing-protocol", "grpc", "OTLP transport: 'grpc' or 'http'")
	flags.String("tracing-service-name", "", "Service name reported on spans")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of requests to trace")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")

	flags.String("config", "", "Path to configuration file (JSON or YAML)")
}

// analyzeFlagKeys maps viper settings to their flag spellings.
var analyzeFlagKeys = map[string]string{
	"input":                             "input",
	"format":                            "format",
	"json_output":                       "json-output",
	"html_output":                       "html-output",
	"fail_on":                           "fail-on",
	"bands.pass_min_success_rate":       "pass-success-rate",
	"bands.pass_max_avg_latency_ms":     "pass-avg-latency",
	"bands.unstable_min_success_rate":   "unstable-success-rate",
	"bands.unstable_max_avg_latency_ms": "unstable-avg-latency",
}

var serveFlagKeys = map[string]string{
	"listen":               "listen",
	"upstream":             "upstream",
	"max_rps":              "max-rps",
	"metrics_path":         "metrics-path",
	"read_header_timeout":  "read-header-timeout",
	"shutdown_timeout":     "shutdown-timeout",
	"tracing.endpoint":     "tracing-endpoint",
	"tracing.protocol":     "tracing-protocol",
	"tracing.service_name": "tracing-service-name",
	"tracing.sample_rate":  "tracing-sample-rate",
	"tracing.insecure":     "tracing-insecure",
}

// LoadAnalyze merges a config file (if any) with flag values into an
// AnalyzeConfig. Explicit flags win over the file; the file wins over flag
// defaults.
func LoadAnalyze(flags *pflag.FlagSet) (*AnalyzeConfig, error) {
	v, configPath, err := newViper(flags, analyzeFlagKeys)
	if err != nil {
		return nil, err
	}

	cfg := &AnalyzeConfig{ConfigFile: configPath}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return cfg, nil
}

// LoadServe merges a config file (if any) with flag values into a ServeConfig.
func LoadServe(flags *pflag.FlagSet) (*ServeConfig, error) {
	v, configPath, err := newViper(flags, serveFlagKeys)
	if err != nil {
		return nil, err
	}

	cfg := &ServeConfig{ConfigFile: configPath}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return cfg, nil
}

func newViper(flags *pflag.FlagSet, keys map[string]string) (*viper.Viper, string, error) {
	v := viper.New()

	for key, flagName := range keys {
		flag := flags.Lookup(flagName)
		if flag == nil {
			return nil, "", fmt.Errorf("flag %q is not registered", flagName)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, "", err
		}
	}

	configPath := ""
	if flag := flags.Lookup("config"); flag != nil {
		configPath = flag.Value.String()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("read config file: %w", err)
		}
	}
	return v, configPath, nil
}
