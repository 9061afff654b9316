package collector

import (
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultBuckets are the fixed upper bounds (milliseconds) of the request
// duration histogram.
var DefaultBuckets = []float64{50, 100, 200, 400, 800, 1600, 3200}

// Options configures a Collector.
type Options struct {
	// Buckets overrides the duration histogram bounds. Must be monotonically
	// increasing. Defaults to DefaultBuckets.
	Buckets []float64
}

// Collector maintains live request metrics on a private registry.
type Collector struct {
	registry  *prometheus.Registry
	active    prometheus.Gauge
	durations *prometheus.HistogramVec
}

// New creates a Collector with its own registry and registers the metric
// families on it.
func New(opts Options) *Collector {
	buckets := opts.Buckets
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of requests currently in flight.",
		}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_milliseconds",
			Help:    "Request duration in milliseconds by method, route, and status code.",
			Buckets: buckets,
		}, []string{"method", "route", "status_code"}),
	}

	heap := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "heap_usage_ratio",
		Help: "Ratio of allocated heap bytes to heap bytes obtained from the OS.",
	}, heapUsageRatio)

	c.registry.MustRegister(c.active, c.durations, heap)
	return c
}

// Registry exposes the underlying registry, mainly for tests that gather
// metric families directly.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the exposition endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// heapUsageRatio is evaluated at scrape time, so the gauge always reflects
// the current process heap rather than a stale sample.
func heapUsageRatio() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapSys == 0 {
		return 0
	}
	return float64(ms.HeapAlloc) / float64(ms.HeapSys)
}
