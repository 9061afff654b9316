package tracing

import (
	"context"
	"testing"

	"github.com/wexeljose/perfgate/internal/config"
)

func TestInitDisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	provider, err := Init(context.Background(), config.TracingConfig{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if provider.Enabled() {
		t.Error("provider should be disabled without an endpoint")
	}
	if provider.Tracer() == nil {
		t.Error("disabled provider must still hand out a usable tracer")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown of disabled provider: %v", err)
	}
}

func TestInitRejectsBadSampleRate(t *testing.T) {
	tests := []float64{-0.1, 1.5}
	for _, rate := range tests {
		_, err := Init(context.Background(), config.TracingConfig{
			Endpoint:   "localhost:4317",
			SampleRate: rate,
			Insecure:   true,
		})
		if err == nil {
			t.Errorf("sample rate %g should be rejected", rate)
		}
	}
}

func TestInitRejectsUnknownProtocol(t *testing.T) {
	_, err := Init(context.Background(), config.TracingConfig{
		Endpoint: "localhost:4317",
		Protocol: "carrier-pigeon",
	})
	if err == nil {
		t.Fatal("expected error for unsupported protocol")
	}
}

func TestInitWithHTTPExporter(t *testing.T) {
	provider, err := Init(context.Background(), config.TracingConfig{
		Endpoint:   "localhost:4318",
		Protocol:   "http",
		SampleRate: 1,
		Insecure:   true,
	})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !provider.Enabled() {
		t.Error("provider should be enabled with an endpoint")
	}
	// The exporter is lazy; shutting down before any spans were recorded
	// must not error even with no collector listening.
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestNilProviderIsSafe(t *testing.T) {
	var provider *Provider
	if provider.Enabled() {
		t.Error("nil provider should report disabled")
	}
	if provider.Tracer() == nil {
		t.Error("nil provider must return a noop tracer")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("nil shutdown: %v", err)
	}
}
