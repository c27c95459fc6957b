package otel_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/otel"
)

func TestNewProvider_Disabled(t *testing.T) {
	var buf bytes.Buffer
	p, err := otel.NewProvider(otel.DefaultConfig(), otel.WithLogWriter(&buf))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer p.Shutdown(context.Background())

	if _, ok := p.Tracer().(*otel.NoopTracer); !ok {
		t.Errorf("Tracer() = %T, want *otel.NoopTracer", p.Tracer())
	}
	if _, ok := p.Metrics().(*otel.NoopMetrics); !ok {
		t.Errorf("Metrics() = %T, want *otel.NoopMetrics", p.Metrics())
	}

	p.Logger().Info("provider ready")
	if !strings.Contains(buf.String(), "provider ready") {
		t.Errorf("expected log output in writer, got %q", buf.String())
	}
}

func TestNewProvider_MemoryMetricsAndNoneTracing(t *testing.T) {
	cfg := otel.DefaultConfig()
	cfg.Enabled = true
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = otel.ExporterNone
	cfg.Metrics.Enabled = true
	cfg.Metrics.Exporter = otel.ExporterMemory

	p, err := otel.NewProvider(cfg, otel.WithLogWriter(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if _, ok := p.Tracer().(*otel.OTelTracer); !ok {
		t.Errorf("Tracer() = %T, want *otel.OTelTracer", p.Tracer())
	}
	metrics, ok := p.Metrics().(*otel.InMemoryMetrics)
	if !ok {
		t.Fatalf("Metrics() = %T, want *otel.InMemoryMetrics", p.Metrics())
	}

	_, span := p.Tracer().Start(context.Background(), "op")
	span.End()
	metrics.Counter(otel.MetricScans).Add(context.Background(), 1)
	if got := metrics.GetCounterValue(otel.MetricScans); got != 1 {
		t.Errorf("counter = %d, want 1", got)
	}

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestNewProvider_Errors(t *testing.T) {
	cfg := otel.DefaultConfig()
	cfg.Logging.Level = "loud"
	if _, err := otel.NewProvider(cfg); !errors.Is(err, otel.ErrInvalidLogLevel) {
		t.Errorf("NewProvider() error = %v, want ErrInvalidLogLevel", err)
	}

	cfg = otel.DefaultConfig()
	cfg.Enabled = true
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "zipkin"
	if _, err := otel.NewProvider(cfg); !errors.Is(err, otel.ErrUnsupportedExporter) {
		t.Errorf("NewProvider() error = %v, want ErrUnsupportedExporter", err)
	}
}
