package otel_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/otel"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := otel.ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := otel.NewLogger(otel.LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.Debug("hidden")
	logger.WithFields(map[string]any{"session": "s-1"}).Info("injection finished", "injected", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if entry["msg"] != "injection finished" {
		t.Errorf("msg = %v, want injection finished", entry["msg"])
	}
	if entry["session"] != "s-1" {
		t.Errorf("session = %v, want s-1", entry["session"])
	}
	if entry["injected"] != float64(2) {
		t.Errorf("injected = %v, want 2", entry["injected"])
	}
}

func TestSlogLogger_WithContextAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := otel.NewLogger(otel.LoggingConfig{Level: "info", Format: "text", IncludeTraceID: true}, &buf)

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	logger.WithContext(ctx).Info("traced")
	if !strings.Contains(buf.String(), "trace_id="+span.SpanContext().TraceID().String()) {
		t.Fatalf("expected trace_id in log line, got %q", buf.String())
	}

	buf.Reset()
	logger.WithContext(context.Background()).Info("untraced")
	if strings.Contains(buf.String(), "trace_id") {
		t.Fatalf("unexpected trace_id in log line %q", buf.String())
	}
}
