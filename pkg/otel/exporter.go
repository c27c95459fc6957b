package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ExporterType 导出器类型
type ExporterType string

const (
	// ExporterOTLPGRPC OTLP gRPC 导出器
	ExporterOTLPGRPC ExporterType = "otlp-grpc"
	// ExporterOTLPHTTP OTLP HTTP 导出器
	ExporterOTLPHTTP ExporterType = "otlp-http"
	// ExporterStdout 标准输出导出器（用于调试）
	ExporterStdout ExporterType = "stdout"
	// ExporterMemory 进程内指标（仅指标可用）
	ExporterMemory ExporterType = "memory"
	// ExporterNone 无导出器
	ExporterNone ExporterType = "none"
)

// CreateTraceExporter 按追踪配置创建导出器
func CreateTraceExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterOTLPGRPC:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts,
				otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
				otlptracegrpc.WithInsecure(),
			)
		}
		if cfg.Timeout > 0 {
			opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	case ExporterOTLPHTTP:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if cfg.Timeout > 0 {
			opts = append(opts, otlptracehttp.WithTimeout(cfg.Timeout))
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterNone:
		return &NoopSpanExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: trace exporter %q", ErrUnsupportedExporter, cfg.Exporter)
	}
}

// CreateMetricExporter 按指标配置创建导出器
func CreateMetricExporter(ctx context.Context, cfg MetricsConfig) (sdkmetric.Exporter, error) {
	switch cfg.Exporter {
	case ExporterOTLPGRPC:
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts,
				otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
				otlpmetricgrpc.WithInsecure(),
			)
		}
		return otlpmetricgrpc.New(ctx, opts...)
	case ExporterOTLPHTTP:
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	case ExporterStdout:
		return stdoutmetric.New(stdoutmetric.WithPrettyPrint())
	case ExporterNone:
		return &NoopMetricExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: metric exporter %q", ErrUnsupportedExporter, cfg.Exporter)
	}
}

// NoopSpanExporter 空实现追踪导出器
type NoopSpanExporter struct{}

// ExportSpans 导出 spans（空实现）
func (e *NoopSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

// Shutdown 关闭导出器（空实现）
func (e *NoopSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// NoopMetricExporter 空实现指标导出器
type NoopMetricExporter struct{}

// Temporality 返回时间性
func (e *NoopMetricExporter) Temporality(kind sdkmetric.InstrumentKind) metricdata.Temporality {
	return metricdata.CumulativeTemporality
}

// Aggregation 返回聚合方式
func (e *NoopMetricExporter) Aggregation(kind sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(kind)
}

// Export 导出指标（空实现）
func (e *NoopMetricExporter) Export(ctx context.Context, rm *metricdata.ResourceMetrics) error {
	return nil
}

// ForceFlush 强制刷新（空实现）
func (e *NoopMetricExporter) ForceFlush(ctx context.Context) error {
	return nil
}

// Shutdown 关闭导出器（空实现）
func (e *NoopMetricExporter) Shutdown(ctx context.Context) error {
	return nil
}

// compile-time interface check
var _ sdktrace.SpanExporter = (*NoopSpanExporter)(nil)
var _ sdkmetric.Exporter = (*NoopMetricExporter)(nil)
