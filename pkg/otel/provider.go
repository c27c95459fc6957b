package otel

import (
	"context"
	"io"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Provider 可观测性提供者
//
// 管理追踪、指标和日志的生命周期。
type Provider struct {
	config   Config
	tracer   Tracer
	metrics  Metrics
	logger   Logger
	shutdown []func(context.Context) error
	mu       sync.RWMutex
}

// ProviderOption 配置 Provider
type ProviderOption func(*providerOptions)

type providerOptions struct {
	logWriter io.Writer
}

// WithLogWriter 设置日志输出位置（默认 stderr）
func WithLogWriter(w io.Writer) ProviderOption {
	return func(o *providerOptions) {
		o.logWriter = w
	}
}

// NewProvider 创建可观测性提供者
//
// 日志始终按 Logging 配置创建；追踪和指标仅在 Enabled 时初始化。
func NewProvider(cfg Config, opts ...ProviderOption) (*Provider, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &providerOptions{}
	for _, opt := range opts {
		opt(o)
	}

	p := &Provider{
		config:   cfg,
		tracer:   NewNoopTracer(),
		metrics:  NewNoopMetrics(),
		logger:   NewLogger(cfg.Logging, o.logWriter),
		shutdown: make([]func(context.Context) error, 0),
	}

	if !cfg.Enabled {
		return p, nil
	}

	ctx := context.Background()
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	if cfg.Tracing.Enabled {
		if err := p.initTracing(ctx, res); err != nil {
			return nil, err
		}
	}

	if cfg.Metrics.Enabled {
		if err := p.initMetrics(ctx, res); err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
	}

	return p, nil
}

// initTracing 初始化追踪
func (p *Provider) initTracing(ctx context.Context, res *resource.Resource) error {
	exporter, err := CreateTraceExporter(ctx, p.config.Tracing)
	if err != nil {
		return err
	}

	var sampler sdktrace.Sampler
	switch rate := p.config.Tracing.SampleRate; {
	case rate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case rate <= 0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(rate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p.shutdown = append(p.shutdown, tp.Shutdown)
	p.tracer = NewTracer(tp.Tracer(p.config.ServiceName))

	return nil
}

// initMetrics 初始化指标
func (p *Provider) initMetrics(ctx context.Context, res *resource.Resource) error {
	if p.config.Metrics.Exporter == ExporterMemory {
		p.metrics = NewInMemoryMetrics()
		return nil
	}

	exporter, err := CreateMetricExporter(ctx, p.config.Metrics)
	if err != nil {
		return err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(p.config.Metrics.Interval),
		)),
	)
	otel.SetMeterProvider(mp)

	p.shutdown = append(p.shutdown, mp.Shutdown)
	p.metrics = NewOTelMetrics(mp.Meter(p.config.ServiceName))

	return nil
}

// Config 返回生效的配置
func (p *Provider) Config() Config {
	return p.config
}

// Tracer 返回追踪器
func (p *Provider) Tracer() Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Metrics 返回指标收集器
func (p *Provider) Metrics() Metrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.metrics
}

// Logger 返回日志器
func (p *Provider) Logger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.logger
}

// Shutdown 优雅关闭
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for _, fn := range p.shutdown {
		if err := fn(ctx); err != nil {
			lastErr = err
		}
	}
	p.shutdown = nil
	return lastErr
}
