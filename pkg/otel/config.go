package otel

import (
	"fmt"
	"time"
)

// Config 是 ctxbudget 的可观测性设置，对应配置文件中的 observability 段。
//
// Enabled 为 false 时只创建日志，追踪和指标保持 noop。
type Config struct {
	Enabled        bool   `koanf:"enabled"`
	ServiceName    string `koanf:"service_name"`
	ServiceVersion string `koanf:"service_version"`
	Environment    string `koanf:"environment"`

	Tracing TracingConfig `koanf:"tracing"`
	Metrics MetricsConfig `koanf:"metrics"`
	Logging LoggingConfig `koanf:"logging"`
}

// TracingConfig 追踪导出设置
type TracingConfig struct {
	Enabled  bool         `koanf:"enabled"`
	Exporter ExporterType `koanf:"exporter"` // otlp-grpc | otlp-http | stdout | none
	Endpoint string       `koanf:"endpoint"`
	Insecure bool         `koanf:"insecure"`
	// SampleRate 取值 [0,1]，0 表示不采样
	SampleRate float64       `koanf:"sample_rate"`
	Timeout    time.Duration `koanf:"timeout"`
}

// MetricsConfig 指标导出设置；memory 导出器把指标留在进程内，供报告和测试读取。
type MetricsConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Exporter ExporterType  `koanf:"exporter"` // otlp-grpc | otlp-http | stdout | memory | none
	Endpoint string        `koanf:"endpoint"`
	Insecure bool          `koanf:"insecure"`
	Interval time.Duration `koanf:"interval"`
}

// LoggingConfig 日志设置
type LoggingConfig struct {
	Level          string `koanf:"level"`  // debug | info | warn | error
	Format         string `koanf:"format"` // text | json
	IncludeTraceID bool   `koanf:"include_trace_id"`
}

const defaultOTLPEndpoint = "localhost:4317"

var (
	traceExporters  = []ExporterType{ExporterOTLPGRPC, ExporterOTLPHTTP, ExporterStdout, ExporterNone}
	metricExporters = []ExporterType{ExporterOTLPGRPC, ExporterOTLPHTTP, ExporterStdout, ExporterMemory, ExporterNone}
)

// DefaultConfig 返回 CLI 使用的默认设置：可观测性关闭，启用后指标默认留在内存。
func DefaultConfig() Config {
	return Config{
		ServiceName:    "ctxbudget",
		ServiceVersion: "0.1.0",
		Environment:    "development",
		Tracing:        defaultTracing(),
		Metrics:        defaultMetrics(),
		Logging:        defaultLogging(),
	}
}

func defaultTracing() TracingConfig {
	return TracingConfig{
		Exporter:   ExporterOTLPGRPC,
		Endpoint:   defaultOTLPEndpoint,
		Insecure:   true,
		SampleRate: 1.0,
		Timeout:    30 * time.Second,
	}
}

func defaultMetrics() MetricsConfig {
	return MetricsConfig{
		Exporter: ExporterMemory,
		Endpoint: defaultOTLPEndpoint,
		Insecure: true,
		Interval: time.Minute,
	}
}

func defaultLogging() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "text", IncludeTraceID: true}
}

// Validate 逐段校验配置。空值视为“使用默认值”，不报错。
func (c *Config) Validate() error {
	if err := c.Tracing.validate(); err != nil {
		return err
	}
	if err := c.Metrics.validate(); err != nil {
		return err
	}
	return c.Logging.validate()
}

func (t TracingConfig) validate() error {
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return ErrInvalidSampleRate
	}
	if t.Timeout < 0 {
		return fmt.Errorf("%w: tracing timeout must not be negative", ErrInvalidConfig)
	}
	return checkExporter("trace", t.Exporter, traceExporters)
}

func (m MetricsConfig) validate() error {
	if m.Interval < 0 {
		return fmt.Errorf("%w: metrics interval must not be negative", ErrInvalidConfig)
	}
	return checkExporter("metric", m.Exporter, metricExporters)
}

func (l LoggingConfig) validate() error {
	switch l.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch l.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, l.Format)
	}
	return nil
}

func checkExporter(signal string, got ExporterType, allowed []ExporterType) error {
	if got == "" {
		return nil
	}
	for _, e := range allowed {
		if got == e {
			return nil
		}
	}
	return fmt.Errorf("%w: %s exporter %q", ErrUnsupportedExporter, signal, got)
}

// WithDefaults 返回补齐空字段后的副本，已设置的值保持不变。
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	c.ServiceName = orDefault(c.ServiceName, d.ServiceName)
	c.ServiceVersion = orDefault(c.ServiceVersion, d.ServiceVersion)
	c.Environment = orDefault(c.Environment, d.Environment)
	c.Tracing = c.Tracing.withDefaults(d.Tracing)
	c.Metrics = c.Metrics.withDefaults(d.Metrics)
	c.Logging = c.Logging.withDefaults(d.Logging)
	return c
}

func (t TracingConfig) withDefaults(d TracingConfig) TracingConfig {
	t.Exporter = orDefault(t.Exporter, d.Exporter)
	t.Endpoint = orDefault(t.Endpoint, d.Endpoint)
	t.SampleRate = orDefault(t.SampleRate, d.SampleRate)
	t.Timeout = orDefault(t.Timeout, d.Timeout)
	return t
}

func (m MetricsConfig) withDefaults(d MetricsConfig) MetricsConfig {
	m.Exporter = orDefault(m.Exporter, d.Exporter)
	m.Endpoint = orDefault(m.Endpoint, d.Endpoint)
	m.Interval = orDefault(m.Interval, d.Interval)
	return m
}

func (l LoggingConfig) withDefaults(d LoggingConfig) LoggingConfig {
	l.Level = orDefault(l.Level, d.Level)
	l.Format = orDefault(l.Format, d.Format)
	return l
}

// orDefault 在 v 为零值时返回 d
func orDefault[T comparable](v, d T) T {
	var zero T
	if v == zero {
		return d
	}
	return v
}
