package otel

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// Logger 定义日志接口
type Logger interface {
	// Debug 调试日志
	Debug(msg string, args ...any)
	// Info 信息日志
	Info(msg string, args ...any)
	// Warn 警告日志
	Warn(msg string, args ...any)
	// Error 错误日志
	Error(msg string, args ...any)
	// WithContext 返回带上下文的 Logger（用于关联 Trace ID）
	WithContext(ctx context.Context) Logger
	// WithFields 返回带额外字段的 Logger
	WithFields(fields map[string]any) Logger
}

// SlogLogger slog 适配器
type SlogLogger struct {
	logger         *slog.Logger
	attrs          []any
	includeTraceID bool
}

// NewSlogLogger 创建 slog 适配器
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger, includeTraceID: true}
}

// NewLogger 按日志配置创建 slog 适配器，w 为 nil 时写入 stderr
func NewLogger(cfg LoggingConfig, w io.Writer) *SlogLogger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := NewSlogLogger(slog.New(handler))
	l.includeTraceID = cfg.IncludeTraceID
	return l
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug 调试日志
func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, l.merge(args)...)
}

// Info 信息日志
func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, l.merge(args)...)
}

// Warn 警告日志
func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, l.merge(args)...)
}

// Error 错误日志
func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, l.merge(args)...)
}

// merge 合并固定字段与调用参数，避免修改共享切片
func (l *SlogLogger) merge(args []any) []any {
	if len(l.attrs) == 0 {
		return args
	}
	merged := make([]any, 0, len(l.attrs)+len(args))
	merged = append(merged, l.attrs...)
	return append(merged, args...)
}

// WithContext 返回带上下文的 Logger
func (l *SlogLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil || !l.includeTraceID {
		return l
	}

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}

	return l.with("trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}

// WithFields 返回带额外字段的 Logger
func (l *SlogLogger) WithFields(fields map[string]any) Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.with(args...)
}

func (l *SlogLogger) with(args ...any) *SlogLogger {
	newAttrs := make([]any, len(l.attrs), len(l.attrs)+len(args))
	copy(newAttrs, l.attrs)

	return &SlogLogger{
		logger:         l.logger,
		attrs:          append(newAttrs, args...),
		includeTraceID: l.includeTraceID,
	}
}

// NoopLogger 空实现日志
type NoopLogger struct{}

// NewNoopLogger 创建空实现日志
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(msg string, args ...any)           {}
func (l *NoopLogger) Info(msg string, args ...any)            {}
func (l *NoopLogger) Warn(msg string, args ...any)            {}
func (l *NoopLogger) Error(msg string, args ...any)           {}
func (l *NoopLogger) WithContext(ctx context.Context) Logger  { return l }
func (l *NoopLogger) WithFields(fields map[string]any) Logger { return l }

// compile-time interface check
var _ Logger = (*SlogLogger)(nil)
var _ Logger = (*NoopLogger)(nil)
