package otel

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics 定义指标接口
type Metrics interface {
	// Counter 返回或创建计数器
	Counter(name string) Counter
	// Histogram 返回或创建直方图
	Histogram(name string) Histogram
	// Gauge 返回或创建仪表
	Gauge(name string) Gauge
}

// Counter 计数器接口
type Counter interface {
	// Add 增加计数
	Add(ctx context.Context, value int64, attrs ...Attr)
}

// Histogram 直方图接口
type Histogram interface {
	// Record 记录值
	Record(ctx context.Context, value float64, attrs ...Attr)
}

// Gauge 仪表接口
type Gauge interface {
	// Set 设置值
	Set(ctx context.Context, value float64, attrs ...Attr)
}

// Attr 指标属性
type Attr struct {
	Key   string
	Value interface{}
}

// NewAttr 创建指标属性
func NewAttr(key string, value interface{}) Attr {
	return Attr{Key: key, Value: value}
}

// toKeyValues 将指标属性转换为 OpenTelemetry 属性
func toKeyValues(attrs []Attr) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			kvs = append(kvs, attribute.String(a.Key, v))
		case bool:
			kvs = append(kvs, attribute.Bool(a.Key, v))
		case int:
			kvs = append(kvs, attribute.Int(a.Key, v))
		case int64:
			kvs = append(kvs, attribute.Int64(a.Key, v))
		case float64:
			kvs = append(kvs, attribute.Float64(a.Key, v))
		default:
			kvs = append(kvs, attribute.String(a.Key, fmt.Sprint(v)))
		}
	}
	return kvs
}

// OTelMetrics 基于 OpenTelemetry Meter 的指标实现
type OTelMetrics struct {
	meter      metric.Meter
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
	gauges     map[string]metric.Float64Gauge
	mu         sync.Mutex
}

// NewOTelMetrics 创建 OpenTelemetry 指标
func NewOTelMetrics(meter metric.Meter) *OTelMetrics {
	return &OTelMetrics{
		meter:      meter,
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

// Counter 返回或创建计数器，创建失败时返回空实现
func (m *OTelMetrics) Counter(name string) Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.counters[name]; ok {
		return &otelCounter{c}
	}

	desc := describe(name)
	c, err := m.meter.Int64Counter(name,
		metric.WithDescription(desc.Description),
		metric.WithUnit(string(desc.Unit)),
	)
	if err != nil {
		return &NoopCounter{}
	}
	m.counters[name] = c
	return &otelCounter{c}
}

// Histogram 返回或创建直方图
func (m *OTelMetrics) Histogram(name string) Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.histograms[name]; ok {
		return &otelHistogram{h}
	}

	desc := describe(name)
	h, err := m.meter.Float64Histogram(name,
		metric.WithDescription(desc.Description),
		metric.WithUnit(string(desc.Unit)),
	)
	if err != nil {
		return &NoopHistogram{}
	}
	m.histograms[name] = h
	return &otelHistogram{h}
}

// Gauge 返回或创建仪表
func (m *OTelMetrics) Gauge(name string) Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.gauges[name]; ok {
		return &otelGauge{g}
	}

	desc := describe(name)
	g, err := m.meter.Float64Gauge(name,
		metric.WithDescription(desc.Description),
		metric.WithUnit(string(desc.Unit)),
	)
	if err != nil {
		return &NoopGauge{}
	}
	m.gauges[name] = g
	return &otelGauge{g}
}

type otelCounter struct{ c metric.Int64Counter }

func (c *otelCounter) Add(ctx context.Context, value int64, attrs ...Attr) {
	c.c.Add(ctx, value, metric.WithAttributes(toKeyValues(attrs)...))
}

type otelHistogram struct{ h metric.Float64Histogram }

func (h *otelHistogram) Record(ctx context.Context, value float64, attrs ...Attr) {
	h.h.Record(ctx, value, metric.WithAttributes(toKeyValues(attrs)...))
}

type otelGauge struct{ g metric.Float64Gauge }

func (g *otelGauge) Set(ctx context.Context, value float64, attrs ...Attr) {
	g.g.Record(ctx, value, metric.WithAttributes(toKeyValues(attrs)...))
}

// InMemoryMetrics 内存指标实现（用于测试和简单场景）
type InMemoryMetrics struct {
	counters   map[string]*InMemoryCounter
	histograms map[string]*InMemoryHistogram
	gauges     map[string]*InMemoryGauge
	mu         sync.RWMutex
}

// NewInMemoryMetrics 创建内存指标
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters:   make(map[string]*InMemoryCounter),
		histograms: make(map[string]*InMemoryHistogram),
		gauges:     make(map[string]*InMemoryGauge),
	}
}

// Counter 返回或创建计数器
func (m *InMemoryMetrics) Counter(name string) Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.counters[name]; ok {
		return c
	}

	c := &InMemoryCounter{name: name}
	m.counters[name] = c
	return c
}

// Histogram 返回或创建直方图
func (m *InMemoryMetrics) Histogram(name string) Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.histograms[name]; ok {
		return h
	}

	h := &InMemoryHistogram{name: name}
	m.histograms[name] = h
	return h
}

// Gauge 返回或创建仪表
func (m *InMemoryMetrics) Gauge(name string) Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.gauges[name]; ok {
		return g
	}

	g := &InMemoryGauge{name: name}
	m.gauges[name] = g
	return g
}

// GetCounterValue 获取计数器当前值
func (m *InMemoryMetrics) GetCounterValue(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if c, ok := m.counters[name]; ok {
		return c.Value()
	}
	return 0
}

// GetGaugeValue 获取仪表当前值
func (m *InMemoryMetrics) GetGaugeValue(name string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if g, ok := m.gauges[name]; ok {
		return g.Value()
	}
	return 0
}

// GetHistogramValues 获取直方图记录的所有值
func (m *InMemoryMetrics) GetHistogramValues(name string) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if h, ok := m.histograms[name]; ok {
		return h.Values()
	}
	return nil
}

// InMemoryCounter 内存计数器
type InMemoryCounter struct {
	name  string
	value int64
	mu    sync.RWMutex
}

// Add 增加计数
func (c *InMemoryCounter) Add(ctx context.Context, value int64, attrs ...Attr) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += value
}

// Value 获取当前值
func (c *InMemoryCounter) Value() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// InMemoryHistogram 内存直方图
type InMemoryHistogram struct {
	name   string
	values []float64
	mu     sync.RWMutex
}

// Record 记录值
func (h *InMemoryHistogram) Record(ctx context.Context, value float64, attrs ...Attr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values = append(h.values, value)
}

// Values 获取所有记录的值
func (h *InMemoryHistogram) Values() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make([]float64, len(h.values))
	copy(result, h.values)
	return result
}

// InMemoryGauge 内存仪表
type InMemoryGauge struct {
	name  string
	value float64
	mu    sync.RWMutex
}

// Set 设置值
func (g *InMemoryGauge) Set(ctx context.Context, value float64, attrs ...Attr) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = value
}

// Value 获取当前值
func (g *InMemoryGauge) Value() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.value
}

// NoopMetrics 空实现指标
type NoopMetrics struct{}

// NewNoopMetrics 创建空实现指标
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (m *NoopMetrics) Counter(name string) Counter     { return &NoopCounter{} }
func (m *NoopMetrics) Histogram(name string) Histogram { return &NoopHistogram{} }
func (m *NoopMetrics) Gauge(name string) Gauge         { return &NoopGauge{} }

type NoopCounter struct{}

func (c *NoopCounter) Add(ctx context.Context, value int64, attrs ...Attr) {}

type NoopHistogram struct{}

func (h *NoopHistogram) Record(ctx context.Context, value float64, attrs ...Attr) {}

type NoopGauge struct{}

func (g *NoopGauge) Set(ctx context.Context, value float64, attrs ...Attr) {}

// compile-time interface check
var _ Metrics = (*OTelMetrics)(nil)
var _ Metrics = (*InMemoryMetrics)(nil)
var _ Metrics = (*NoopMetrics)(nil)
var _ Counter = (*InMemoryCounter)(nil)
var _ Histogram = (*InMemoryHistogram)(nil)
var _ Gauge = (*InMemoryGauge)(nil)
