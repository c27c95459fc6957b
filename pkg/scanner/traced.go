package scanner

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	agentctx "github.com/mdresch/requirements-gathering-agent-sub002/pkg/context"
	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/otel"
)

// TracedScanner 为 RelevanceScanner 添加追踪和指标
type TracedScanner struct {
	next    agentctx.RelevanceScanner
	tracer  otel.Tracer
	metrics otel.Metrics
}

// NewTracedScanner 包装扫描器，tracer 或 metrics 为 nil 时使用空实现
func NewTracedScanner(next agentctx.RelevanceScanner, tracer otel.Tracer, metrics otel.Metrics) *TracedScanner {
	if tracer == nil {
		tracer = otel.NewNoopTracer()
	}
	if metrics == nil {
		metrics = otel.NewNoopMetrics()
	}
	return &TracedScanner{next: next, tracer: tracer, metrics: metrics}
}

// Scan 调用被包装的扫描器
func (s *TracedScanner) Scan(ctx context.Context, rootPath string) ([]agentctx.CandidateDocument, error) {
	ctx, span := s.tracer.Start(ctx, "scanner.scan",
		otel.WithSpanKind(trace.SpanKindInternal),
		otel.WithAttributes(attribute.String(otel.AttrRootPath, rootPath)),
	)
	defer span.End()

	start := time.Now()
	candidates, err := s.next.Scan(ctx, rootPath)
	elapsed := float64(time.Since(start).Milliseconds())

	root := otel.NewAttr(otel.AttrRootPath, rootPath)
	s.metrics.Counter(otel.MetricScans).Add(ctx, 1, root)
	s.metrics.Histogram(otel.MetricScanDuration).Record(ctx, elapsed, root)

	if err != nil {
		s.metrics.Counter(otel.MetricScanErrors).Add(ctx, 1, root)
		span.RecordError(err)
		span.SetStatus(otel.StatusError, err.Error())
		return nil, err
	}

	s.metrics.Histogram(otel.MetricScanCandidates).Record(ctx, float64(len(candidates)), root)
	span.SetAttributes(otel.CandidateCount(len(candidates)))
	span.SetStatus(otel.StatusOK, "")
	return candidates, nil
}

var _ agentctx.RelevanceScanner = (*TracedScanner)(nil)
