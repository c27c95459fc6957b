package context

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/journal"
	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/otel"
)

// UsageMetrics 是核心上下文的 Token 使用情况。
type UsageMetrics struct {
	// CoreContextTokens 是核心上下文的 Token 数量。
	CoreContextTokens int
	// MaxTokens 是下游提示的总体 Token 上限。
	MaxTokens int
}

// InjectionStatistics 是账本快照的投影。
type InjectionStatistics struct {
	TotalInjected        int
	TotalTokensInjected  int
	RemainingTokenBudget int
	// InjectedKeys 按注入顺序排列。
	InjectedKeys []string
}

// Manager 管理一次生成会话的上下文预算。
//
// Manager 独占一个核心上下文和一个注入账本，没有内部锁；
// 并发会话应各自持有独立的 Manager。
type Manager struct {
	id         string
	config     *Config
	core       *CoreContextStore
	ledger     *InjectionLedger
	scanner    RelevanceScanner
	structurer Structurer
	reporter   *UtilizationReporter
	logger     otel.Logger
	tracer     otel.Tracer
	metrics    otel.Metrics
	journal    journal.Journal
}

// ManagerOption 配置 Manager。
type ManagerOption func(*Manager)

// WithConfig 设置配置。
func WithConfig(config *Config) ManagerOption {
	return func(m *Manager) {
		m.config = config
	}
}

// WithLogger 设置日志器。
func WithLogger(logger otel.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithTracer 设置追踪器。
func WithTracer(tracer otel.Tracer) ManagerOption {
	return func(m *Manager) {
		m.tracer = tracer
	}
}

// WithMetrics 设置指标收集器。
func WithMetrics(metrics otel.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithJournal 设置审计日志。
func WithJournal(j journal.Journal) ManagerOption {
	return func(m *Manager) {
		m.journal = j
	}
}

// WithStructurer 设置上下文结构化器。
func WithStructurer(structurer Structurer) ManagerOption {
	return func(m *Manager) {
		m.structurer = structurer
	}
}

// WithSessionID 设置会话 ID（默认随机生成）。
func WithSessionID(id string) ManagerOption {
	return func(m *Manager) {
		m.id = id
	}
}

// NewManager 创建新的 Manager。
func NewManager(scanner RelevanceScanner, opts ...ManagerOption) (*Manager, error) {
	if scanner == nil {
		return nil, fmt.Errorf("%w: scanner is required", ErrInvalidArgument)
	}

	m := &Manager{
		scanner: scanner,
		config:  DefaultConfig(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.config == nil {
		m.config = DefaultConfig()
	}
	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	if m.id == "" {
		m.id = uuid.NewString()
	}
	if m.structurer == nil {
		m.structurer = NewDefaultStructurer()
	}
	if m.logger == nil {
		m.logger = otel.NewNoopLogger()
	}
	if m.tracer == nil {
		m.tracer = otel.NewNoopTracer()
	}
	if m.metrics == nil {
		m.metrics = otel.NewNoopMetrics()
	}

	counter := m.config.GetTokenCounter()
	m.core = NewCoreContextStore(counter)
	m.ledger = NewInjectionLedger(m.config.InjectionBudget, counter)
	m.reporter = NewUtilizationReporter()
	m.logger = m.logger.WithFields(map[string]any{"session_id": m.id})

	return m, nil
}

// SessionID 返回会话 ID。
func (m *Manager) SessionID() string {
	return m.id
}

// Config 返回配置。
func (m *Manager) Config() *Config {
	return m.config
}

// CreateCoreContext 设置核心上下文，重复调用会替换之前的内容。
func (m *Manager) CreateCoreContext(text string) error {
	if err := m.core.Initialize(text); err != nil {
		return err
	}
	m.logger.Info("core context created", "tokens", m.core.TokenCount())
	return nil
}

// InjectHighRelevanceMarkdownFiles 扫描 rootPath 并把高相关性文档注入账本。
//
// 扫描完成前不修改账本；扫描失败或 ctx 取消时账本保持不变。
// 过大的候选会被跳过，后续更小的候选仍可注入。返回本次注入的文档数量。
func (m *Manager) InjectHighRelevanceMarkdownFiles(ctx context.Context, rootPath string, threshold float64, maxFiles int) (int, error) {
	return m.inject(ctx, rootPath, threshold, maxFiles, false)
}

// RefreshInjectedContext 重新扫描 rootPath 并用结果替换已注入的内容。
//
// 只有扫描成功且候选全部有效后才清空账本，失败时保留原有注入内容。
func (m *Manager) RefreshInjectedContext(ctx context.Context, rootPath string, threshold float64, maxFiles int) (int, error) {
	return m.inject(ctx, rootPath, threshold, maxFiles, true)
}

func (m *Manager) inject(ctx context.Context, rootPath string, threshold float64, maxFiles int, replace bool) (int, error) {
	if !m.core.Initialized() {
		return 0, ErrNotInitialized
	}
	if math.IsNaN(threshold) || threshold < MinRelevance || threshold > MaxRelevance {
		return 0, fmt.Errorf("%w: relevance threshold %v outside [0,100]", ErrInvalidArgument, threshold)
	}
	if maxFiles <= 0 {
		return 0, fmt.Errorf("%w: max files must be positive, got %d", ErrInvalidArgument, maxFiles)
	}

	start := time.Now()
	ctx, span := m.tracer.Start(ctx, "context.inject",
		otel.WithSpanKind(trace.SpanKindInternal),
		otel.WithAttributes(otel.SessionID(m.id)),
		otel.WithAttributes(otel.InjectionRequest(rootPath, threshold, maxFiles)...),
	)
	defer span.End()

	logger := m.logger.WithContext(ctx)
	m.metrics.Counter(otel.MetricInjectionPasses).Add(ctx, 1)

	candidates, err := m.scanner.Scan(ctx, rootPath)
	if err != nil {
		scanErr := &ScanError{Root: rootPath, Err: err}
		m.fail(span, "scan", scanErr)
		logger.Error("relevance scan failed", "root", rootPath, "error", err)
		return 0, scanErr
	}
	if err := ctx.Err(); err != nil {
		m.fail(span, "canceled", err)
		return 0, err
	}
	span.SetAttributes(otel.CandidateCount(len(candidates)))
	logger.Debug("relevance scan finished", "root", rootPath, "candidates", len(candidates))

	ranked, filtered, err := rankCandidates(candidates, threshold)
	if err != nil {
		m.fail(span, "candidate", err)
		logger.Error("invalid candidate returned by scanner", "root", rootPath, "error", err)
		return 0, err
	}

	if replace {
		m.clear(ctx)
	}

	injected, tokens, rejected := 0, 0, 0
	keys := make([]string, 0, len(ranked))
	for _, c := range ranked {
		if injected >= maxFiles || m.ledger.RemainingBudget() <= 0 {
			break
		}

		key := c.Key()
		res := m.ledger.TryAdmit(key, c.Text, c.RelevanceScore, m.ledger.RemainingBudget())
		if !res.Admitted {
			rejected++
			logger.Debug("candidate skipped",
				"key", key,
				"tokens", res.TokensUsed,
				"remaining", m.ledger.RemainingBudget(),
				"duplicate", m.ledger.Contains(key),
			)
			continue
		}

		injected++
		tokens += res.TokensUsed
		keys = append(keys, key)
	}

	m.metrics.Counter(otel.MetricInjections).Add(ctx, int64(injected))
	m.metrics.Counter(otel.MetricCandidatesFiltered).Add(ctx, int64(filtered))
	m.metrics.Counter(otel.MetricCandidatesRejected).Add(ctx, int64(rejected))
	m.metrics.Histogram(otel.MetricInjectionDuration).Record(ctx, float64(time.Since(start).Milliseconds()))
	m.recordLedgerGauges(ctx)

	span.SetAttributes(otel.InjectionResult(injected, tokens, m.ledger.RemainingBudget())...)
	span.SetStatus(otel.StatusOK, "")

	logger.Info("injection finished",
		"root", rootPath,
		"candidates", len(candidates),
		"filtered", filtered,
		"injected", injected,
		"tokens", tokens,
		"remaining", m.ledger.RemainingBudget(),
	)

	m.record(ctx, &journal.Event{
		Kind:           journal.KindInjection,
		Root:           rootPath,
		Threshold:      threshold,
		MaxFiles:       maxFiles,
		Injected:       injected,
		TokensInjected: tokens,
		Keys:           keys,
	})

	return injected, nil
}

// BuildContextForDocument 组合核心上下文与已注入的文档。
//
// documentType 仅作为标签使用，不过滤条目。调用没有副作用。
func (m *Manager) BuildContextForDocument(documentType string) (string, error) {
	core, ok := m.core.Get()
	if !ok {
		return "", ErrNotInitialized
	}

	snap := m.ledger.Snapshot()
	result := m.structurer.Structure(core.Text, snap.Entries, documentType)

	ctx := context.Background()
	attr := otel.NewAttr(otel.AttrDocumentType, documentType)
	m.metrics.Counter(otel.MetricContextBuilds).Add(ctx, 1, attr)
	m.metrics.Histogram(otel.MetricContextBuildTokens).Record(ctx,
		float64(core.TokenCount+snap.TotalTokensInjected), attr)

	m.logger.Debug("context built",
		"document_type", documentType,
		"entries", len(snap.Entries),
		"bytes", len(result),
	)

	return result, nil
}

// GetMetrics 返回核心上下文 Token 数与总体上限。
func (m *Manager) GetMetrics() UsageMetrics {
	return UsageMetrics{
		CoreContextTokens: m.core.TokenCount(),
		MaxTokens:         m.config.MaxTokens,
	}
}

// GetInjectionStatistics 返回注入统计。
func (m *Manager) GetInjectionStatistics() InjectionStatistics {
	snap := m.ledger.Snapshot()
	return InjectionStatistics{
		TotalInjected:        len(snap.Entries),
		TotalTokensInjected:  snap.TotalTokensInjected,
		RemainingTokenBudget: snap.RemainingBudget,
		InjectedKeys:         snap.Keys(),
	}
}

// GetContextUtilizationReport 返回可读的利用率报告。
func (m *Manager) GetContextUtilizationReport() string {
	return m.reporter.Report(ReportInput{
		SessionID:  m.id,
		CoreTokens: m.core.TokenCount(),
		MaxTokens:  m.config.MaxTokens,
		Snapshot:   m.ledger.Snapshot(),
	})
}

// ClearInjectedContext 清空注入账本，核心上下文不受影响。
func (m *Manager) ClearInjectedContext() {
	m.clear(context.Background())
}

func (m *Manager) clear(ctx context.Context) {
	cleared := m.ledger.Len()
	m.ledger.Clear()

	m.metrics.Counter(otel.MetricInjectionClears).Add(ctx, 1)
	m.recordLedgerGauges(ctx)
	m.logger.Info("injected context cleared", "entries", cleared)

	m.record(ctx, &journal.Event{Kind: journal.KindClear, Injected: cleared})
}

// RemoveInjectedDocument 移除单个注入文档，返回是否发生了移除。
func (m *Manager) RemoveInjectedDocument(key string) bool {
	key = DeriveKey(key)
	if !m.ledger.Remove(key) {
		return false
	}

	ctx := context.Background()
	m.recordLedgerGauges(ctx)
	m.logger.Info("injected document removed", "key", key)

	m.record(ctx, &journal.Event{Kind: journal.KindRemoval, Keys: []string{key}})
	return true
}

// recordLedgerGauges 更新账本相关的仪表。
func (m *Manager) recordLedgerGauges(ctx context.Context) {
	m.metrics.Gauge(otel.MetricTokensInjected).Set(ctx, float64(m.ledger.TotalTokens()))
	m.metrics.Gauge(otel.MetricBudgetRemaining).Set(ctx, float64(m.ledger.RemainingBudget()))
}

// record 写入审计日志，失败只记录警告。
func (m *Manager) record(ctx context.Context, event *journal.Event) {
	if m.journal == nil {
		return
	}
	event.SessionID = m.id
	if err := m.journal.Record(ctx, event); err != nil {
		m.logger.Warn("failed to record journal event", "kind", string(event.Kind), "error", err)
	}
}

// fail 在 span 上记录错误。
func (m *Manager) fail(span otel.Span, errType string, err error) {
	span.RecordError(err)
	span.SetStatus(otel.StatusError, err.Error())
	span.SetAttributes(otel.ErrorAttrs(errType, err.Error())...)
}
