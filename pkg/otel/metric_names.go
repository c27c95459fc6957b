package otel

// 预定义的指标名称
const (
	// 注入指标
	MetricInjectionPasses    = "context.injection.passes"    // 计数器: 注入调用次数
	MetricInjections         = "context.injections"          // 计数器: 成功注入的文档数
	MetricCandidatesFiltered = "context.candidates.filtered" // 计数器: 低于阈值被过滤的候选
	MetricCandidatesRejected = "context.candidates.rejected" // 计数器: 因预算或重复被拒绝的候选
	MetricTokensInjected     = "context.tokens.injected"     // 仪表: 当前注入的 Token 总数
	MetricBudgetRemaining    = "context.budget.remaining"    // 仪表: 剩余注入预算
	MetricInjectionDuration  = "context.injection.duration"  // 直方图: 注入耗时(ms)
	MetricContextBuilds      = "context.builds"              // 计数器: 上下文组合次数
	MetricContextBuildTokens = "context.build.tokens"        // 直方图: 组合结果的 Token 数
	MetricInjectionClears    = "context.injection.clears"    // 计数器: 清空次数

	// 扫描指标
	MetricScans          = "context.scans"           // 计数器: 扫描次数
	MetricScanDuration   = "context.scan.duration"   // 直方图: 扫描耗时(ms)
	MetricScanCandidates = "context.scan.candidates" // 直方图: 每次扫描的候选数
	MetricScanErrors     = "context.scan.errors"     // 计数器: 扫描错误次数
)

// MetricUnit 指标单位
type MetricUnit string

const (
	UnitNone         MetricUnit = ""
	UnitMilliseconds MetricUnit = "ms"
	UnitCount        MetricUnit = "1"
	UnitTokens       MetricUnit = "{token}"
)

// MetricDescription 指标描述
type MetricDescription struct {
	Name        string
	Description string
	Unit        MetricUnit
	Type        string // counter, histogram, gauge
}

// PredefinedMetrics 预定义指标列表
var PredefinedMetrics = []MetricDescription{
	{MetricInjectionPasses, "Number of injection passes", UnitCount, "counter"},
	{MetricInjections, "Number of documents injected", UnitCount, "counter"},
	{MetricCandidatesFiltered, "Number of candidates below the relevance threshold", UnitCount, "counter"},
	{MetricCandidatesRejected, "Number of candidates rejected by budget or duplicate key", UnitCount, "counter"},
	{MetricTokensInjected, "Tokens currently held by the injection ledger", UnitTokens, "gauge"},
	{MetricBudgetRemaining, "Remaining injection token budget", UnitTokens, "gauge"},
	{MetricInjectionDuration, "Duration of injection passes", UnitMilliseconds, "histogram"},
	{MetricContextBuilds, "Number of composed contexts", UnitCount, "counter"},
	{MetricContextBuildTokens, "Estimated tokens of composed contexts", UnitTokens, "histogram"},
	{MetricInjectionClears, "Number of ledger clears", UnitCount, "counter"},

	{MetricScans, "Number of relevance scans", UnitCount, "counter"},
	{MetricScanDuration, "Duration of relevance scans", UnitMilliseconds, "histogram"},
	{MetricScanCandidates, "Candidates returned per scan", UnitCount, "histogram"},
	{MetricScanErrors, "Number of failed scans", UnitCount, "counter"},
}

// describe 返回指标描述，未登记的指标只带名称
func describe(name string) MetricDescription {
	for _, d := range PredefinedMetrics {
		if d.Name == name {
			return d
		}
	}
	return MetricDescription{Name: name}
}
