package context

import (
	"fmt"
	"strings"
)

// ReportInput 是生成利用率报告所需的状态。
type ReportInput struct {
	SessionID  string
	CoreTokens int
	MaxTokens  int
	Snapshot   LedgerSnapshot
}

// UtilizationReporter 从账本和核心上下文派生可读的利用率报告。
type UtilizationReporter struct{}

// NewUtilizationReporter 创建新的 UtilizationReporter。
func NewUtilizationReporter() *UtilizationReporter {
	return &UtilizationReporter{}
}

// Report 生成多行报告。
func (r *UtilizationReporter) Report(in ReportInput) string {
	snap := in.Snapshot
	budget := snap.TotalTokensInjected + snap.RemainingBudget
	total := in.CoreTokens + snap.TotalTokensInjected

	var b strings.Builder
	b.WriteString("Context Utilization Report\n")
	if in.SessionID != "" {
		fmt.Fprintf(&b, "  Session:            %s\n", in.SessionID)
	}
	fmt.Fprintf(&b, "  Core context:       %d tokens\n", in.CoreTokens)
	fmt.Fprintf(&b, "  Injected documents: %d (%d tokens)\n", len(snap.Entries), snap.TotalTokensInjected)
	fmt.Fprintf(&b, "  Injection budget:   %d/%d tokens used (%s), %d remaining\n",
		snap.TotalTokensInjected, budget, percent(snap.TotalTokensInjected, budget), snap.RemainingBudget)
	fmt.Fprintf(&b, "  Total context:      %d/%d tokens (%s)\n", total, in.MaxTokens, percent(total, in.MaxTokens))

	if len(snap.Entries) > 0 {
		b.WriteString("  Injected sources:\n")
		for _, e := range snap.Entries {
			fmt.Fprintf(&b, "    - %s (relevance %.0f, %d tokens)\n", e.Key, e.RelevanceScore, e.TokenCount)
		}
	}

	return b.String()
}

// percent 格式化百分比，分母为 0 时返回 0.0%。
func percent(part, whole int) string {
	if whole <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(whole))
}
