package context

import (
	"time"
)

// InjectedEntry 是已注入账本的文档。
type InjectedEntry struct {
	// Key 由候选文档路径派生，在账本内唯一。
	Key string
	// Text 是注入的文本。
	Text string
	// TokenCount 是文本的 Token 数量。
	TokenCount int
	// RelevanceScore 是注入时的相关性分数。
	RelevanceScore float64
	// InjectedAt 是注入时间。
	InjectedAt time.Time
}

// AdmitResult 是 TryAdmit 的结果。
type AdmitResult struct {
	// Admitted 表示是否已注入。
	Admitted bool
	// TokensUsed 是文本的 Token 数量（未注入时也会返回，便于记录）。
	TokensUsed int
}

// LedgerSnapshot 是账本的只读视图。
type LedgerSnapshot struct {
	Entries             []InjectedEntry
	TotalTokensInjected int
	RemainingBudget     int
}

// Keys 按注入顺序返回所有键。
func (s LedgerSnapshot) Keys() []string {
	keys := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// InjectionLedger 记录已注入的文档及其 Token 开销。
//
// 不变式：totalTokens 等于所有条目 TokenCount 之和，且不超过 maxTokenBudget。
// 所有注入都必须经过 TryAdmit。
type InjectionLedger struct {
	counter        TokenCounter
	maxTokenBudget int
	entries        []InjectedEntry
	keys           map[string]struct{}
	totalTokens    int
	now            func() time.Time
}

// NewInjectionLedger 创建空账本。
func NewInjectionLedger(maxTokenBudget int, counter TokenCounter) *InjectionLedger {
	if counter == nil {
		counter = DefaultTokenCounter()
	}
	if maxTokenBudget < 0 {
		maxTokenBudget = 0
	}
	return &InjectionLedger{
		counter:        counter,
		maxTokenBudget: maxTokenBudget,
		keys:           make(map[string]struct{}),
		now:            time.Now,
	}
}

// TryAdmit 尝试注入一个条目。
//
// 仅当 Token 数不超过 budgetRemaining 与账本剩余预算、且 key 尚不存在时才注入；
// 否则返回 Admitted=false 且不修改任何状态。已存在的 key 视为静默空操作。
func (l *InjectionLedger) TryAdmit(key, text string, relevanceScore float64, budgetRemaining int) AdmitResult {
	tokens := l.counter.Count(text)
	result := AdmitResult{TokensUsed: tokens}

	if _, exists := l.keys[key]; exists {
		return result
	}
	if tokens > budgetRemaining || tokens > l.RemainingBudget() {
		return result
	}

	l.entries = append(l.entries, InjectedEntry{
		Key:            key,
		Text:           text,
		TokenCount:     tokens,
		RelevanceScore: relevanceScore,
		InjectedAt:     l.now(),
	})
	l.keys[key] = struct{}{}
	l.totalTokens += tokens

	result.Admitted = true
	return result
}

// Remove 移除条目并归还其 Token，返回是否发生了移除。
func (l *InjectionLedger) Remove(key string) bool {
	if _, exists := l.keys[key]; !exists {
		return false
	}

	for i, e := range l.entries {
		if e.Key != key {
			continue
		}
		l.entries = append(l.entries[:i], l.entries[i+1:]...)
		l.totalTokens -= e.TokenCount
		delete(l.keys, key)
		return true
	}
	return false
}

// Clear 清空所有条目，预算上限不变。
func (l *InjectionLedger) Clear() {
	l.entries = nil
	l.keys = make(map[string]struct{})
	l.totalTokens = 0
}

// Contains 返回 key 是否已在账本中。
func (l *InjectionLedger) Contains(key string) bool {
	_, exists := l.keys[key]
	return exists
}

// Len 返回条目数量。
func (l *InjectionLedger) Len() int {
	return len(l.entries)
}

// TotalTokens 返回已注入的 Token 总数。
func (l *InjectionLedger) TotalTokens() int {
	return l.totalTokens
}

// MaxTokenBudget 返回预算上限。
func (l *InjectionLedger) MaxTokenBudget() int {
	return l.maxTokenBudget
}

// RemainingBudget 返回剩余预算。
func (l *InjectionLedger) RemainingBudget() int {
	return l.maxTokenBudget - l.totalTokens
}

// Snapshot 返回账本的只读视图，条目为副本。
func (l *InjectionLedger) Snapshot() LedgerSnapshot {
	entries := make([]InjectedEntry, len(l.entries))
	copy(entries, l.entries)

	return LedgerSnapshot{
		Entries:             entries,
		TotalTokensInjected: l.totalTokens,
		RemainingBudget:     l.RemainingBudget(),
	}
}
