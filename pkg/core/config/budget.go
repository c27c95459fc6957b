package config

import (
	agentctx "github.com/mdresch/requirements-gathering-agent-sub002/pkg/context"
)

// BudgetConfig 上下文预算配置
type BudgetConfig struct {
	// MaxTokens 下游提示的总 Token 上限
	// 默认: 128000
	MaxTokens int `koanf:"max_tokens"`
	// InjectionBudget 注入内容可占用的 Token 上限
	// 默认: 40000
	InjectionBudget int `koanf:"injection_budget"`
	// RelevanceThreshold 默认相关性阈值
	// 默认: 60, 范围: [0, 100]
	RelevanceThreshold float64 `koanf:"relevance_threshold"`
	// MaxFiles 单次注入的默认最大文件数
	// 默认: 5
	MaxFiles int `koanf:"max_files"`
	// TokenCounter Token 计数方式（estimate, tiktoken）
	TokenCounter string `koanf:"token_counter"`
	// TiktokenModel tiktoken 编码对应的模型
	TiktokenModel string `koanf:"tiktoken_model"`
}

// Validate 验证预算配置
func (c *BudgetConfig) Validate() error {
	if c.MaxTokens < 1 {
		return ErrInvalidMaxTokens
	}
	if c.InjectionBudget < 0 {
		return ErrInvalidInjectionBudget
	}
	if c.RelevanceThreshold < agentctx.MinRelevance || c.RelevanceThreshold > agentctx.MaxRelevance {
		return ErrInvalidThreshold
	}
	if c.MaxFiles < 1 {
		return ErrInvalidMaxFiles
	}
	switch c.TokenCounter {
	case "", agentctx.CounterEstimate, agentctx.CounterTiktoken:
	default:
		return ErrInvalidTokenCounter
	}
	return nil
}

// ContextConfig 转换为上下文管理器配置
//
// token_counter 为 tiktoken 且编码无法加载时返回错误。
func (c *BudgetConfig) ContextConfig() (*agentctx.Config, error) {
	counter, err := agentctx.NewTokenCounter(c.TokenCounter, c.TiktokenModel)
	if err != nil {
		return nil, err
	}
	return agentctx.NewConfig(
		agentctx.WithMaxTokens(c.MaxTokens),
		agentctx.WithInjectionBudget(c.InjectionBudget),
		agentctx.WithRelevanceThreshold(c.RelevanceThreshold),
		agentctx.WithMaxFiles(c.MaxFiles),
		agentctx.WithTokenCounter(counter),
	), nil
}
