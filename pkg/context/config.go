package context

import (
	"fmt"

	coreerrors "github.com/mdresch/requirements-gathering-agent-sub002/pkg/core/errors"
)

// 相关性分数范围
const (
	MinRelevance = 0.0
	MaxRelevance = 100.0
)

// Config 保存上下文预算管理的配置。
type Config struct {
	// MaxTokens 是下游生成请求的总 Token 上限。
	// 仅用于报告和指标，与注入预算相互独立。
	MaxTokens int

	// InjectionBudget 是注入内容池可占用的 Token 上限，
	// 不包含核心上下文。
	InjectionBudget int

	// RelevanceThreshold 是 CLI 和示例使用的默认相关性阈值（0-100）。
	RelevanceThreshold float64

	// MaxFiles 是单次注入的默认最大文件数。
	MaxFiles int

	// TokenCounter 是要使用的 Token 计数器。
	TokenCounter TokenCounter
}

// ConfigOption 配置 Config。
type ConfigOption func(*Config)

// WithMaxTokens 设置总 Token 上限。
func WithMaxTokens(tokens int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = tokens
	}
}

// WithInjectionBudget 设置注入预算。
func WithInjectionBudget(tokens int) ConfigOption {
	return func(c *Config) {
		c.InjectionBudget = tokens
	}
}

// WithRelevanceThreshold 设置默认相关性阈值。
func WithRelevanceThreshold(threshold float64) ConfigOption {
	return func(c *Config) {
		c.RelevanceThreshold = threshold
	}
}

// WithMaxFiles 设置默认最大文件数。
func WithMaxFiles(n int) ConfigOption {
	return func(c *Config) {
		c.MaxFiles = n
	}
}

// WithTokenCounter 设置 Token 计数器。
func WithTokenCounter(counter TokenCounter) ConfigOption {
	return func(c *Config) {
		c.TokenCounter = counter
	}
}

// DefaultConfig 返回具有合理默认值的 Config。
func DefaultConfig() *Config {
	return &Config{
		MaxTokens:          128000,
		InjectionBudget:    40000,
		RelevanceThreshold: 60,
		MaxFiles:           5,
		TokenCounter:       nil, // 需要时使用 DefaultTokenCounter()
	}
}

// NewConfig 使用给定的选项创建新的 Config。
func NewConfig(opts ...ConfigOption) *Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate 验证配置。
func (c *Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be positive", coreerrors.ErrInvalidConfig)
	}
	if c.InjectionBudget < 0 {
		return fmt.Errorf("%w: injection budget must not be negative", coreerrors.ErrInvalidConfig)
	}
	if c.RelevanceThreshold < MinRelevance || c.RelevanceThreshold > MaxRelevance {
		return fmt.Errorf("%w: relevance threshold must be between 0 and 100", coreerrors.ErrInvalidConfig)
	}
	if c.MaxFiles <= 0 {
		return fmt.Errorf("%w: max files must be positive", coreerrors.ErrInvalidConfig)
	}
	return nil
}

// GetTokenCounter 返回配置的 Token 计数器或默认计数器。
func (c *Config) GetTokenCounter() TokenCounter {
	if c.TokenCounter != nil {
		return c.TokenCounter
	}
	return DefaultTokenCounter()
}
