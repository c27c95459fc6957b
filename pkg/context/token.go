package context

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultCharsPerToken 是字符估算使用的固定除数。
const DefaultCharsPerToken = 3.5

// TokenCounter 定义 Token 计数接口。
//
// 同一个 Manager 内核心上下文、账本和报告必须使用同一个计数器，
// 这样预算计算才能自洽。
type TokenCounter interface {
	// Count 返回给定文本的 Token 数量。
	Count(text string) int
}

// EstimatedCounter 使用字符估算实现 Token 计数。
//
// Count 计算 ceil(字符数 / CharsPerToken)，纯函数且不会失败。
type EstimatedCounter struct {
	// CharsPerToken 是每个 Token 的平均字符数。
	CharsPerToken float64
}

// NewEstimatedCounter 创建新的 EstimatedCounter。
func NewEstimatedCounter() *EstimatedCounter {
	return &EstimatedCounter{
		CharsPerToken: DefaultCharsPerToken,
	}
}

// Count 返回估算的 Token 数量。
func (c *EstimatedCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	divisor := c.CharsPerToken
	if divisor <= 0 {
		divisor = DefaultCharsPerToken
	}
	return int(math.Ceil(float64(utf8.RuneCountInString(text)) / divisor))
}

// TiktokenCounter 使用 tiktoken 实现精确的 Token 计数。
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	model    string
	fallback *EstimatedCounter
}

// TiktokenOption 配置 TiktokenCounter。
type TiktokenOption func(*TiktokenCounter)

// WithModel 设置 Token 编码使用的模型。
// 支持的模型：gpt-4、gpt-4o、gpt-3.5-turbo 等。
func WithModel(model string) TiktokenOption {
	return func(c *TiktokenCounter) {
		c.model = model
	}
}

// NewTiktokenCounter 创建新的 TiktokenCounter。
// 模型未知时降级到 cl100k_base 编码。
func NewTiktokenCounter(opts ...TiktokenOption) (*TiktokenCounter, error) {
	c := &TiktokenCounter{
		model:    "gpt-4o",
		fallback: NewEstimatedCounter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	encoding, err := tiktoken.EncodingForModel(c.model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	c.encoding = encoding
	return c, nil
}

// Count 返回给定文本的 Token 数量。
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.encoding == nil {
		return c.fallback.Count(text)
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// Model 返回编码对应的模型名称。
func (c *TiktokenCounter) Model() string {
	return c.model
}

// DefaultTokenCounter 返回默认的字符估算计数器。
func DefaultTokenCounter() TokenCounter {
	return NewEstimatedCounter()
}

// NewTokenCounter 按名称创建计数器。
//
// 支持 "estimate"（默认）和 "tiktoken"。显式要求 tiktoken 但编码无法加载时返回错误，
// 不会静默改用估算计数。
func NewTokenCounter(name, model string) (TokenCounter, error) {
	switch name {
	case CounterTiktoken:
		var opts []TiktokenOption
		if model != "" {
			opts = append(opts, WithModel(model))
		}
		counter, err := NewTiktokenCounter(opts...)
		if err != nil {
			return nil, fmt.Errorf("load tiktoken encoding for %q: %w", model, err)
		}
		return counter, nil
	default:
		return NewEstimatedCounter(), nil
	}
}

// 计数器名称
const (
	CounterEstimate = "estimate"
	CounterTiktoken = "tiktoken"
)

// 编译时接口检查
var _ TokenCounter = (*TiktokenCounter)(nil)
var _ TokenCounter = (*EstimatedCounter)(nil)
