package config

import "errors"

// 配置验证相关错误
var (
	// ErrInvalidMaxTokens 总 Token 上限无效
	ErrInvalidMaxTokens = errors.New("max tokens must be positive")
	// ErrInvalidInjectionBudget 注入预算无效
	ErrInvalidInjectionBudget = errors.New("injection budget must not be negative")
	// ErrInvalidThreshold 相关性阈值无效
	ErrInvalidThreshold = errors.New("relevance threshold must be between 0 and 100")
	// ErrInvalidMaxFiles 最大文件数无效
	ErrInvalidMaxFiles = errors.New("max files must be positive")
	// ErrInvalidTokenCounter 不支持的 Token 计数器
	ErrInvalidTokenCounter = errors.New("token counter must be estimate or tiktoken")
	// ErrInvalidMaxFileBytes 文件大小上限无效
	ErrInvalidMaxFileBytes = errors.New("max file bytes must not be negative")
	// ErrInvalidDebounce 去抖间隔无效
	ErrInvalidDebounce = errors.New("watch debounce must not be negative")
	// ErrUnsupportedFormat 不支持的配置文件格式
	ErrUnsupportedFormat = errors.New("unsupported config file format")
)
