// Package config 提供配置加载和管理功能
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/journal"
	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/otel"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "CTXBUDGET_"

// Config 全局配置结构
type Config struct {
	// Budget 上下文预算配置
	Budget BudgetConfig `koanf:"budget"`
	// Scanner 扫描配置
	Scanner ScannerConfig `koanf:"scanner"`
	// Journal 审计日志配置
	Journal journal.Config `koanf:"journal"`
	// Observability 可观测性配置
	Observability otel.Config `koanf:"observability"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Budget: BudgetConfig{
			MaxTokens:          128000,
			InjectionBudget:    40000,
			RelevanceThreshold: 60,
			MaxFiles:           5,
			TokenCounter:       "estimate",
			TiktokenModel:      "gpt-4o",
		},
		Scanner: ScannerConfig{
			Include:       []string{"**/*.md"},
			Exclude:       []string{"**/node_modules/**", "**/.git/**", "**/vendor/**"},
			MaxFileBytes:  1 << 20,
			WatchDebounce: 500 * time.Millisecond,
		},
		Journal:       journal.DefaultConfig(),
		Observability: otel.DefaultConfig(),
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if err := c.Budget.Validate(); err != nil {
		return err
	}
	if err := c.Scanner.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}

// Loader 配置加载器
type Loader struct {
	k *koanf.Koanf
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{
		k: koanf.New("."),
	}
}

// LoadFile 从 YAML 文件加载配置，文件不存在时忽略
func (l *Loader) LoadFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadEnv 从环境变量加载配置
//
// 双下划线分隔层级，单下划线保留在键名中：
// CTXBUDGET_BUDGET__MAX_TOKENS -> budget.max_tokens
func (l *Loader) LoadEnv(prefix string) error {
	return l.k.Load(env.Provider(prefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, prefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
}

// Unmarshal 将已加载的值覆盖到 cfg 上，未出现的键保持原值
func (l *Loader) Unmarshal(cfg *Config) error {
	return l.k.Unmarshal("", cfg)
}

// Get 获取配置值
func (l *Loader) Get(key string) interface{} {
	return l.k.Get(key)
}

// GetString 获取字符串配置值
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// Load 加载完整配置（默认值 + 文件 + 环境变量）
func Load(configPath string) (*Config, error) {
	loader := NewLoader()

	if configPath != "" {
		if err := loader.LoadFile(configPath); err != nil {
			return nil, err
		}
	}

	// 环境变量优先级更高
	if err := loader.LoadEnv(EnvPrefix); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := loader.Unmarshal(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults 为显式清空的字段补回默认值
func applyDefaults(cfg *Config) {
	defaults := Default()

	if len(cfg.Scanner.Include) == 0 {
		cfg.Scanner.Include = defaults.Scanner.Include
	}
	if cfg.Budget.TokenCounter == "" {
		cfg.Budget.TokenCounter = defaults.Budget.TokenCounter
	}
	if cfg.Journal.Type == "" {
		cfg.Journal.Type = defaults.Journal.Type
	}

	cfg.Observability = cfg.Observability.WithDefaults()
}
