package config

import "time"

// ScannerConfig Markdown 扫描配置
type ScannerConfig struct {
	// Include 参与扫描的 glob 模式（相对根目录）
	// 默认: ["**/*.md"]
	Include []string `koanf:"include"`
	// Exclude 排除的 glob 模式
	Exclude []string `koanf:"exclude"`
	// MaxFileBytes 单个文件大小上限，0 表示不限制
	// 默认: 1MiB
	MaxFileBytes int64 `koanf:"max_file_bytes"`
	// Keywords 用于相关性评分的关键词
	Keywords []string `koanf:"keywords"`
	// Query 用于 TF-IDF 相似度评分的查询文本
	Query string `koanf:"query"`
	// WatchDebounce 文件变更去抖间隔
	// 默认: 500ms
	WatchDebounce time.Duration `koanf:"watch_debounce"`
}

// Validate 验证扫描配置
func (c *ScannerConfig) Validate() error {
	if c.MaxFileBytes < 0 {
		return ErrInvalidMaxFileBytes
	}
	if c.WatchDebounce < 0 {
		return ErrInvalidDebounce
	}
	return nil
}
