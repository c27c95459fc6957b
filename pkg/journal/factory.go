package journal

import "fmt"

// Type 日志存储类型
type Type string

const (
	// TypeMemory 内存存储
	TypeMemory Type = "memory"
	// TypeSQLite SQLite 存储
	TypeSQLite Type = "sqlite"
)

// Config 日志配置
type Config struct {
	Type       Type   `koanf:"type"`
	SQLitePath string `koanf:"sqlite_path"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Type:       TypeMemory,
		SQLitePath: "ctxbudget.db",
	}
}

// New 根据配置创建审计日志
func New(cfg Config) (Journal, error) {
	switch cfg.Type {
	case TypeSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = DefaultConfig().SQLitePath
		}
		return NewSQLiteJournal(path)
	case TypeMemory, "":
		return NewMemoryJournal(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, cfg.Type)
	}
}
