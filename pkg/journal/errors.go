package journal

import "errors"

var (
	// ErrInvalidEvent 事件缺少会话 ID 或类型
	ErrInvalidEvent = errors.New("journal: invalid event")

	// ErrClosed 日志已关闭
	ErrClosed = errors.New("journal: closed")

	// ErrUnsupportedType 不支持的日志类型
	ErrUnsupportedType = errors.New("journal: unsupported type")
)
