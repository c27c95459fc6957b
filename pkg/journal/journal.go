// Package journal 记录上下文注入会话的审计事件。
//
// 日志只保存统计信息（键、Token 数、预算），不保存注入的文本，
// 也不会用于在进程重启后恢复注入上下文。
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind 事件类型
type Kind string

const (
	// KindInjection 一次注入调用
	KindInjection Kind = "injection"
	// KindClear 清空注入上下文
	KindClear Kind = "clear"
	// KindRemoval 移除单个注入文档
	KindRemoval Kind = "removal"
)

// Event 审计事件
type Event struct {
	ID             string
	SessionID      string
	Kind           Kind
	Root           string
	Threshold      float64
	MaxFiles       int
	Injected       int
	TokensInjected int
	Keys           []string
	CreatedAt      time.Time
}

// Journal 审计日志接口
type Journal interface {
	// Record 追加事件，ID 和 CreatedAt 为空时自动填充
	Record(ctx context.Context, event *Event) error

	// List 按时间倒序列出事件。sessionID 为空时列出所有会话，limit <= 0 表示不限制
	List(ctx context.Context, sessionID string, limit int) ([]Event, error)

	// Close 释放资源
	Close() error
}

// prepare 校验事件并填充默认字段
func prepare(event *Event) error {
	if event == nil || event.SessionID == "" || event.Kind == "" {
		return ErrInvalidEvent
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return nil
}

// clone 复制事件，避免调用方修改内部切片
func clone(e Event) Event {
	if e.Keys != nil {
		keys := make([]string, len(e.Keys))
		copy(keys, e.Keys)
		e.Keys = keys
	}
	return e
}
