package journal

import (
	"context"
	"sync"
)

// MemoryJournal 内存审计日志
//
// 适用于测试和单进程场景，数据随进程退出丢失。
type MemoryJournal struct {
	events []Event
	closed bool
	mu     sync.RWMutex
}

// NewMemoryJournal 创建内存审计日志
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Record 追加事件
func (j *MemoryJournal) Record(ctx context.Context, event *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prepare(event); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return ErrClosed
	}
	j.events = append(j.events, clone(*event))
	return nil
}

// List 按时间倒序列出事件
func (j *MemoryJournal) List(ctx context.Context, sessionID string, limit int) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return nil, ErrClosed
	}

	var results []Event
	for i := len(j.events) - 1; i >= 0; i-- {
		e := j.events[i]
		if sessionID != "" && e.SessionID != sessionID {
			continue
		}
		results = append(results, clone(e))
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Close 关闭日志
func (j *MemoryJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	return nil
}

var _ Journal = (*MemoryJournal)(nil)
