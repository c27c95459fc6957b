// Package errors 定义上下文预算管理器的通用错误类型
package errors

import (
	"context"
	"errors"
	"fmt"
)

// 通用错误
var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("invalid configuration")
)

// 上下文预算相关错误
var (
	// ErrInvalidInput 核心上下文文本为空
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotInitialized 核心上下文尚未创建
	ErrNotInitialized = errors.New("core context not initialized")
	// ErrInvalidArgument 阈值或文件数量超出有效范围
	ErrInvalidArgument = errors.New("invalid argument")
)

// 扫描相关错误
var (
	// ErrScanFailed 候选文档扫描失败
	ErrScanFailed = errors.New("relevance scan failed")
	// ErrInvalidCandidate 扫描器返回了无效的候选文档
	ErrInvalidCandidate = errors.New("invalid candidate document")
)

// WrapError 包装错误并添加上下文信息
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// IsRetryable 判断错误是否可重试
//
// 扫描超时可以重试；调用方主动取消和无效输入不可重试。
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsFatal 判断错误是否为致命错误（不可恢复）
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidCandidate)
}
