package context

import (
	"fmt"

	coreerrors "github.com/mdresch/requirements-gathering-agent-sub002/pkg/core/errors"
)

// 上下文预算相关错误（便于调用方直接使用 errors.Is 判断）
var (
	// ErrInvalidInput 核心上下文文本为空
	ErrInvalidInput = coreerrors.ErrInvalidInput
	// ErrNotInitialized 核心上下文尚未创建
	ErrNotInitialized = coreerrors.ErrNotInitialized
	// ErrInvalidArgument 阈值或文件数量无效
	ErrInvalidArgument = coreerrors.ErrInvalidArgument
	// ErrScanFailed 扫描失败
	ErrScanFailed = coreerrors.ErrScanFailed
	// ErrInvalidCandidate 候选文档无效
	ErrInvalidCandidate = coreerrors.ErrInvalidCandidate
)

// ScanError 包装 RelevanceScanner 返回的错误。
//
// errors.Is(err, ErrScanFailed) 始终成立，同时保留原始错误链。
type ScanError struct {
	// Root 是扫描的根路径。
	Root string
	// Err 是原始错误。
	Err error
}

// Error 实现 error 接口。
func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %q: %v", e.Root, e.Err)
}

// Unwrap 返回原始错误。
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is 使 ScanError 匹配 ErrScanFailed。
func (e *ScanError) Is(target error) bool {
	return target == coreerrors.ErrScanFailed
}
