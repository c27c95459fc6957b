package scanner

import "errors"

var (
	// ErrInvalidPattern glob 模式无效
	ErrInvalidPattern = errors.New("scanner: invalid glob pattern")

	// ErrNotDirectory 扫描根路径不是目录
	ErrNotDirectory = errors.New("scanner: root is not a directory")
)
