package context

import (
	"fmt"
	"strings"
)

// 注入内容的结构标记
const (
	// InjectedSectionHeader 分隔核心上下文与注入内容。
	InjectedSectionHeader = "## Injected Context"

	injectedBeginFormat = "<!-- BEGIN INJECTED: %s -->"
	injectedEndFormat   = "<!-- END INJECTED: %s -->"
)

// Structurer 定义将核心上下文与注入条目组合为最终文本的接口。
type Structurer interface {
	// Structure 组合上下文，必须是纯函数。
	Structure(core string, entries []InjectedEntry, documentType string) string
}

// DefaultStructurer 用 HTML 注释标记包裹每个注入条目。
//
// 输出格式：
//
//	<核心上下文>
//
//	---
//
//	## Injected Context (project-charter)
//
//	<!-- BEGIN INJECTED: a.md -->
//	<内容>
//	<!-- END INJECTED: a.md -->
type DefaultStructurer struct{}

// NewDefaultStructurer 创建新的 DefaultStructurer。
func NewDefaultStructurer() *DefaultStructurer {
	return &DefaultStructurer{}
}

// Structure 组合上下文。没有注入条目时只返回核心上下文。
func (s *DefaultStructurer) Structure(core string, entries []InjectedEntry, documentType string) string {
	if len(entries) == 0 {
		return core
	}

	var b strings.Builder
	b.WriteString(core)
	b.WriteString("\n\n---\n\n")
	b.WriteString(InjectedSectionHeader)
	if documentType != "" {
		b.WriteString(" (" + documentType + ")")
	}
	b.WriteString("\n")

	for _, e := range entries {
		b.WriteString("\n")
		b.WriteString(BeginMarker(e.Key))
		b.WriteString("\n")
		b.WriteString(e.Text)
		if !strings.HasSuffix(e.Text, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(EndMarker(e.Key))
		b.WriteString("\n")
	}

	return b.String()
}

// BeginMarker 返回条目的起始标记。
func BeginMarker(key string) string {
	return fmt.Sprintf(injectedBeginFormat, key)
}

// EndMarker 返回条目的结束标记。
func EndMarker(key string) string {
	return fmt.Sprintf(injectedEndFormat, key)
}

// 编译时接口检查
var _ Structurer = (*DefaultStructurer)(nil)
