// Package context 管理文档生成请求的上下文预算。
//
// 一次生成会话由一个 Manager 负责：先设置核心上下文，再从 RelevanceScanner
// 返回的候选文档中按相关性注入高价值内容，注入总量受 InjectionBudget 约束。
// 主要功能包括：
//
//   - Token 估算（字符数 / 3.5，或基于 tiktoken）
//   - 按阈值过滤、按相关性降序排序的候选注入
//   - 注入账本：去重、预算约束、移除与清空
//   - 为指定文档类型组合上下文
//   - 利用率报告
//
// # 基本用法
//
//	mgr, err := context.NewManager(scanner.NewMarkdownScanner(),
//	    context.WithConfig(context.NewConfig(
//	        context.WithInjectionBudget(20000),
//	    )),
//	)
//	if err != nil {
//	    return err
//	}
//
//	if err := mgr.CreateCoreContext("Project X overview"); err != nil {
//	    return err
//	}
//
//	n, err := mgr.InjectHighRelevanceMarkdownFiles(ctx, "docs", 60, 5)
//	if err != nil {
//	    return err // 扫描失败时账本不变
//	}
//
//	prompt, err := mgr.BuildContextForDocument("project-charter")
//
// # 上下文结构
//
// 没有注入内容时只返回核心上下文；否则格式如下：
//
//	<核心上下文>
//
//	---
//
//	## Injected Context (project-charter)
//
//	<!-- BEGIN INJECTED: a.md -->
//	<文档内容>
//	<!-- END INJECTED: a.md -->
//
// 条目按注入顺序排列，documentType 只作为标签，不影响包含哪些条目。
//
// Manager 没有内部锁，每个会话应持有独立实例。
package context
