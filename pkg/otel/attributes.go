package otel

import "go.opentelemetry.io/otel/attribute"

// 预定义的语义属性键
const (
	// 会话相关属性
	AttrSessionID    = "context.session_id"
	AttrDocumentType = "context.document_type"

	// 注入相关属性
	AttrRootPath        = "context.root_path"
	AttrThreshold       = "context.relevance_threshold"
	AttrMaxFiles        = "context.max_files"
	AttrInjectedCount   = "context.injected_count"
	AttrTokensInjected  = "context.tokens_injected"
	AttrBudgetRemaining = "context.budget_remaining"
	AttrCandidateCount  = "context.candidate_count"

	// Error 相关属性
	AttrErrorType    = "error.type"
	AttrErrorMessage = "error.message"
)

// SessionID 创建会话 ID 属性
func SessionID(id string) attribute.KeyValue {
	return attribute.String(AttrSessionID, id)
}

// DocumentType 创建文档类型属性
func DocumentType(docType string) attribute.KeyValue {
	return attribute.String(AttrDocumentType, docType)
}

// InjectionRequest 创建注入请求属性
func InjectionRequest(root string, threshold float64, maxFiles int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRootPath, root),
		attribute.Float64(AttrThreshold, threshold),
		attribute.Int(AttrMaxFiles, maxFiles),
	}
}

// InjectionResult 创建注入结果属性
func InjectionResult(injected, tokens, remaining int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrInjectedCount, injected),
		attribute.Int(AttrTokensInjected, tokens),
		attribute.Int(AttrBudgetRemaining, remaining),
	}
}

// CandidateCount 创建候选数量属性
func CandidateCount(n int) attribute.KeyValue {
	return attribute.Int(AttrCandidateCount, n)
}

// ErrorAttrs 创建错误属性
func ErrorAttrs(errType, message string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrErrorType, errType),
		attribute.String(AttrErrorMessage, message),
	}
}
