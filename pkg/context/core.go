package context

// CoreContext 是每次组合时都会包含的基础内容。
type CoreContext struct {
	// Text 是核心上下文文本。
	Text string
	// TokenCount 在创建时由 TokenCounter 计算。
	TokenCount int
}

// CoreContextStore 保存会话的核心上下文。
//
// 两次 Initialize 之间内容不可变；再次 Initialize 会整体替换。
type CoreContextStore struct {
	counter TokenCounter
	core    *CoreContext
}

// NewCoreContextStore 创建新的 CoreContextStore。
func NewCoreContextStore(counter TokenCounter) *CoreContextStore {
	if counter == nil {
		counter = DefaultTokenCounter()
	}
	return &CoreContextStore{counter: counter}
}

// Initialize 设置核心上下文。空字符串返回 ErrInvalidInput，原状态保持不变；
// 只含空白的文本是合法内容，按原样计数。
func (s *CoreContextStore) Initialize(text string) error {
	if text == "" {
		return ErrInvalidInput
	}

	s.core = &CoreContext{
		Text:       text,
		TokenCount: s.counter.Count(text),
	}
	return nil
}

// Initialized 返回核心上下文是否已创建。
func (s *CoreContextStore) Initialized() bool {
	return s.core != nil
}

// TokenCount 返回核心上下文的 Token 数量，未初始化时为 0。
func (s *CoreContextStore) TokenCount() int {
	if s.core == nil {
		return 0
	}
	return s.core.TokenCount
}

// Text 返回核心上下文文本。
func (s *CoreContextStore) Text() string {
	if s.core == nil {
		return ""
	}
	return s.core.Text
}

// Get 返回核心上下文的副本。
func (s *CoreContextStore) Get() (CoreContext, bool) {
	if s.core == nil {
		return CoreContext{}, false
	}
	return *s.core, true
}
