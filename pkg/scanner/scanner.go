// Package scanner 提供基于文件系统的 Markdown 相关性扫描。
//
// MarkdownScanner 实现 context.RelevanceScanner：按 glob 模式发现文件，
// 解析 frontmatter，并为每个文件计算 [0,100] 的相关性分数。
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	agentctx "github.com/mdresch/requirements-gathering-agent-sub002/pkg/context"
	"github.com/mdresch/requirements-gathering-agent-sub002/pkg/otel"
)

// 默认扫描参数
var (
	DefaultInclude = []string{"**/*.md"}
	DefaultExclude = []string{"**/node_modules/**", "**/.git/**", "**/vendor/**"}
)

// DefaultMaxFileBytes 默认单文件大小上限
const DefaultMaxFileBytes int64 = 1 << 20

// MarkdownScanner 扫描目录下的 Markdown 文件
type MarkdownScanner struct {
	include      []string
	exclude      []string
	maxFileBytes int64
	keywords     []string
	query        string
	scorer       Scorer
	logger       otel.Logger
}

// Option 配置 MarkdownScanner
type Option func(*MarkdownScanner)

// WithInclude 设置包含的 glob 模式
func WithInclude(patterns ...string) Option {
	return func(s *MarkdownScanner) {
		s.include = patterns
	}
}

// WithExclude 设置排除的 glob 模式
func WithExclude(patterns ...string) Option {
	return func(s *MarkdownScanner) {
		s.exclude = patterns
	}
}

// WithMaxFileBytes 设置单文件大小上限，0 表示不限制
func WithMaxFileBytes(n int64) Option {
	return func(s *MarkdownScanner) {
		s.maxFileBytes = n
	}
}

// WithKeywords 设置默认评分器使用的关键词
func WithKeywords(keywords ...string) Option {
	return func(s *MarkdownScanner) {
		s.keywords = keywords
	}
}

// WithQuery 设置默认评分器使用的 TF-IDF 查询
func WithQuery(query string) Option {
	return func(s *MarkdownScanner) {
		s.query = query
	}
}

// WithScorer 设置自定义评分器，覆盖关键词和查询设置
func WithScorer(scorer Scorer) Option {
	return func(s *MarkdownScanner) {
		s.scorer = scorer
	}
}

// WithLogger 设置日志器
func WithLogger(logger otel.Logger) Option {
	return func(s *MarkdownScanner) {
		s.logger = logger
	}
}

// NewMarkdownScanner 创建 Markdown 扫描器
func NewMarkdownScanner(opts ...Option) (*MarkdownScanner, error) {
	s := &MarkdownScanner{
		include:      DefaultInclude,
		exclude:      DefaultExclude,
		maxFileBytes: DefaultMaxFileBytes,
	}

	for _, opt := range opts {
		opt(s)
	}

	if len(s.include) == 0 {
		s.include = DefaultInclude
	}
	for _, p := range append(append([]string{}, s.include...), s.exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}
	if s.scorer == nil {
		s.scorer = NewCompositeScorer(s.keywords, s.query)
	}
	if s.logger == nil {
		s.logger = otel.NewNoopLogger()
	}

	return s, nil
}

// Scan 扫描 rootPath 并返回候选文档
//
// 候选路径为 rootPath 与文件相对路径拼接后的正斜杠路径，按字典序排列，
// 因此不同根目录下同名的文件得到不同的账本键。include/exclude 模式和评分
// 仍使用相对路径。任一文件读取失败或 ctx 取消都会使整个扫描失败。
func (s *MarkdownScanner) Scan(ctx context.Context, rootPath string) ([]agentctx.CandidateDocument, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, rootPath)
	}

	fsys := os.DirFS(rootPath)
	var paths []string

	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !s.matches(p) {
			return nil
		}

		if s.maxFileBytes > 0 {
			fi, err := d.Info()
			if err != nil {
				return err
			}
			if fi.Size() > s.maxFileBytes {
				s.logger.Debug("skipping large file", "path", p, "bytes", fi.Size(), "limit", s.maxFileBytes)
				return nil
			}
		}

		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}

		fm, body := splitFrontmatter(string(content))
		docs = append(docs, Document{Path: p, Body: body, Frontmatter: fm})
	}

	scores := s.scorer.Score(docs)

	candidates := make([]agentctx.CandidateDocument, 0, len(docs))
	for i, doc := range docs {
		score := clampScore(scores[i])
		if override, ok := frontmatterRelevance(doc.Frontmatter); ok {
			score = override
		}
		candidates = append(candidates, agentctx.CandidateDocument{
			Path:           filepath.ToSlash(filepath.Join(rootPath, filepath.FromSlash(doc.Path))),
			Text:           doc.Body,
			RelevanceScore: score,
		})
	}

	s.logger.Debug("markdown scan finished", "root", rootPath, "files", len(candidates))
	return candidates, nil
}

// matches 判断路径是否命中包含模式且未被排除
func (s *MarkdownScanner) matches(p string) bool {
	included := false
	for _, pattern := range s.include {
		if ok, _ := doublestar.Match(pattern, p); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}

	for _, pattern := range s.exclude {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return false
		}
	}
	return true
}

var _ agentctx.RelevanceScanner = (*MarkdownScanner)(nil)
