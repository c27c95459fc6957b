package context

import (
	"context"
	"fmt"
	"math"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// CandidateDocument 是扫描器返回的候选文档。
type CandidateDocument struct {
	// Path 在一次扫描内唯一。
	Path string

	// Text 是文档内容。
	Text string

	// RelevanceScore 取值范围 [0,100]。
	RelevanceScore float64
}

// Validate 校验候选文档。
func (d CandidateDocument) Validate() error {
	if strings.TrimSpace(d.Path) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidCandidate)
	}
	if math.IsNaN(d.RelevanceScore) || d.RelevanceScore < MinRelevance || d.RelevanceScore > MaxRelevance {
		return fmt.Errorf("%w: %s has relevance score %v outside [0,100]", ErrInvalidCandidate, d.Path, d.RelevanceScore)
	}
	return nil
}

// Key 返回候选文档在账本中的键。
func (d CandidateDocument) Key() string {
	return DeriveKey(d.Path)
}

// DeriveKey 从路径派生账本键：统一为正斜杠并清理多余分隔符。
func DeriveKey(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// RelevanceScanner 定义候选文档扫描接口。
//
// Scan 是注入流程中唯一的阻塞调用，超时策略由实现方决定。
type RelevanceScanner interface {
	// Scan 枚举 rootPath 下的候选文档。
	Scan(ctx context.Context, rootPath string) ([]CandidateDocument, error)
}

// ScannerFunc 将函数适配为 RelevanceScanner。
type ScannerFunc func(ctx context.Context, rootPath string) ([]CandidateDocument, error)

// Scan 调用函数本身。
func (f ScannerFunc) Scan(ctx context.Context, rootPath string) ([]CandidateDocument, error) {
	return f(ctx, rootPath)
}

// rankCandidates 校验、过滤并排序候选文档。
//
// 只保留分数不低于阈值且正文非空白的文档，按分数降序排列，分数相同时保持输入顺序。
// 空白正文与低分文档一样计入 filtered，不占用文件数量配额。
func rankCandidates(candidates []CandidateDocument, threshold float64) ([]CandidateDocument, int, error) {
	ranked := make([]CandidateDocument, 0, len(candidates))
	filtered := 0

	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, 0, err
		}
		if c.RelevanceScore < threshold || strings.TrimSpace(c.Text) == "" {
			filtered++
			continue
		}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	return ranked, filtered, nil
}

// 编译时接口检查
var _ RelevanceScanner = ScannerFunc(nil)
