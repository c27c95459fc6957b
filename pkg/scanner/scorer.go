package scanner

import (
	"math"
	"strings"
)

// DefaultScore 没有任何评分信号时使用的分数
const DefaultScore = 50.0

// Document 待评分的 Markdown 文档
type Document struct {
	// Path 相对根目录的路径（正斜杠）
	Path string
	// Body 去掉 frontmatter 后的正文
	Body string
	// Frontmatter 解析出的 YAML frontmatter，可能为 nil
	Frontmatter map[string]any
}

// headings 返回正文中的 Markdown 标题文本
func (d Document) headings() []string {
	var out []string
	for _, line := range strings.Split(d.Body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			out = append(out, strings.TrimSpace(strings.TrimLeft(line, "#")))
		}
	}
	return out
}

// Scorer 为一批文档计算 [0,100] 的相关性分数
//
// 批量接口便于基于语料的评分（如 TF-IDF）。返回的切片与输入一一对应。
type Scorer interface {
	Score(docs []Document) []float64
}

// KeywordScorer 基于关键词命中位置评分
//
// 每个关键词取命中的最高权重：路径 1.0，标题或 frontmatter 关键词 0.8，正文 0.5。
// 分数为所有关键词的平均值乘以 100。
type KeywordScorer struct {
	Keywords []string
}

// NewKeywordScorer 创建关键词评分器
func NewKeywordScorer(keywords ...string) *KeywordScorer {
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			normalized = append(normalized, k)
		}
	}
	return &KeywordScorer{Keywords: normalized}
}

// Score 计算关键词分数
func (s *KeywordScorer) Score(docs []Document) []float64 {
	scores := make([]float64, len(docs))
	if len(s.Keywords) == 0 {
		return scores
	}

	for i, doc := range docs {
		path := strings.ToLower(doc.Path)
		headings := strings.ToLower(strings.Join(append(doc.headings(), frontmatterKeywords(doc.Frontmatter)...), "\n"))
		body := strings.ToLower(doc.Body)

		var total float64
		for _, k := range s.Keywords {
			switch {
			case strings.Contains(path, k):
				total += 1.0
			case strings.Contains(headings, k):
				total += 0.8
			case strings.Contains(body, k):
				total += 0.5
			}
		}
		scores[i] = clampScore(total / float64(len(s.Keywords)) * 100)
	}
	return scores
}

// TFIDFScorer 基于与查询文本的 TF-IDF 余弦相似度评分
type TFIDFScorer struct {
	Query string
}

// NewTFIDFScorer 创建 TF-IDF 评分器
func NewTFIDFScorer(query string) *TFIDFScorer {
	return &TFIDFScorer{Query: query}
}

// Score 计算相似度分数
func (s *TFIDFScorer) Score(docs []Document) []float64 {
	scores := make([]float64, len(docs))
	if strings.TrimSpace(s.Query) == "" || len(docs) == 0 {
		return scores
	}

	corpus := make([]string, 0, len(docs)+1)
	for _, doc := range docs {
		corpus = append(corpus, doc.Body)
	}
	corpus = append(corpus, s.Query)

	v := newTFIDFVectorizer(corpus)
	query := v.transform(s.Query)
	for i, doc := range docs {
		scores[i] = clampScore(cosineSimilarity(query, v.transform(doc.Body)) * 100)
	}
	return scores
}

// CompositeScorer 按权重组合关键词与 TF-IDF 分数
//
// 未配置关键词或查询的分量不参与加权；两者都未配置时所有文档得到 DefaultScore。
type CompositeScorer struct {
	keyword       *KeywordScorer
	tfidf         *TFIDFScorer
	keywordWeight float64
	tfidfWeight   float64
}

// NewCompositeScorer 创建组合评分器（关键词 0.6，TF-IDF 0.4）
func NewCompositeScorer(keywords []string, query string) *CompositeScorer {
	return &CompositeScorer{
		keyword:       NewKeywordScorer(keywords...),
		tfidf:         NewTFIDFScorer(query),
		keywordWeight: 0.6,
		tfidfWeight:   0.4,
	}
}

// Score 计算组合分数
func (s *CompositeScorer) Score(docs []Document) []float64 {
	useKeywords := len(s.keyword.Keywords) > 0
	useTFIDF := strings.TrimSpace(s.tfidf.Query) != ""

	scores := make([]float64, len(docs))
	if !useKeywords && !useTFIDF {
		for i := range scores {
			scores[i] = DefaultScore
		}
		return scores
	}

	var kw, tf []float64
	var weight float64
	if useKeywords {
		kw = s.keyword.Score(docs)
		weight += s.keywordWeight
	}
	if useTFIDF {
		tf = s.tfidf.Score(docs)
		weight += s.tfidfWeight
	}

	for i := range docs {
		var sum float64
		if kw != nil {
			sum += kw[i] * s.keywordWeight
		}
		if tf != nil {
			sum += tf[i] * s.tfidfWeight
		}
		scores[i] = clampScore(sum / weight)
	}
	return scores
}

// clampScore 将分数限制在 [0,100]，NaN 视为 0
func clampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

var (
	_ Scorer = (*KeywordScorer)(nil)
	_ Scorer = (*TFIDFScorer)(nil)
	_ Scorer = (*CompositeScorer)(nil)
)
