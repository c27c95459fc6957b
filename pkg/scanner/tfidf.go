package scanner

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// tfidfVectorizer TF-IDF 向量化器
//
// 每次扫描构建一个实例，用本次扫描的文档集合计算 IDF，不需要外部 API。
type tfidfVectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// newTFIDFVectorizer 根据文档集合构建词汇表和 IDF
func newTFIDFVectorizer(documents []string) *tfidfVectorizer {
	v := &tfidfVectorizer{vocabulary: make(map[string]int)}

	wordDocCount := make(map[string]int)
	for _, doc := range documents {
		seen := make(map[string]struct{})
		for _, token := range tokenize(doc) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			wordDocCount[token]++
		}
	}

	// 按字母顺序排序以保证一致性
	words := make([]string, 0, len(wordDocCount))
	for word := range wordDocCount {
		words = append(words, word)
	}
	sort.Strings(words)

	v.idf = make([]float64, len(words))
	n := float64(len(documents))
	for i, word := range words {
		v.vocabulary[word] = i
		v.idf[i] = math.Log(n/float64(wordDocCount[word])) + 1.0
	}

	return v
}

// transform 将文本转换为 L2 归一化的 TF-IDF 向量
func (v *tfidfVectorizer) transform(text string) []float64 {
	vector := make([]float64, len(v.vocabulary))

	tf := make(map[string]int)
	for _, token := range tokenize(text) {
		tf[token]++
	}

	var norm float64
	for word, count := range tf {
		idx, ok := v.vocabulary[word]
		if !ok {
			continue
		}
		// TF = log(1 + count)
		vector[idx] = math.Log(1+float64(count)) * v.idf[idx]
		norm += vector[idx] * vector[idx]
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] /= norm
		}
	}
	return vector
}

// cosineSimilarity 计算归一化向量的余弦相似度
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

// tokenize 分词
//
// 英文按非字母数字切分，中文字符单独成词。
func tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}
