package scanner

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var errNoClosingDelimiter = errors.New("no closing frontmatter delimiter")

// splitFrontmatter 拆分 YAML frontmatter 与正文
//
// 没有 frontmatter 或解析失败时返回 nil 和完整内容。
func splitFrontmatter(content string) (map[string]any, string) {
	if !strings.HasPrefix(content, "---\n") && !strings.HasPrefix(content, "---\r\n") {
		return nil, content
	}
	fm, body, err := extractFrontmatter(content)
	if err != nil {
		return nil, content
	}
	return fm, body
}

// extractFrontmatter 解析以 --- 包围的 YAML frontmatter
func extractFrontmatter(content string) (map[string]any, string, error) {
	const delimiter = "---"

	start := len(delimiter)
	if len(content) > start && content[start] == '\r' {
		start++
	}
	if len(content) > start && content[start] == '\n' {
		start++
	}

	closeIdx := strings.Index(content[start:], "\n"+delimiter)
	if closeIdx == -1 {
		return nil, content, errNoClosingDelimiter
	}

	yamlContent := content[start : start+closeIdx]

	bodyStart := start + closeIdx + 1 + len(delimiter)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}

	body := ""
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return nil, content, fmt.Errorf("parse YAML frontmatter: %w", err)
	}

	return fm, body, nil
}

// priorityScores frontmatter priority 到相关性分数的映射
var priorityScores = map[string]float64{
	"critical": 100,
	"high":     90,
	"medium":   60,
	"low":      30,
}

// frontmatterRelevance 读取 frontmatter 中显式声明的相关性
//
// relevance 优先于 priority；数值会被限制在 [0,100]。
func frontmatterRelevance(fm map[string]any) (float64, bool) {
	if fm == nil {
		return 0, false
	}

	switch v := fm["relevance"].(type) {
	case int:
		return clampScore(float64(v)), true
	case float64:
		return clampScore(v), true
	}

	if p, ok := fm["priority"].(string); ok {
		if score, ok := priorityScores[strings.ToLower(strings.TrimSpace(p))]; ok {
			return score, true
		}
	}

	return 0, false
}

// frontmatterKeywords 读取 frontmatter 中的 keywords/tags 列表
func frontmatterKeywords(fm map[string]any) []string {
	var out []string
	for _, key := range []string{"keywords", "tags"} {
		list, ok := fm[key].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
