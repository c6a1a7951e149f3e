// Package keyword 基于词共现图和HITS算法的关键词抽取
package keyword

import (
	"strings"

	"github.com/fyerfyer/doc-summarizer/internal/textproc"
)

// DefaultLimit 默认返回的关键词数量
const DefaultLimit = 20

// Keywords 将排序后的词项映射回字符串，截断到 min(limit, 词表大小)
func Keywords(ranked []RankedTerm, vocab *textproc.Vocabulary, limit int) []string {
	if limit < 0 {
		limit = 0
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = vocab.Term(ranked[i].Index)
	}
	return out
}

// Extract 从预处理后的句子中抽取关键词
// 空文档返回空列表
func Extract(sentences [][]string, limit int) []string {
	vocab := textproc.NewVocabulary(sentences)
	graph := BuildGraph(sentences, vocab)
	return Keywords(Rank(graph, DefaultIterations), vocab, limit)
}

// JoinKeywords 以逗号分隔拼接关键词，用于展示
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ", ")
}
