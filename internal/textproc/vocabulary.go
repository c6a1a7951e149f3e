package textproc

import "sort"

// Vocabulary 文档词表
// 词项去重后按字母序排列，词项与索引的映射在一次计算内保持稳定，构建后不再修改
type Vocabulary struct {
	terms []string       // 按字母序排列的词项
	index map[string]int // 词项到索引的映射
}

// NewVocabulary 从句子集合构建词表
func NewVocabulary(sentences [][]string) *Vocabulary {
	seen := make(map[string]struct{})
	terms := make([]string, 0)
	for _, sentence := range sentences {
		for _, token := range sentence {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			terms = append(terms, token)
		}
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}

	return &Vocabulary{
		terms: terms,
		index: index,
	}
}

// Len 返回词表大小
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Term 返回索引对应的词项
func (v *Vocabulary) Term(i int) string {
	return v.terms[i]
}

// Index 返回词项的索引
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Terms 返回词项列表的副本
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}
