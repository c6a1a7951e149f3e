package textproc

import (
	"strings"

	"github.com/kljensen/snowball"
)

// Preprocessor 句子预处理器
// 依次执行：转小写、去除纯标点词元、去除停用词，可选执行词干提取
type Preprocessor struct {
	stopwords StopwordSet // 停用词集合（只读）
	stem      bool        // 是否进行词干提取
	language  string      // 词干提取语言
}

// PreprocessorOption 预处理器配置选项
type PreprocessorOption func(*Preprocessor)

// WithStemming 设置是否启用词干提取
func WithStemming(enabled bool) PreprocessorOption {
	return func(p *Preprocessor) {
		p.stem = enabled
	}
}

// WithStemLanguage 设置词干提取语言
func WithStemLanguage(language string) PreprocessorOption {
	return func(p *Preprocessor) {
		if language != "" {
			p.language = language
		}
	}
}

// NewPreprocessor 创建预处理器
func NewPreprocessor(stopwords StopwordSet, opts ...PreprocessorOption) *Preprocessor {
	p := &Preprocessor{
		stopwords: stopwords,
		language:  "english",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process 预处理句子集合
// 返回新的句子集合，长度与输入一致；过滤后为空的句子保留为空切片，保证下标与原文对齐
func (p *Preprocessor) Process(sentences [][]string) [][]string {
	out := make([][]string, len(sentences))
	for i, sentence := range sentences {
		tokens := make([]string, 0, len(sentence))
		for _, token := range sentence {
			token = strings.ToLower(token)
			if !hasASCIIAlnum(token) {
				continue
			}
			if p.stopwords.Contains(token) {
				continue
			}
			if p.stem {
				token = p.stemToken(token)
			}
			tokens = append(tokens, token)
		}
		out[i] = tokens
	}
	return out
}

// stemToken 提取词干，失败时保留原词
func (p *Preprocessor) stemToken(token string) string {
	stemmed, err := snowball.Stem(token, p.language, true)
	if err != nil || stemmed == "" {
		return token
	}
	return stemmed
}

// Preprocess 使用默认选项预处理句子集合
func Preprocess(sentences [][]string, stopwords StopwordSet) [][]string {
	return NewPreprocessor(stopwords).Process(sentences)
}

// hasASCIIAlnum 判断词元是否包含至少一个ASCII字母或数字
func hasASCIIAlnum(token string) bool {
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return true
		}
	}
	return false
}
