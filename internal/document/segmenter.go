package document

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// wordPattern 词元切分规则：单词（允许内部撇号和连字符）、数字，其余非空白字符各自成为一个标点词元
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]`)

// Sentence 切分后的句子
type Sentence struct {
	Index    int      `json:"index"`    // 句子在文档中的下标
	Original string   `json:"original"` // 原文片段，包含句后空白
	Tokens   []string `json:"tokens"`   // 词元序列
}

// sentenceTokenizer 句子边界识别接口
type sentenceTokenizer interface {
	Tokenize(text string) []*sentences.Sentence
}

// Segmenter 句子切分器
// 按punkt模型识别句子边界，再对每个句子做词元切分
// 所有句子的Original按顺序拼接可还原输入文本
type Segmenter struct {
	tokenizer sentenceTokenizer
}

// NewSegmenter 创建英文句子切分器
func NewSegmenter() (*Segmenter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create sentence tokenizer: %w", err)
	}
	return &Segmenter{tokenizer: tokenizer}, nil
}

// Segment 将文本切分为句子
func (s *Segmenter) Segment(text string) []Sentence {
	var starts []int
	cursor := 0
	for _, raw := range s.tokenizer.Tokenize(text) {
		trimmed := strings.TrimSpace(raw.Text)
		if trimmed == "" {
			continue
		}
		pos := strings.Index(text[cursor:], trimmed)
		if pos < 0 {
			continue
		}
		starts = append(starts, cursor+pos)
		cursor += pos + len(trimmed)
	}

	if len(starts) == 0 {
		if strings.TrimSpace(text) == "" {
			return []Sentence{}
		}
		starts = []int{0}
	}
	// 首句从文本开头计起，保证可逆
	starts[0] = 0

	out := make([]Sentence, len(starts))
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		original := text[start:end]
		out[i] = Sentence{
			Index:    i,
			Original: original,
			Tokens:   Tokenize(original),
		}
	}
	return out
}

// Tokenize 将句子切分为词元
func Tokenize(sentence string) []string {
	tokens := wordPattern.FindAllString(sentence, -1)
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// Tokens 提取所有句子的词元序列
func Tokens(sentences []Sentence) [][]string {
	out := make([][]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Tokens
	}
	return out
}

// Reconstruct 按下标顺序拼接原文句子，生成摘要文本
func Reconstruct(sentences []Sentence, indices []int) string {
	var b strings.Builder
	for _, idx := range indices {
		if idx < 0 || idx >= len(sentences) {
			continue
		}
		b.WriteString(sentences[idx].Original)
	}
	return strings.TrimSpace(b.String())
}
