package services

import (
	"context"
	"fmt"

	"github.com/fyerfyer/doc-summarizer/internal/document"
	"github.com/fyerfyer/doc-summarizer/internal/keyword"
	"github.com/fyerfyer/doc-summarizer/internal/summary"
	"github.com/fyerfyer/doc-summarizer/internal/textproc"
	"github.com/sirupsen/logrus"
)

// DefaultPercentage 默认摘要比例
const DefaultPercentage = 50

// SentenceScore 单个句子的打分结果
type SentenceScore struct {
	Index    int     `json:"index"`    // 句子下标
	Text     string  `json:"text"`     // 句子原文
	Score    float64 `json:"score"`    // 综合得分
	Selected bool    `json:"selected"` // 是否被选入摘要
}

// AnalysisStats 原文与摘要的文本统计
type AnalysisStats struct {
	Source  textproc.TextStats `json:"source"`
	Summary textproc.TextStats `json:"summary"`
}

// Analysis 一次文本分析的结果
type Analysis struct {
	Summary       string          `json:"summary"`             // 摘要文本，按原文顺序拼接
	Selection     []int           `json:"selection"`           // 选中的句子下标
	Keywords      []string        `json:"keywords"`            // 关键词，按得分降序
	SentenceCount int             `json:"sentence_count"`      // 句子总数
	Percentage    int             `json:"percentage"`          // 实际使用的摘要比例
	Sentences     []SentenceScore `json:"sentences,omitempty"` // 句子得分明细
	Stats         AnalysisStats   `json:"stats"`               // 字符、单词和行数统计
	Warnings      []string        `json:"warnings,omitempty"`  // 非致命警告
}

// SummaryService 摘要服务
// 负责切句、预处理、摘要和关键词抽取，除停用词表外无状态
type SummaryService struct {
	segmenter         *document.Segmenter
	stopwords         textproc.StopwordSet
	warnings          []string
	stem              bool
	defaultPercentage int
	keywordLimit      int
	logger            *logrus.Logger
}

// SummaryOption 摘要服务配置选项
type SummaryOption func(*SummaryService)

// WithSummaryLogger 设置日志记录器
func WithSummaryLogger(logger *logrus.Logger) SummaryOption {
	return func(s *SummaryService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStopwords 设置停用词集合
func WithStopwords(stopwords textproc.StopwordSet) SummaryOption {
	return func(s *SummaryService) {
		if stopwords != nil {
			s.stopwords = stopwords
		}
	}
}

// WithStopwordsFile 从文件加载停用词，文件不可用时使用空集合并记录警告
func WithStopwordsFile(path string) SummaryOption {
	return func(s *SummaryService) {
		set, warning := textproc.LoadStopwordsOrEmpty(path, s.logger)
		s.stopwords = set
		if warning != "" {
			s.warnings = append(s.warnings, warning)
		}
	}
}

// WithStemming 设置是否对词项做词干化
func WithStemming(enabled bool) SummaryOption {
	return func(s *SummaryService) {
		s.stem = enabled
	}
}

// WithDefaultPercentage 设置默认摘要比例
func WithDefaultPercentage(percentage int) SummaryOption {
	return func(s *SummaryService) {
		s.defaultPercentage = summary.ClampPercentage(percentage)
	}
}

// WithKeywordLimit 设置关键词数量上限
func WithKeywordLimit(limit int) SummaryOption {
	return func(s *SummaryService) {
		if limit > 0 {
			s.keywordLimit = limit
		}
	}
}

// NewSummaryService 创建摘要服务
func NewSummaryService(opts ...SummaryOption) (*SummaryService, error) {
	segmenter, err := document.NewSegmenter()
	if err != nil {
		return nil, fmt.Errorf("failed to create segmenter: %w", err)
	}

	s := &SummaryService{
		segmenter:         segmenter,
		defaultPercentage: DefaultPercentage,
		keywordLimit:      keyword.DefaultLimit,
		logger:            logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.stopwords == nil {
		s.stopwords = textproc.DefaultStopwords()
	}

	return s, nil
}

// DefaultPercentage 返回默认摘要比例
func (s *SummaryService) DefaultPercentage() int {
	return s.defaultPercentage
}

// KeywordLimit 返回关键词数量上限
func (s *SummaryService) KeywordLimit() int {
	return s.keywordLimit
}

// Warnings 返回构造服务时产生的非致命警告
func (s *SummaryService) Warnings() []string {
	return append([]string(nil), s.warnings...)
}

// Analyze 对文本做摘要和关键词抽取
// percentage为nil时使用默认比例，否则截断到[0,100]
func (s *SummaryService) Analyze(ctx context.Context, text string, percentage *int) (*Analysis, error) {
	pct := s.resolvePercentage(percentage)

	sentences, processed, err := s.prepare(ctx, text)
	if err != nil {
		return nil, err
	}

	result, err := summary.Run(processed, pct)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize text: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keywords := keyword.Extract(processed, s.keywordLimit)

	summaryText := document.Reconstruct(sentences, result.Selection)
	stats := AnalysisStats{
		Source:  textproc.CountStats(text),
		Summary: textproc.CountStats(summaryText),
	}
	analysis := &Analysis{
		Summary:       summaryText,
		Selection:     result.Selection,
		Keywords:      keywords,
		SentenceCount: len(sentences),
		Percentage:    pct,
		Sentences:     sentenceScores(sentences, result),
		Stats:         stats,
		Warnings:      append([]string(nil), s.warnings...),
	}

	s.logger.WithFields(logrus.Fields{
		"sentences":  analysis.SentenceCount,
		"selected":   len(analysis.Selection),
		"keywords":   len(analysis.Keywords),
		"percentage": pct,
	}).Debug("Text analyzed")

	return analysis, nil
}

// Summarize 只计算摘要，不抽取关键词
func (s *SummaryService) Summarize(ctx context.Context, text string, percentage *int) (string, []int, error) {
	sentences, processed, err := s.prepare(ctx, text)
	if err != nil {
		return "", nil, err
	}

	selection, err := summary.Summarize(processed, s.resolvePercentage(percentage))
	if err != nil {
		return "", nil, fmt.Errorf("failed to summarize text: %w", err)
	}
	return document.Reconstruct(sentences, selection), selection, nil
}

// ExtractKeywords 只抽取关键词
// limit不大于0时使用服务配置的上限
func (s *SummaryService) ExtractKeywords(ctx context.Context, text string, limit int) ([]string, error) {
	_, processed, err := s.prepare(ctx, text)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.keywordLimit
	}
	return keyword.Extract(processed, limit), nil
}

// prepare 切句并预处理
func (s *SummaryService) prepare(ctx context.Context, text string) ([]document.Sentence, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sentences := s.segmenter.Segment(text)
	preprocessor := textproc.NewPreprocessor(s.stopwords, textproc.WithStemming(s.stem))
	return sentences, preprocessor.Process(document.Tokens(sentences)), nil
}

func (s *SummaryService) resolvePercentage(percentage *int) int {
	if percentage == nil {
		return s.defaultPercentage
	}
	return summary.ClampPercentage(*percentage)
}

// sentenceScores 合并句子原文与得分
func sentenceScores(sentences []document.Sentence, result *summary.Result) []SentenceScore {
	selected := make(map[int]bool, len(result.Selection))
	for _, idx := range result.Selection {
		selected[idx] = true
	}

	out := make([]SentenceScore, len(sentences))
	for i, sentence := range sentences {
		out[i] = SentenceScore{
			Index:    i,
			Text:     sentence.Original,
			Selected: selected[i],
		}
		if i < len(result.Scores) {
			out[i].Score = result.Scores[i].Score
		}
	}
	return out
}
