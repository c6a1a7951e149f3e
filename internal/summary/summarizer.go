// Package summary 实现基于质心的抽取式摘要（MEAD）
//
// 流程：构建词项模型 -> 计算质心权重 -> 选取质心伪文档 -> 句子打分 -> 按比例选句。
// 所有状态在每次调用时重新构建，函数本身无副作用，可并发调用。
package summary

import "fmt"

// Result 一次摘要计算的完整结果
type Result struct {
	Selection []int            // 选中的句子下标（升序）
	Scores    []ScoredSentence // 每个句子的分数明细
	Centroid  []string         // 质心伪文档词项（按权重降序）
}

// Score 对预处理后的句子打分
func Score(sentences [][]string) (*Result, error) {
	model := BuildModel(sentences)
	weights, err := CentroidValues(model)
	if err != nil {
		return nil, fmt.Errorf("failed to compute centroid values: %w", err)
	}

	centroid := CentroidDocument(weights)
	terms := make([]string, len(centroid))
	for i, term := range centroid {
		terms[i] = model.Vocabulary.Term(term)
	}

	return &Result{
		Selection: []int{},
		Scores:    ScoreSentences(model, centroid, weights),
		Centroid:  terms,
	}, nil
}

// Run 打分并按百分比选句
func Run(sentences [][]string, percentage int) (*Result, error) {
	result, err := Score(sentences)
	if err != nil {
		return nil, err
	}
	result.Selection = Select(result.Scores, percentage)
	return result, nil
}

// Summarize 返回摘要句子的下标，按原文顺序升序排列
// 空文档返回空切片
func Summarize(sentences [][]string, percentage int) ([]int, error) {
	result, err := Run(sentences, percentage)
	if err != nil {
		return nil, err
	}
	return result.Selection, nil
}
