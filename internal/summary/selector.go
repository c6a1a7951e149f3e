package summary

import "sort"

// ClampPercentage 将百分比限制在[0,100]范围内
func ClampPercentage(percentage int) int {
	if percentage < 0 {
		return 0
	}
	if percentage > 100 {
		return 100
	}
	return percentage
}

// SelectionCount 计算要选取的句子数: max(1, floor(N × percentage / 100))
// 句子数为0时返回0
func SelectionCount(sentenceCount, percentage int) int {
	if sentenceCount <= 0 {
		return 0
	}
	count := sentenceCount * ClampPercentage(percentage) / 100
	if count < 1 {
		count = 1
	}
	return count
}

// Select 选取得分最高的句子，返回按原文顺序升序排列的下标
// 得分相同时下标较小的句子优先
func Select(scores []ScoredSentence, percentage int) []int {
	count := SelectionCount(len(scores), percentage)
	if count == 0 {
		return []int{}
	}

	ranked := make([]ScoredSentence, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Index < ranked[j].Index
	})

	selection := make([]int, count)
	for i := 0; i < count; i++ {
		selection[i] = ranked[i].Index
	}
	sort.Ints(selection)
	return selection
}
