package summary

// ScoredSentence 带分数的句子
type ScoredSentence struct {
	Index           int     `json:"index"`            // 句子在原文中的下标
	CentroidOverlap float64 `json:"centroid_overlap"` // 与质心伪文档的重合度
	Positional      float64 `json:"positional"`       // 位置分
	FirstOverlap    float64 `json:"first_overlap"`    // 与首句词频向量的点积
	Score           float64 `json:"score"`            // 综合得分
}

// ScoreSentences 计算每个句子的综合得分
// score = centroidOverlap + positional + firstOverlap
func ScoreSentences(model *TermModel, centroid []int, weights []float64) []ScoredSentence {
	n := model.SentenceCount
	if n == 0 {
		return []ScoredSentence{}
	}

	scored := make([]ScoredSentence, n)
	maxOverlap := 0.0
	for i := 0; i < n; i++ {
		overlap := 0.0
		// 只看是否出现，重复出现不重复计分
		for _, term := range centroid {
			if model.counts[i][term] > 0 {
				overlap += weights[term]
			}
		}
		scored[i].Index = i
		scored[i].CentroidOverlap = overlap
		if overlap > maxOverlap {
			maxOverlap = overlap
		}
	}

	first := model.counts[0]
	for i := 0; i < n; i++ {
		scored[i].Positional = float64(n-i) / float64(n) * maxOverlap
		scored[i].FirstOverlap = float64(dot(model.counts[i], first))
		scored[i].Score = scored[i].CentroidOverlap + scored[i].Positional + scored[i].FirstOverlap
	}

	return scored
}

// dot 计算两个稀疏词频向量的点积
func dot(a, b map[int]int) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	sum := 0
	for term, count := range a {
		sum += count * b[term]
	}
	return sum
}
