package keyword

import (
	"math"
	"sort"
)

// DefaultIterations HITS迭代次数
// 固定迭代次数而不是收敛阈值，保证输出可复现
const DefaultIterations = 10

// RankedTerm 排序后的词项
type RankedTerm struct {
	Index     int     `json:"index"`     // 词表下标
	Hub       float64 `json:"hub"`       // 枢纽值
	Authority float64 `json:"authority"` // 权威值
	Score     float64 `json:"score"`     // 综合得分 (hub + authority) / 2
}

// Rank 在共现图上运行HITS，返回按综合得分降序排列的词项
// 得分相同时按词表下标升序
func Rank(g *Graph, iterations int) []RankedTerm {
	n := g.Len()
	if n == 0 {
		return []RankedTerm{}
	}

	incoming := make([][]int, n)
	outgoing := make([][]int, n)
	for i := 0; i < n; i++ {
		incoming[i] = g.Incoming(i)
		outgoing[i] = g.Outgoing(i)
	}

	hub := make([]float64, n)
	authority := make([]float64, n)
	for i := range hub {
		hub[i] = 1.0
		authority[i] = 1.0
	}

	// 每轮依赖上一轮完整更新后的向量，必须顺序执行
	for iter := 0; iter < iterations; iter++ {
		next := make([]float64, n)
		for i := 0; i < n; i++ {
			for _, j := range incoming[i] {
				next[i] += hub[j]
			}
		}
		normalize(next)
		authority = next

		next = make([]float64, n)
		for i := 0; i < n; i++ {
			for _, j := range outgoing[i] {
				next[i] += authority[j]
			}
		}
		normalize(next)
		hub = next
	}

	ranked := make([]RankedTerm, n)
	for i := 0; i < n; i++ {
		ranked[i] = RankedTerm{
			Index:     i,
			Hub:       hub[i],
			Authority: authority[i],
			Score:     (authority[i] + hub[i]) / 2,
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Score > ranked[b].Score
	})
	return ranked
}

// normalize 对向量做L2归一化，范数为0时保持不变
func normalize(v []float64) {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
}
