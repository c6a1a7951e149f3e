package keyword

import (
	"math"
	"math/rand"
	"testing"

	"github.com/fyerfyer/doc-summarizer/internal/textproc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// TestBuildGraph 测试共现图构建
func TestBuildGraph(t *testing.T) {
	sentences := [][]string{
		{"a", "b", "a", "b"},
		{"c"},
		{"b", "c"},
	}
	vocab := textproc.NewVocabulary(sentences)
	g := BuildGraph(sentences, vocab)

	require.Equal(t, 3, g.Len())

	// 重复边被合并
	assert.Equal(t, []int{1}, g.Outgoing(0))
	assert.Equal(t, []int{1}, g.Incoming(0))
	assert.Equal(t, []int{0, 2}, g.Outgoing(1))
	assert.Equal(t, []int{0}, g.Incoming(1))
	assert.Equal(t, []int{1}, g.Incoming(2))
	assert.Empty(t, g.Outgoing(2))

	assert.True(t, g.HasEdge(1, 2))
	assert.False(t, g.HasEdge(2, 1))
}

// TestBuildGraphIsolatedNodes 测试孤立节点保留
func TestBuildGraphIsolatedNodes(t *testing.T) {
	sentences := [][]string{{"solo"}, {"x", "y"}}
	vocab := textproc.NewVocabulary(sentences)
	g := BuildGraph(sentences, vocab)

	assert.Equal(t, 3, g.Len())
	idx, ok := vocab.Index("solo")
	require.True(t, ok)
	assert.Empty(t, g.Incoming(idx))
	assert.Empty(t, g.Outgoing(idx))

	ranked := Rank(g, DefaultIterations)
	assert.Len(t, ranked, 3)
}

// TestRankSymmetric 测试对称图上两个节点得分相同
func TestRankSymmetric(t *testing.T) {
	sentences := [][]string{{"run", "fast", "run"}}
	vocab := textproc.NewVocabulary(sentences)
	g := BuildGraph(sentences, vocab)

	assert.True(t, g.HasEdge(0, 1))
	assert.True(t, g.HasEdge(1, 0))

	ranked := Rank(g, DefaultIterations)
	require.Len(t, ranked, 2)
	assert.InDelta(t, ranked[0].Hub, ranked[0].Authority, eps)
	assert.InDelta(t, ranked[0].Score, ranked[1].Score, eps)
	assert.InDelta(t, 1/math.Sqrt2, ranked[0].Score, eps)

	// 平分时按词表顺序
	assert.Equal(t, []string{"fast", "run"}, Keywords(ranked, vocab, DefaultLimit))
}

// TestRankUsesOutgoingEdgesForHubs 测试枢纽值由出边邻居的权威值累加得到
func TestRankUsesOutgoingEdgesForHubs(t *testing.T) {
	sentences := [][]string{{"a", "b", "c"}}
	vocab := textproc.NewVocabulary(sentences)
	g := BuildGraph(sentences, vocab)

	ranked := Rank(g, DefaultIterations)
	require.Len(t, ranked, 3)

	byIndex := make(map[int]RankedTerm)
	for _, r := range ranked {
		byIndex[r.Index] = r
	}

	// a 只有出边：权威值为0，枢纽值非0
	assert.InDelta(t, 0.0, byIndex[0].Authority, eps)
	assert.InDelta(t, 1/math.Sqrt2, byIndex[0].Hub, eps)
	// c 只有入边：枢纽值为0，权威值非0
	assert.InDelta(t, 1/math.Sqrt2, byIndex[2].Authority, eps)
	assert.InDelta(t, 0.0, byIndex[2].Hub, eps)
	// b 兼具两种角色
	assert.InDelta(t, 1/math.Sqrt2, byIndex[1].Authority, eps)
	assert.InDelta(t, 1/math.Sqrt2, byIndex[1].Hub, eps)

	keywords := Keywords(ranked, vocab, DefaultLimit)
	assert.Equal(t, "b", keywords[0])
	assert.ElementsMatch(t, []string{"a", "c"}, keywords[1:])
}

// TestRankZeroNorm 测试没有任何边时不产生NaN
func TestRankZeroNorm(t *testing.T) {
	sentences := [][]string{{"x"}, {"y"}, {"z"}}
	vocab := textproc.NewVocabulary(sentences)
	ranked := Rank(BuildGraph(sentences, vocab), DefaultIterations)

	require.Len(t, ranked, 3)
	for i, r := range ranked {
		assert.Equal(t, i, r.Index)
		assert.False(t, math.IsNaN(r.Score))
		assert.Equal(t, 0.0, r.Hub)
		assert.Equal(t, 0.0, r.Authority)
	}
}

// TestRankEmpty 测试空图
func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(NewGraph(0), DefaultIterations))
	assert.Empty(t, Extract(nil, DefaultLimit))
	assert.Empty(t, Extract([][]string{{}, {}}, DefaultLimit))
}

// TestRankNonNegative 测试随机图上的分数非负且已归一化
func TestRankNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(15)
		g := NewGraph(n)
		edges := rng.Intn(n * 2)
		for e := 0; e < edges; e++ {
			g.AddEdge(rng.Intn(n), rng.Intn(n))
		}

		ranked := Rank(g, DefaultIterations)
		hubNorm, authNorm := 0.0, 0.0
		for i, r := range ranked {
			assert.GreaterOrEqual(t, r.Hub, 0.0)
			assert.GreaterOrEqual(t, r.Authority, 0.0)
			assert.False(t, math.IsNaN(r.Score))
			hubNorm += r.Hub * r.Hub
			authNorm += r.Authority * r.Authority
			if i > 0 {
				assert.GreaterOrEqual(t, ranked[i-1].Score, r.Score)
			}
		}
		if edges > 0 {
			assert.InDelta(t, 1.0, authNorm, 1e-6)
		}
		assert.True(t, hubNorm == 0 || math.Abs(hubNorm-1) < 1e-6)
	}
}

// TestKeywordsLimit 测试关键词数量截断
func TestKeywordsLimit(t *testing.T) {
	sentences := [][]string{
		{"graph", "ranking", "keyword"},
		{"keyword", "extraction", "graph"},
		{"ranking", "score"},
	}

	all := Extract(sentences, DefaultLimit)
	assert.Len(t, all, 5)

	// 无重复
	seen := make(map[string]bool)
	for _, k := range all {
		assert.False(t, seen[k])
		seen[k] = true
	}

	top2 := Extract(sentences, 2)
	assert.Equal(t, all[:2], top2)
	assert.Empty(t, Extract(sentences, 0))
	assert.Empty(t, Extract(sentences, -3))

	// 多次调用结果一致
	assert.Equal(t, all, Extract(sentences, DefaultLimit))

	assert.Equal(t, "graph, keyword", JoinKeywords([]string{"graph", "keyword"}))
	assert.Equal(t, "", JoinKeywords(nil))
}
