package summary

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// TestBuildModel 测试词项模型构建
func TestBuildModel(t *testing.T) {
	model := BuildModel([][]string{
		{"run", "fast", "run"},
		{"run"},
		{},
	})

	assert.Equal(t, 3, model.SentenceCount)
	assert.Equal(t, []string{"fast", "run"}, model.Vocabulary.Terms())

	// 同一句中重复出现只计一次文档频率
	assert.Equal(t, 1, model.DocumentFrequency(0))
	assert.Equal(t, 2, model.DocumentFrequency(1))
	assert.Contains(t, model.DocFreq[1], 0)
	assert.Contains(t, model.DocFreq[1], 1)

	// 平均词频 = 总出现次数 / 句子数
	assert.InDelta(t, 1.0/3.0, model.AvgFreq[0], eps)
	assert.InDelta(t, 1.0, model.AvgFreq[1], eps)

	assert.Equal(t, 2, model.TermFrequency(0, 1))
	assert.Equal(t, 0, model.TermFrequency(2, 1))
}

// TestCentroidValues 测试质心权重计算
func TestCentroidValues(t *testing.T) {
	t.Run("weights", func(t *testing.T) {
		model := BuildModel([][]string{{"cat", "sat"}, {"dog", "cat"}})
		weights, err := CentroidValues(model)
		require.NoError(t, err)
		require.Len(t, weights, 3)

		// cat 出现在所有句子中，idf 为 0
		assert.InDelta(t, 0.0, weights[0], eps)
		// dog: avg 0.5 × log10(2/1)
		assert.InDelta(t, 0.5*math.Log10(2), weights[1], eps)
		assert.InDelta(t, 0.5*math.Log10(2), weights[2], eps)
	})

	t.Run("empty document", func(t *testing.T) {
		weights, err := CentroidValues(BuildModel(nil))
		require.NoError(t, err)
		assert.Empty(t, weights)
	})

	t.Run("zero document frequency is an invariant violation", func(t *testing.T) {
		model := BuildModel([][]string{{"cat"}})
		model.DocFreq[0] = map[int]struct{}{}

		_, err := CentroidValues(model)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvariantViolation))
	})
}

// TestCentroidDocument 测试质心伪文档选取
func TestCentroidDocument(t *testing.T) {
	assert.Equal(t, 0, CentroidSize(0))
	assert.Equal(t, 1, CentroidSize(5))
	assert.Equal(t, 1, CentroidSize(19))
	assert.Equal(t, 2, CentroidSize(20))
	assert.Equal(t, 10, CentroidSize(105))

	assert.Empty(t, CentroidDocument(nil))

	// 权重相同时按词表顺序选择
	assert.Equal(t, []int{0}, CentroidDocument([]float64{0.2, 0.2, 0.2}))

	weights := make([]float64, 20)
	weights[7] = 0.5
	weights[3] = 0.9
	weights[12] = 0.5
	assert.Equal(t, []int{3, 7}, CentroidDocument(weights))
}

// TestScoreSentencesExample 测试两句示例文档的精确分数
func TestScoreSentencesExample(t *testing.T) {
	sentences := [][]string{
		{"cat", "sat"},
		{"dog", "ran", "fast"},
	}

	result, err := Run(sentences, 50)
	require.NoError(t, err)

	w := 0.5 * math.Log10(2)
	require.Len(t, result.Scores, 2)
	assert.Equal(t, []string{"cat"}, result.Centroid)

	s0 := result.Scores[0]
	assert.Equal(t, 0, s0.Index)
	assert.InDelta(t, w, s0.CentroidOverlap, eps)
	assert.InDelta(t, w, s0.Positional, eps)
	assert.InDelta(t, 2.0, s0.FirstOverlap, eps)
	assert.InDelta(t, 2*w+2, s0.Score, eps)

	s1 := result.Scores[1]
	assert.InDelta(t, 0.0, s1.CentroidOverlap, eps)
	assert.InDelta(t, w/2, s1.Positional, eps)
	assert.InDelta(t, 0.0, s1.FirstOverlap, eps)
	assert.InDelta(t, w/2, s1.Score, eps)

	assert.Equal(t, []int{0}, result.Selection)
}

// TestScoreSentencesOccurrence 测试质心重合度只看是否出现
func TestScoreSentencesOccurrence(t *testing.T) {
	result, err := Score([][]string{
		{"x", "x", "y"},
		{"z"},
	})
	require.NoError(t, err)

	lg := math.Log10(2)
	assert.Equal(t, []string{"x"}, result.Centroid)
	assert.InDelta(t, lg, result.Scores[0].CentroidOverlap, eps)
	assert.InDelta(t, 5.0, result.Scores[0].FirstOverlap, eps)
	assert.InDelta(t, lg, result.Scores[0].Positional, eps)
	assert.InDelta(t, lg/2, result.Scores[1].Positional, eps)
}

// TestScoreSentencesDegenerate 测试退化输入
func TestScoreSentencesDegenerate(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		selection, err := Summarize(nil, 50)
		require.NoError(t, err)
		assert.Empty(t, selection)
	})

	t.Run("single sentence", func(t *testing.T) {
		result, err := Run([][]string{{"run", "fast", "run"}}, 10)
		require.NoError(t, err)
		require.Len(t, result.Scores, 1)
		assert.InDelta(t, 0.0, result.Scores[0].CentroidOverlap, eps)
		assert.InDelta(t, 0.0, result.Scores[0].Positional, eps)
		assert.InDelta(t, 5.0, result.Scores[0].FirstOverlap, eps)
		assert.Equal(t, []int{0}, result.Selection)
	})

	t.Run("all sentences empty after preprocessing", func(t *testing.T) {
		result, err := Run([][]string{{}, {}, {}}, 100)
		require.NoError(t, err)
		for _, s := range result.Scores {
			assert.False(t, math.IsNaN(s.Score))
			assert.Equal(t, 0.0, s.Score)
		}
		assert.Equal(t, []int{0, 1, 2}, result.Selection)
	})
}

// TestSelect 测试选句策略
func TestSelect(t *testing.T) {
	scores := []ScoredSentence{
		{Index: 0, Score: 1.0},
		{Index: 1, Score: 3.0},
		{Index: 2, Score: 2.0},
		{Index: 3, Score: 3.0},
	}

	t.Run("top scores returned ascending", func(t *testing.T) {
		assert.Equal(t, []int{1, 3}, Select(scores, 50))
		assert.Equal(t, []int{1, 2, 3}, Select(scores, 75))
	})

	t.Run("ties keep lower index", func(t *testing.T) {
		assert.Equal(t, []int{1}, Select(scores, 25))
		equal := []ScoredSentence{{Index: 0}, {Index: 1}, {Index: 2}, {Index: 3}}
		assert.Equal(t, []int{0, 1}, Select(equal, 50))
	})

	t.Run("at least one sentence", func(t *testing.T) {
		assert.Equal(t, []int{1}, Select(scores, 0))
		assert.Equal(t, []int{1}, Select(scores, 10))
	})

	t.Run("percentage is clamped", func(t *testing.T) {
		assert.Equal(t, Select(scores, 0), Select(scores, -40))
		assert.Equal(t, []int{0, 1, 2, 3}, Select(scores, 250))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Select(nil, 50))
	})

	assert.Equal(t, 0, SelectionCount(0, 50))
	assert.Equal(t, 1, SelectionCount(2, 50))
	assert.Equal(t, 3, SelectionCount(7, 50))
	assert.Equal(t, 0, ClampPercentage(-1))
	assert.Equal(t, 100, ClampPercentage(101))
}

// TestSummarizeProperties 测试随机文档上的选择性质
func TestSummarizeProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	words := []string{"alpha", "beta", "gamma", "delta", "eps", "zeta", "eta", "theta"}

	for doc := 0; doc < 30; doc++ {
		n := 1 + rng.Intn(12)
		sentences := make([][]string, n)
		for i := range sentences {
			l := rng.Intn(6)
			for j := 0; j < l; j++ {
				sentences[i] = append(sentences[i], words[rng.Intn(len(words))])
			}
		}

		prev := 0
		for pct := 0; pct <= 100; pct += 5 {
			selection, err := Summarize(sentences, pct)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, len(selection), 1)
			assert.LessOrEqual(t, len(selection), n)
			assert.GreaterOrEqual(t, len(selection), prev)
			prev = len(selection)

			for i, idx := range selection {
				assert.GreaterOrEqual(t, idx, 0)
				assert.Less(t, idx, n)
				if i > 0 {
					assert.Greater(t, idx, selection[i-1])
				}
			}

			again, err := Summarize(sentences, pct)
			require.NoError(t, err)
			assert.Equal(t, selection, again)
		}
	}
}
