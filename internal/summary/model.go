package summary

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/fyerfyer/doc-summarizer/internal/textproc"
)

// ErrInvariantViolation 内部不变量被破坏
// 例如词表中的词项文档频率为0，这在正常构建流程中不可能发生
var ErrInvariantViolation = errors.New("summary: invariant violation")

// centroidFraction 质心伪文档占词表的比例（百分比）
const centroidFraction = 10

// TermModel 单次计算使用的词项模型
// 每次调用重新构建，不在调用之间共享
type TermModel struct {
	Vocabulary    *textproc.Vocabulary // 按字母序排列的词表
	DocFreq       []map[int]struct{}   // 每个词项出现过的句子下标集合
	AvgFreq       []float64            // 每个词项在所有句子中的平均频率
	SentenceCount int                  // 句子数量

	counts []map[int]int // 每个句子的词频向量（稀疏表示）
}

// BuildModel 从预处理后的句子构建词表、文档频率表和平均词频表
func BuildModel(sentences [][]string) *TermModel {
	vocab := textproc.NewVocabulary(sentences)
	v := vocab.Len()

	model := &TermModel{
		Vocabulary:    vocab,
		DocFreq:       make([]map[int]struct{}, v),
		AvgFreq:       make([]float64, v),
		SentenceCount: len(sentences),
		counts:        make([]map[int]int, len(sentences)),
	}
	for i := range model.DocFreq {
		model.DocFreq[i] = make(map[int]struct{})
	}

	totals := make([]int, v)
	for s, sentence := range sentences {
		counts := make(map[int]int, len(sentence))
		for _, token := range sentence {
			idx, ok := vocab.Index(token)
			if !ok {
				continue
			}
			counts[idx]++
			totals[idx]++
			model.DocFreq[idx][s] = struct{}{}
		}
		model.counts[s] = counts
	}

	if model.SentenceCount > 0 {
		n := float64(model.SentenceCount)
		for i, total := range totals {
			model.AvgFreq[i] = float64(total) / n
		}
	}

	return model
}

// DocumentFrequency 返回词项的文档频率
func (m *TermModel) DocumentFrequency(term int) int {
	return len(m.DocFreq[term])
}

// TermFrequency 返回词项在指定句子中的出现次数
func (m *TermModel) TermFrequency(sentence, term int) int {
	return m.counts[sentence][term]
}

// CentroidValues 计算每个词项的质心权重 avgFreq × log10(N / docFreq)
// 句子数为0时返回空结果
func CentroidValues(model *TermModel) ([]float64, error) {
	if model.SentenceCount == 0 {
		return []float64{}, nil
	}

	n := float64(model.SentenceCount)
	weights := make([]float64, model.Vocabulary.Len())
	for i := range weights {
		df := model.DocumentFrequency(i)
		if df == 0 {
			return nil, fmt.Errorf("%w: term %q has zero document frequency",
				ErrInvariantViolation, model.Vocabulary.Term(i))
		}
		weights[i] = model.AvgFreq[i] * math.Log10(n/float64(df))
	}
	return weights, nil
}

// CentroidSize 返回质心伪文档的大小: max(1, floor(V × 0.1))，词表为空时为0
func CentroidSize(vocabularySize int) int {
	if vocabularySize <= 0 {
		return 0
	}
	size := vocabularySize * centroidFraction / 100
	if size < 1 {
		size = 1
	}
	return size
}

// CentroidDocument 选取权重最高的词项构成质心伪文档
// 权重相同时按词表顺序（字母序）决定先后，结果按权重降序排列
func CentroidDocument(weights []float64) []int {
	size := CentroidSize(len(weights))
	if size == 0 {
		return []int{}
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return weights[order[a]] > weights[order[b]]
	})

	centroid := make([]int, size)
	copy(centroid, order[:size])
	return centroid
}
