package textproc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPreprocess 测试预处理的三个步骤
func TestPreprocess(t *testing.T) {
	stopwords := NewStopwordSet("the", "a")

	t.Run("basic example", func(t *testing.T) {
		input := [][]string{
			{"the", "cat", "sat"},
			{"a", "dog", "ran", "fast"},
		}
		out := Preprocess(input, stopwords)
		assert.Equal(t, [][]string{
			{"cat", "sat"},
			{"dog", "ran", "fast"},
		}, out)
	})

	t.Run("lowercase before stopword check", func(t *testing.T) {
		out := Preprocess([][]string{{"The", "CAT", "A"}}, stopwords)
		assert.Equal(t, [][]string{{"cat"}}, out)
	})

	t.Run("drop pure punctuation", func(t *testing.T) {
		out := Preprocess([][]string{{"Hello", ",", "world", "!", "--", "n't", "3"}}, stopwords)
		assert.Equal(t, [][]string{{"hello", "world", "n't", "3"}}, out)
	})

	t.Run("empty sentences are kept", func(t *testing.T) {
		input := [][]string{{"the", "."}, {"dog"}, {}}
		out := Preprocess(input, stopwords)
		require.Len(t, out, 3)
		assert.Empty(t, out[0])
		assert.NotNil(t, out[0])
		assert.Equal(t, []string{"dog"}, out[1])
		assert.Empty(t, out[2])
	})

	t.Run("input not mutated", func(t *testing.T) {
		input := [][]string{{"The", "Cat"}}
		_ = Preprocess(input, stopwords)
		assert.Equal(t, [][]string{{"The", "Cat"}}, input)
	})

	t.Run("nil stopword set", func(t *testing.T) {
		out := Preprocess([][]string{{"the", "cat"}}, nil)
		assert.Equal(t, [][]string{{"the", "cat"}}, out)
	})
}

// TestPreprocessorStemming 测试可选的词干提取
func TestPreprocessorStemming(t *testing.T) {
	p := NewPreprocessor(NewStopwordSet("the"), WithStemming(true))
	out := p.Process([][]string{{"The", "runners", "running", "quickly"}})
	require.Len(t, out, 1)
	assert.Equal(t, []string{"runner", "run", "quick"}, out[0])

	// 默认不做词干提取
	plain := NewPreprocessor(NewStopwordSet("the"))
	assert.Equal(t, [][]string{{"runners"}}, plain.Process([][]string{{"runners"}}))
}

// TestVocabulary 测试词表构建
func TestVocabulary(t *testing.T) {
	vocab := NewVocabulary([][]string{
		{"run", "fast", "run"},
		{"cat"},
		{},
	})

	assert.Equal(t, 3, vocab.Len())
	assert.Equal(t, []string{"cat", "fast", "run"}, vocab.Terms())
	assert.Equal(t, "fast", vocab.Term(1))

	idx, ok := vocab.Index("run")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = vocab.Index("dog")
	assert.False(t, ok)

	// Terms返回副本
	terms := vocab.Terms()
	terms[0] = "changed"
	assert.Equal(t, "cat", vocab.Term(0))

	empty := NewVocabulary(nil)
	assert.Equal(t, 0, empty.Len())
}

// TestStopwords 测试停用词加载
func TestStopwords(t *testing.T) {
	t.Run("read from reader", func(t *testing.T) {
		set, err := ReadStopwords(strings.NewReader("# comment\nThe\n\n  and  \nof\n"))
		require.NoError(t, err)
		assert.Equal(t, 3, set.Len())
		assert.True(t, set.Contains("the"))
		assert.True(t, set.Contains("and"))
		assert.False(t, set.Contains("# comment"))
	})

	t.Run("load from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stoplist.txt")
		require.NoError(t, os.WriteFile(path, []byte("foo\nbar\n"), 0644))

		set, err := LoadStopwords(path)
		require.NoError(t, err)
		assert.True(t, set.Contains("foo"))
		assert.True(t, set.Contains("bar"))
	})

	t.Run("default list", func(t *testing.T) {
		set := DefaultStopwords()
		assert.True(t, set.Contains("the"))
		assert.True(t, set.Contains("a"))
		assert.False(t, set.Contains("cat"))
	})

	t.Run("missing file yields empty set and warning", func(t *testing.T) {
		logger := logrus.New()
		logger.SetOutput(os.Stderr)
		set, warning := LoadStopwordsOrEmpty(filepath.Join(t.TempDir(), "missing.txt"), logger)
		assert.NotNil(t, set)
		assert.Equal(t, 0, set.Len())
		assert.Contains(t, warning, "stopword list unavailable")
	})

	t.Run("empty path uses default", func(t *testing.T) {
		set, warning := LoadStopwordsOrEmpty("", nil)
		assert.Empty(t, warning)
		assert.True(t, set.Contains("the"))
	})
}

func TestCountStats(t *testing.T) {
	tests := []struct {
		text string
		want TextStats
	}{
		{"", TextStats{}},
		{"The cat sat.", TextStats{Characters: 12, Words: 3, Lines: 0}},
		{"line one\nline two\n", TextStats{Characters: 18, Words: 4, Lines: 2}},
		// 数字和标点不计入单词，撇号会切开单词
		{"it's 42 -- ok", TextStats{Characters: 13, Words: 3, Lines: 0}},
		{"摘要 文本", TextStats{Characters: 5, Words: 2, Lines: 0}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CountStats(tt.text), tt.text)
	}
}
