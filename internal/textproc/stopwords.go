package textproc

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed stoplist.txt
var defaultStoplist string

// StopwordSet 停用词集合
// 启动时加载一次，之后只读，无需加锁
type StopwordSet map[string]struct{}

// NewStopwordSet 根据给定词语创建停用词集合
func NewStopwordSet(words ...string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// Contains 判断词语是否为停用词
func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Len 返回停用词数量
func (s StopwordSet) Len() int {
	return len(s)
}

// ReadStopwords 从Reader读取停用词，每行一个词
// 空行和以#开头的注释行会被跳过
func ReadStopwords(r io.Reader) (StopwordSet, error) {
	set := make(StopwordSet)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords: %w", err)
	}
	return set, nil
}

// LoadStopwords 从文件加载停用词
func LoadStopwords(path string) (StopwordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stopword file: %w", err)
	}
	defer f.Close()

	return ReadStopwords(f)
}

// DefaultStopwords 返回内置的英文停用词表
func DefaultStopwords() StopwordSet {
	set, err := ReadStopwords(strings.NewReader(defaultStoplist))
	if err != nil {
		// 内置资源读取不会失败
		return make(StopwordSet)
	}
	return set
}

// LoadStopwordsOrEmpty 加载停用词，失败时返回空集合和警告信息
// path为空时使用内置停用词表
func LoadStopwordsOrEmpty(path string, logger *logrus.Logger) (StopwordSet, string) {
	if path == "" {
		return DefaultStopwords(), ""
	}

	set, err := LoadStopwords(path)
	if err != nil {
		warning := fmt.Sprintf("stopword list unavailable, continuing without stopwords: %v", err)
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"path":  path,
				"error": err.Error(),
			}).Warn("Failed to load stopwords, using empty set")
		}
		return make(StopwordSet), warning
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"path":  path,
			"count": set.Len(),
		}).Info("Stopwords loaded")
	}
	return set, ""
}
