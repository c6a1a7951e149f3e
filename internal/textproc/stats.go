package textproc

import "unicode"

// TextStats 文本的字符、单词和行数统计
type TextStats struct {
	Characters int `json:"characters"` // 字符数（按rune计）
	Words      int `json:"words"`      // 单词数，连续字母记为一个单词
	Lines      int `json:"lines"`      // 换行符数量
}

// CountStats 按wc的方式统计文本
func CountStats(text string) TextStats {
	var stats TextStats
	inWord := false
	for _, r := range text {
		stats.Characters++
		if r == '\n' {
			stats.Lines++
		}
		if unicode.IsLetter(r) {
			if !inWord {
				stats.Words++
			}
			inWord = true
		} else {
			inWord = false
		}
	}
	return stats
}
