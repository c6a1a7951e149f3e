package document

import (
	"fmt"
	stdhtml "html"
	"io"
	"os"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownParser Markdown文档解析器
// 先渲染为HTML再去除标签，保留段落边界
type MarkdownParser struct{}

// NewMarkdownParser 创建新的Markdown解析器
func NewMarkdownParser() Parser {
	return &MarkdownParser{}
}

// Parse 解析Markdown文件并提取文本内容
func (p *MarkdownParser) Parse(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open markdown file: %w", err)
	}
	defer file.Close()

	return p.ParseReader(file, filePath)
}

// ParseReader 从Reader解析Markdown内容
func (p *MarkdownParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown content: %w", err)
	}

	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)
	doc := mdParser.Parse(content)

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	htmlContent := markdown.Render(doc, renderer)

	return extractTextFromHTML(string(htmlContent)), nil
}

// blockReplacer 将块级元素替换为段落分隔
var blockReplacer = strings.NewReplacer(
	"<br>", "\n",
	"<br/>", "\n",
	"<br />", "\n",
	"</p>", "\n\n",
	"<li>", "",
	"</li>", "\n\n",
	"</ul>", "\n",
	"</ol>", "\n",
	"</h1>", "\n\n",
	"</h2>", "\n\n",
	"</h3>", "\n\n",
	"</h4>", "\n\n",
	"</h5>", "\n\n",
	"</h6>", "\n\n",
	"</blockquote>", "\n\n",
	"</pre>", "\n\n",
)

// extractTextFromHTML 从HTML中提取纯文本
func extractTextFromHTML(htmlText string) string {
	result := blockReplacer.Replace(htmlText)

	// 移除所有HTML标签
	var b strings.Builder
	inTag := false
	for _, r := range result {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}

	return normalizeWhitespace(stdhtml.UnescapeString(b.String()))
}

// normalizeWhitespace 规范化空白符
// 段落内连续空白合并为单个空格，段落之间保留一个空行
func normalizeWhitespace(text string) string {
	paragraphs := strings.Split(text, "\n\n")
	kept := make([]string, 0, len(paragraphs))
	for _, para := range paragraphs {
		para = strings.Join(strings.Fields(para), " ")
		if para != "" {
			kept = append(kept, para)
		}
	}
	return strings.Join(kept, "\n\n")
}
