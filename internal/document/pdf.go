package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFParser PDF文档解析器
// 使用pdfcpu导出页面内容流，再从文本绘制指令中提取字符串
type PDFParser struct{}

// NewPDFParser 创建一个新的PDF解析器
func NewPDFParser() Parser {
	return &PDFParser{}
}

// Parse 解析PDF文件并提取其文本内容
func (p *PDFParser) Parse(filePath string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pdfcpu_extract_")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(filePath, tmpDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract text from PDF: %w", err)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted text dir: %w", err)
	}

	// 按文件名排序（页码顺序）
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var pages []string
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, e.Name()))
		if err != nil {
			continue
		}
		if text := extractContentText(string(data)); text != "" {
			pages = append(pages, text)
		}
	}

	result := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if result == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}
	return result, nil
}

// ParseReader 将Reader内容写入临时文件后解析
func (p *PDFParser) ParseReader(r io.Reader, filename string) (string, error) {
	tmpFile, err := os.CreateTemp("", "pdf_reader_*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to buffer PDF content: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to buffer PDF content: %w", err)
	}

	return p.Parse(tmpFile.Name())
}

// extractContentText 从页面内容流中提取Tj/TJ指令的字符串参数
// 找不到文本指令时返回原始内容
func extractContentText(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "Tj") && !strings.Contains(line, "TJ") {
			continue
		}
		literals := pdfLiterals(line)
		if len(literals) > 0 {
			lines = append(lines, strings.Join(literals, ""))
		}
	}
	if len(lines) == 0 {
		return strings.TrimSpace(content)
	}
	return strings.Join(lines, "\n")
}

// pdfLiterals 解析一行中的PDF字面量字符串 (...)，处理转义和嵌套括号
func pdfLiterals(line string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	escaped := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		if depth == 0 {
			if c == '(' {
				depth = 1
				cur.Reset()
			}
			continue
		}

		if escaped {
			switch c {
			case 'n':
				cur.WriteByte('\n')
			case 't':
				cur.WriteByte('\t')
			case 'r', 'b', 'f':
			default:
				cur.WriteByte(c)
			}
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '(':
			depth++
			cur.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				out = append(out, cur.String())
			} else {
				cur.WriteByte(c)
			}
		default:
			cur.WriteByte(c)
		}
	}
	return out
}
