package document

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTempFile 创建临时文本文件
func createTempFile(t *testing.T, content, ext string) string {
	path := filepath.Join(t.TempDir(), "docsum-test"+ext)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

// createTempPDF 使用gofpdf生成测试PDF
func createTempPDF(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "docsum-test.pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 10, text, "", "", false)
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("Failed to write PDF: %v", err)
	}
	return path
}

func TestPlainTextParser(t *testing.T) {
	content := "Hello, this is a plain text file.\nSecond line."
	file := createTempFile(t, content, ".txt")

	parser := NewPlainTextParser()
	text, err := parser.Parse(file)
	require.NoError(t, err)
	assert.Equal(t, content, text)

	result, err := parser.ParseReader(bytes.NewReader([]byte(content)), "test.txt")
	assert.NoError(t, err)
	assert.Equal(t, content, result)

	_, err = parser.Parse(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestMarkdownParser(t *testing.T) {
	content := "# Title\n\nThis is a **markdown** file.\n\n- Item 1\n- Item 2"
	file := createTempFile(t, content, ".md")

	parser := NewMarkdownParser()
	text, err := parser.Parse(file)
	require.NoError(t, err)

	assert.Contains(t, text, "This is a markdown file.")
	assert.Contains(t, text, "Item 1")
	assert.NotContains(t, text, "<")
	assert.NotContains(t, text, "**")

	// 标题和正文处于不同段落
	paragraphs := strings.Split(text, "\n\n")
	assert.Equal(t, "Title", paragraphs[0])
}

func TestPDFParser(t *testing.T) {
	file := createTempPDF(t, "This is a PDF test.\nSecond line.")

	parser := NewPDFParser()
	text, err := parser.Parse(file)
	require.NoError(t, err)
	assert.Contains(t, text, "This is a PDF test.")
	assert.Contains(t, text, "Second line.")
	assert.NotContains(t, text, " Tj")

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	fromReader, err := parser.ParseReader(f, "upload.pdf")
	require.NoError(t, err)
	assert.Equal(t, text, fromReader)
}

func TestExtractContentText(t *testing.T) {
	content := "BT 10 10 Td (Hello \\(world\\)) Tj ET\n0 0 m 10 10 l S\nBT [(Split) -250 (text)] TJ ET"
	assert.Equal(t, "Hello (world)\nSplittext", extractContentText(content))

	// 没有文本指令时返回原始内容
	assert.Equal(t, "raw text", extractContentText("  raw text  "))
}

func TestParserFactory(t *testing.T) {
	txtFile := createTempFile(t, "plain text", ".txt")
	mdFile := createTempFile(t, "# Markdown", ".md")
	pdfFile := createTempPDF(t, "PDF content")

	tests := []struct {
		file     string
		expected string
	}{
		{txtFile, "plain text"},
		{mdFile, "Markdown"},
		{pdfFile, "PDF content"},
	}

	for _, tt := range tests {
		parser, err := ParserFactory(tt.file)
		require.NoError(t, err, tt.file)
		text, err := parser.Parse(tt.file)
		require.NoError(t, err, tt.file)
		assert.Contains(t, text, tt.expected)
	}

	_, err := ParserFactory("report.docx")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	assert.Equal(t, Markdown, DetectContentType("README.MARKDOWN"))
	assert.True(t, IsSupported("notes.txt"))
	assert.False(t, IsSupported("image.png"))
}
