package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fyerfyer/doc-summarizer/internal/document"
	"github.com/fyerfyer/doc-summarizer/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// version 通过 -ldflags "-X main.version=..." 注入
var version = "dev"

// options 子命令共用的参数
type options struct {
	stopwordsPath string
	stem          bool
	verbose       bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "docsum",
		Short: "Extractive summaries and keywords for text documents",
		Long: `docsum builds an extractive summary of a document by scoring each
sentence against the document centroid, and ranks keywords with HITS over
the word cooccurrence graph.

Supported inputs are .txt, .md and .pdf files, or "-" to read plain text
from stdin.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.stopwordsPath, "stopwords", "", "stopword file, one word per line (default: built-in English list)")
	root.PersistentFlags().BoolVar(&opts.stem, "stem", false, "apply Snowball stemming to tokens")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(newSummarizeCmd(opts))
	root.AddCommand(newKeywordsCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("docsum version %s\n", version)
		},
	}
}

// newLogger 创建输出到stderr的日志记录器
func newLogger(cmd *cobra.Command, opts *options) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if opts.verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.ErrorLevel)
	}
	return logger
}

// newSummaryService 根据命令行参数创建摘要服务
func newSummaryService(cmd *cobra.Command, opts *options, extra ...services.SummaryOption) (*services.SummaryService, error) {
	logger := newLogger(cmd, opts)
	base := []services.SummaryOption{
		services.WithSummaryLogger(logger),
		services.WithStemming(opts.stem),
	}
	if opts.stopwordsPath != "" {
		base = append(base, services.WithStopwordsFile(opts.stopwordsPath))
	}
	return services.NewSummaryService(append(base, extra...)...)
}

// readInput 读取文件或标准输入的文本
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		return readText(cmd.InOrStdin(), "stdin.txt", document.NewPlainTextParser())
	}

	parser, err := document.ParserFactory(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return readText(f, path, parser)
}

func readText(r io.Reader, name string, parser document.Parser) (string, error) {
	text, err := parser.ParseReader(r, name)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return text, nil
}

// printWarnings 将非致命警告输出到stderr
func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}
