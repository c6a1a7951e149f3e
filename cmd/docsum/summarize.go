package main

import (
	"encoding/json"
	"fmt"

	"github.com/fyerfyer/doc-summarizer/internal/services"
	"github.com/fyerfyer/doc-summarizer/internal/summary"
	"github.com/spf13/cobra"
)

func newSummarizeCmd(opts *options) *cobra.Command {
	var (
		percentage int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "summarize <file|->",
		Short: "Print an extractive summary of a document",
		Long: `Prints the selected sentences in their original order. The percentage
controls how many sentences are kept and is clamped to [0, 100]; at least
one sentence is kept for non-empty input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			svc, err := newSummaryService(cmd, opts)
			if err != nil {
				return err
			}

			// 未显式指定时使用服务默认比例
			var pct *int
			if cmd.Flags().Changed("percentage") {
				clamped := summary.ClampPercentage(percentage)
				pct = &clamped
			}

			analysis, err := svc.Analyze(cmd.Context(), text, pct)
			if err != nil {
				return fmt.Errorf("summarize failed: %w", err)
			}
			printWarnings(cmd, analysis.Warnings)

			if asJSON {
				data, err := json.MarshalIndent(analysis, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal result: %w", err)
				}
				cmd.Println(string(data))
				return nil
			}

			if analysis.Summary != "" {
				cmd.Println(analysis.Summary)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&percentage, "percentage", "p", services.DefaultPercentage, "percentage of sentences to keep")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output summary, selection and keywords as JSON")
	return cmd
}
