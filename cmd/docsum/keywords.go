package main

import (
	"fmt"

	"github.com/fyerfyer/doc-summarizer/internal/keyword"
	"github.com/spf13/cobra"
)

func newKeywordsCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "keywords <file|->",
		Short: "Print the top keywords of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("invalid limit %d: must be at least 1", limit)
			}

			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			svc, err := newSummaryService(cmd, opts)
			if err != nil {
				return err
			}

			keywords, err := svc.ExtractKeywords(cmd.Context(), text, limit)
			if err != nil {
				return fmt.Errorf("keyword extraction failed: %w", err)
			}
			printWarnings(cmd, svc.Warnings())

			if len(keywords) > 0 {
				cmd.Println(keyword.JoinKeywords(keywords))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of keywords")
	return cmd
}
