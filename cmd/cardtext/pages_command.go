package main

import (
	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/pagerank"
)

func newRankPagesCommand(ctx *commandContext) *cobra.Command {
	var top int
	var dir string
	cmd := &cobra.Command{
		Use:   "rank-pages",
		Short: "Rank crawled HTML pages by word count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Data.PagesDir
			}
			k := top
			if k < 0 {
				k = pagerank.DefaultTopK
			}
			entries, err := pagerank.RankDirectory(cmd.Context(), dir, k)
			if err != nil {
				return err
			}
			return printEntries(cmd, ctx, "Page", "Words", entries)
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", -1, "Number of pages to show")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to scan (default from --pages or config)")
	return cmd
}
