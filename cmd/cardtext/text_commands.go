package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/fuzzy"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <word>...",
		Short: "Spell-check words against the card vocabulary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			reports := make([]fuzzy.Report, 0, len(args))
			for _, word := range args {
				report, err := s.Check(word)
				if err != nil {
					return err
				}
				reports = append(reports, report)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, reports)
			}
			rows := make([][]string, 0, len(reports))
			for _, r := range reports {
				status, closest := "correct", ""
				if !r.Correct {
					status = "misspelled"
					closest = fmt.Sprintf("%s (%d)", r.Closest.Term, r.Closest.Distance)
				}
				rows = append(rows, []string{r.Word, status, closest, strings.Join(r.Suggestions, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Word", "Status", "Closest", "Completions"}, rows, nil))
			return nil
		},
	}
}

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "List vocabulary terms starting with a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			suggestions, err := s.Suggest(args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, suggestions)
			}
			out := cmd.OutOrStdout()
			if len(suggestions) == 0 {
				fmt.Fprintf(out, "No terms start with %q\n", args[0])
				return nil
			}
			for _, term := range suggestions {
				fmt.Fprintln(out, term)
			}
			return nil
		},
	}
}

func newNearestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "nearest <word>",
		Short: "Find the vocabulary term closest by edit distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			match, err := s.Nearest(args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, match)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (distance %d)\n", match.Term, match.Distance)
			return nil
		},
	}
}

func newFreqCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "freq <term>...",
		Short: "Show how often terms occur in the card data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			entries := make([]ranking.Entry, 0, len(args))
			for _, term := range args {
				entries = append(entries, ranking.Entry{Key: term, Score: int64(s.Frequency(term))})
			}
			return printEntries(cmd, ctx, "Term", "Occurrences", entries)
		},
	}
}

func newTopTermsCommand(ctx *commandContext) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "top-terms",
		Short: "List the most frequent vocabulary terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			return printEntries(cmd, ctx, "Term", "Occurrences", s.TopTerms(ctx.topK(top)))
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", -1, "Number of terms to show (default from config)")
	return cmd
}

func newTrackCommand(ctx *commandContext) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "track <query>...",
		Short: "Record search queries and show the most frequent ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			for _, q := range args {
				s.RecordQuery(q)
			}
			return printEntries(cmd, ctx, "Query", "Searches", s.TopQueries(ctx.topK(top)))
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", -1, "Number of queries to show (default from config)")
	return cmd
}

func printEntries(cmd *cobra.Command, ctx *commandContext, keyHeader, scoreHeader string, entries []ranking.Entry) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, entries)
	}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{strconv.Itoa(i + 1), e.Key, strconv.FormatInt(e.Score, 10)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", keyHeader, scoreHeader}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
	return nil
}
