package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/cards"
)

func newCardsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List every loaded card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			return printCards(cmd, ctx, s.Cards())
		},
	}
}

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	criteria := cards.AnyCard()
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Filter cards by annual fee, interest rate and rewards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			matched := s.Recommend(criteria)
			if len(matched) == 0 && !ctx.jsonOutput() {
				fmt.Fprintln(cmd.OutOrStdout(), "No cards matched your criteria.")
				return nil
			}
			return printCards(cmd, ctx, matched)
		},
	}
	cmd.Flags().Float64Var(&criteria.MaxAnnualFee, "max-fee", cards.NoBound, "Maximum annual fee (negative for no limit)")
	cmd.Flags().Float64Var(&criteria.MaxInterestRate, "max-rate", cards.NoBound, "Maximum purchase interest rate (negative for no limit)")
	cmd.Flags().StringVar(&criteria.RewardsKeyword, "rewards", "", "Keyword the rewards must contain")
	return cmd
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var onlyInvalid bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every card's fee, rate and rewards fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			results := s.Validate()
			if onlyInvalid {
				filtered := results[:0]
				for _, r := range results {
					if !r.Valid() {
						filtered = append(filtered, r)
					}
				}
				results = filtered
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, results)
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "All card data is valid!")
				return nil
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					r.Name,
					fieldCell(r.AnnualFee), fieldCell(r.InterestRate), fieldCell(r.Rewards),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Card", "Annual Fee", "Interest Rate", "Rewards"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&onlyInvalid, "invalid", false, "Show only cards with an invalid field")
	return cmd
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "match <pattern>",
		Short: "Find cards whose rewards match a regular expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSession()
			if err != nil {
				return err
			}
			matched, err := s.MatchRewards(args[0])
			if err != nil {
				return err
			}
			if len(matched) == 0 && !ctx.jsonOutput() {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches found for the given pattern.")
				return nil
			}
			return printCards(cmd, ctx, matched)
		},
	}
}

func fieldCell(f cards.FieldStatus) string {
	if f.Valid {
		return f.Value
	}
	return f.Value + " (invalid)"
}

func printCards(cmd *cobra.Command, ctx *commandContext, cs []cards.Card) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, cs)
	}
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{c.Name, c.Bank, amount(c.AnnualFee), amount(c.InterestRate), c.Rewards})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Card", "Bank", "Annual Fee", "Interest Rate", "Rewards"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	return nil
}

func amount(v float64) string {
	if v == cards.Missing {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
