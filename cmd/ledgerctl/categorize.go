package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/sharedledger/internal/categorize"
)

func newCategorizeCmd(opts *options) *cobra.Command {
	var (
		description string
		amount      float64
		kind        string
	)

	cmd := &cobra.Command{
		Use:   "categorize <title>",
		Short: "Suggest a category for an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind == "" {
				kind = opts.cfg.Categorizer
			}

			resolver := &categorize.Resolver{Timeout: opts.cfg.CategorizeTimeout}
			if kind != "none" {
				c, err := categorize.New(kind, opts.cfg.OpenAIAPIKey, opts.cfg.OpenAIModel)
				if err != nil {
					return err
				}
				resolver.Categorizer = c
			}

			var fallback string
			resolver.OnFallback = func(reason string) { fallback = reason }

			analysis := resolver.Resolve(cmd.Context(), "", categorize.Input{
				Title:       args[0],
				Description: description,
				Amount:      amount,
			})

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"category":   analysis.Category,
					"confidence": analysis.Confidence,
					"fallback":   fallback,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (confidence %.2f)\n", analysis.Category, analysis.Confidence)
			if fallback != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "default category used: %s\n", fallback)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Expense description")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Expense amount")
	cmd.Flags().StringVar(&kind, "categorizer", "", "keyword, openai or none (default: CATEGORIZER)")
	return cmd
}
