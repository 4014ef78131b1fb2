package main

import (
	"errors"
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/sharedledger/internal/calculator"
	"github.com/mmynk/sharedledger/internal/service"
)

// settleTolerance is the largest residual accepted by --verify.
const settleTolerance = 0.01

type balanceRow struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	TotalPaid  float64 `json:"totalPaid"`
	TotalOwed  float64 `json:"totalOwed"`
	NetBalance float64 `json:"netBalance"`
	Former     bool    `json:"former,omitempty"`
}

type paymentRow struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

func newBalancesCmd(opts *options) *cobra.Command {
	var (
		missing string
		verify  bool
	)

	cmd := &cobra.Command{
		Use:   "balances <group-id>",
		Short: "Show a group's balances and suggested settlement payments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if missing == "" {
				missing = opts.cfg.MissingMembers
			}
			policy, err := calculator.ParseMissingMemberPolicy(missing)
			if err != nil {
				return err
			}

			store, err := opts.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			if _, err := store.GetGroup(ctx, args[0]); err != nil {
				return err
			}
			result, err := service.ComputeBalances(ctx, store, args[0], calculator.AggregateOptions{MissingMembers: policy})
			if err != nil {
				return err
			}

			if verify {
				if err := verifySettles(result); err != nil {
					return err
				}
			}

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"balances":    balanceRows(result.Balances),
					"settlements": paymentRows(result.Settlements),
				})
			}
			return printBalances(cmd, result, verify)
		},
	}

	cmd.Flags().StringVar(&missing, "missing-members", "", "Policy for entries of former members: skip or include (default: LEDGER_MISSING_MEMBERS)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Fail unless the suggested payments settle every balance")
	return cmd
}

// verifySettles checks that applying the plan leaves every balance at zero.
func verifySettles(b *service.Balances) error {
	var errs []error
	for _, mb := range calculator.ApplySettlements(b.Balances, b.Settlements) {
		if math.Abs(mb.NetBalance) > settleTolerance {
			errs = append(errs, fmt.Errorf("%s is left with %.2f", mb.Email, mb.NetBalance))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("settlement plan does not settle the group: %w", errors.Join(errs...))
	}
	return nil
}

func printBalances(cmd *cobra.Command, b *service.Balances, verified bool) error {
	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MEMBER\tPAID\tOWED\tNET")
	for _, mb := range b.Balances {
		name := mb.Name
		if mb.Former {
			name += " (former)"
		}
		fmt.Fprintf(tw, "%s <%s>\t%.2f\t%.2f\t%+.2f\n", name, mb.Email, mb.TotalPaid, mb.TotalOwed, mb.NetBalance)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if len(b.Settlements) == 0 {
		fmt.Fprintln(out, "All settled up.")
	}
	for _, s := range b.Settlements {
		fmt.Fprintf(out, "%s pays %s %.2f\n", s.From.Name, s.To.Name, s.Amount)
	}
	if len(b.Missing) > 0 {
		fmt.Fprintf(out, "\n%d ledger entries reference former members.\n", len(b.Missing))
	}
	if verified {
		fmt.Fprintln(out, "Plan verified.")
	}
	return nil
}

func balanceRows(balances []calculator.MemberBalance) []balanceRow {
	rows := make([]balanceRow, len(balances))
	for i, mb := range balances {
		rows[i] = balanceRow{
			Email:      mb.Email,
			Name:       mb.Name,
			TotalPaid:  mb.TotalPaid,
			TotalOwed:  mb.TotalOwed,
			NetBalance: mb.NetBalance,
			Former:     mb.Former,
		}
	}
	return rows
}

func paymentRows(settlements []calculator.Settlement) []paymentRow {
	rows := make([]paymentRow, len(settlements))
	for i, s := range settlements {
		rows[i] = paymentRow{From: s.From.Email, To: s.To.Email, Amount: s.Amount}
	}
	return rows
}
