package calculator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SplitForBalance is the persisted share of one expense owed by one member.
type SplitForBalance struct {
	Email  string
	Name   string
	Amount float64
}

// ExpenseForBalance represents an expense with the minimal information needed
// for balance calculations.
type ExpenseForBalance struct {
	ID     string
	Amount float64
	Payer  Identity
	Splits []SplitForBalance
}

// TransferForBalance represents a direct payment between two members.
type TransferForBalance struct {
	ID     string
	From   Identity // sender, settling debt
	To     Identity // receiver
	Amount float64
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	Identity
	TotalPaid  float64 // Sum of expenses this member paid for
	TotalOwed  float64 // Sum of this member's split amounts
	NetBalance float64 // Positive = owed money, Negative = owes money

	// Former is set for identities that are no longer group members and were
	// surfaced because of IncludeMissingMembers.
	Former bool
}

// MissingMemberPolicy decides what happens to ledger entries that reference
// an identity absent from the membership snapshot.
type MissingMemberPolicy int

const (
	// SkipMissingMembers silently drops contributions of non-members.
	SkipMissingMembers MissingMemberPolicy = iota
	// IncludeMissingMembers reports non-members as former-member balances.
	IncludeMissingMembers
)

func (p MissingMemberPolicy) String() string {
	switch p {
	case IncludeMissingMembers:
		return "include"
	default:
		return "skip"
	}
}

// ParseMissingMemberPolicy parses "skip" or "include". The empty string means skip.
func ParseMissingMemberPolicy(s string) (MissingMemberPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return SkipMissingMembers, nil
	case "include":
		return IncludeMissingMembers, nil
	default:
		return SkipMissingMembers, fmt.Errorf("unknown missing member policy %q (want skip or include)", s)
	}
}

// AggregateOptions tunes AggregateBalances.
type AggregateOptions struct {
	MissingMembers MissingMemberPolicy
}

// MissingMemberRef records one ledger reference to an identity that was not
// in the membership snapshot.
type MissingMemberRef struct {
	Email    string
	Kind     string // payer, split, transfer_from, transfer_to
	SourceID string // expense or transfer ID
}

// AggregateReport is the full result of a balance aggregation.
type AggregateReport struct {
	Balances []MemberBalance
	Missing  []MissingMemberRef
}

type account struct {
	Identity
	paid   decimal.Decimal
	owed   decimal.Decimal
	net    decimal.Decimal
	former bool
}

// AggregateBalances computes every member's net balance from the group's
// expense and transfer history. See Aggregate.
func AggregateBalances(members []Identity, expenses []ExpenseForBalance, transfers []TransferForBalance, opts AggregateOptions) []MemberBalance {
	return Aggregate(members, expenses, transfers, opts).Balances
}

// Aggregate computes balances across expenses and transfers.
//
// Algorithm:
//   - For each expense: payer's total_paid += amount, each split member's
//     total_owed += split amount
//   - net_balance = total_paid - total_owed
//   - For each transfer: sender's net_balance += amount, receiver's -= amount
//   - Round everything to cents
//
// Transfers are applied after all expenses regardless of dates. Sums are
// exact decimals, so the result does not depend on input order. Balances
// follow the order of members; former members (IncludeMissingMembers) come
// last, sorted by email.
func Aggregate(members []Identity, expenses []ExpenseForBalance, transfers []TransferForBalance, opts AggregateOptions) AggregateReport {
	accounts := make(map[string]*account, len(members))
	order := make([]string, 0, len(members))
	for _, m := range members {
		if _, exists := accounts[m.Email]; exists {
			continue
		}
		accounts[m.Email] = &account{Identity: m}
		order = append(order, m.Email)
	}

	var report AggregateReport
	var formers []string

	lookup := func(id Identity, kind, sourceID string) *account {
		if acc, ok := accounts[id.Email]; ok {
			if acc.former {
				report.Missing = append(report.Missing, MissingMemberRef{Email: id.Email, Kind: kind, SourceID: sourceID})
				if id.Name != "" && (acc.Name == "" || id.Name < acc.Name) {
					acc.Name = id.Name
				}
			}
			return acc
		}
		report.Missing = append(report.Missing, MissingMemberRef{Email: id.Email, Kind: kind, SourceID: sourceID})
		if opts.MissingMembers != IncludeMissingMembers {
			return nil
		}
		acc := &account{Identity: id, former: true}
		accounts[id.Email] = acc
		formers = append(formers, id.Email)
		return acc
	}

	for _, exp := range expenses {
		if payer := lookup(exp.Payer, "payer", exp.ID); payer != nil {
			payer.paid = payer.paid.Add(toDecimal(exp.Amount))
		}
		for _, split := range exp.Splits {
			owner := lookup(Identity{Email: split.Email, Name: split.Name}, "split", exp.ID)
			if owner == nil {
				continue
			}
			owner.owed = owner.owed.Add(toDecimal(split.Amount))
		}
	}

	for _, acc := range accounts {
		acc.net = acc.paid.Sub(acc.owed)
	}

	for _, t := range transfers {
		amount := toDecimal(t.Amount)
		if from := lookup(t.From, "transfer_from", t.ID); from != nil {
			from.net = from.net.Add(amount)
		}
		if to := lookup(t.To, "transfer_to", t.ID); to != nil {
			to.net = to.net.Sub(amount)
		}
	}

	sort.Strings(formers)
	order = append(order, formers...)

	report.Balances = make([]MemberBalance, 0, len(order))
	for _, email := range order {
		acc := accounts[email]
		report.Balances = append(report.Balances, MemberBalance{
			Identity:   acc.Identity,
			TotalPaid:  fromDecimal(acc.paid),
			TotalOwed:  fromDecimal(acc.owed),
			NetBalance: fromDecimal(acc.net),
			Former:     acc.former,
		})
	}

	sort.Slice(report.Missing, func(i, j int) bool {
		a, b := report.Missing[i], report.Missing[j]
		if a.SourceID != b.SourceID {
			return a.SourceID < b.SourceID
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Email < b.Email
	})

	return report
}
