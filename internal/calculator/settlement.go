package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Settlement is a suggested payment from a debtor to a creditor.
type Settlement struct {
	From   Identity // Person who owes
	To     Identity // Person who is owed
	Amount float64
}

type position struct {
	Identity
	remaining decimal.Decimal
}

// PlanSettlements suggests payments that bring every balance to zero.
//
// Greedy matching: creditors sorted by balance descending, debtors by
// balance ascending (largest debt first), both with stable sorts so equal
// balances keep their input order. Each step settles min(credit, |debt|)
// and advances whichever side reached zero. The plan is not guaranteed to
// use the fewest possible payments.
func PlanSettlements(balances []MemberBalance) []Settlement {
	eps := decimal.NewFromFloat(Epsilon)

	var creditors, debtors []*position
	for _, b := range balances {
		net := toDecimal(b.NetBalance).Round(2)
		switch {
		case net.GreaterThan(eps):
			creditors = append(creditors, &position{Identity: b.Identity, remaining: net})
		case net.LessThan(eps.Neg()):
			debtors = append(debtors, &position{Identity: b.Identity, remaining: net})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].remaining.GreaterThan(creditors[j].remaining)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].remaining.LessThan(debtors[j].remaining)
	})

	var plan []Settlement
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := creditors[i]
		debtor := debtors[j]

		amount := decimal.Min(creditor.remaining, debtor.remaining.Abs())
		if !amount.GreaterThan(eps) {
			break
		}

		amount = amount.Round(2)
		plan = append(plan, Settlement{
			From:   debtor.Identity,
			To:     creditor.Identity,
			Amount: amount.InexactFloat64(),
		})
		creditor.remaining = creditor.remaining.Sub(amount).Round(2)
		debtor.remaining = debtor.remaining.Add(amount).Round(2)

		if settled(creditor.remaining) {
			i++
		}
		if settled(debtor.remaining) {
			j++
		}
	}

	return plan
}

// ApplySettlements returns a copy of balances with every payment of plan
// applied: the payer's balance rises, the receiver's falls.
func ApplySettlements(balances []MemberBalance, plan []Settlement) []MemberBalance {
	out := make([]MemberBalance, len(balances))
	copy(out, balances)

	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.Email] = i
	}

	for _, s := range plan {
		amount := toDecimal(s.Amount)
		if i, ok := index[s.From.Email]; ok {
			out[i].NetBalance = fromDecimal(toDecimal(out[i].NetBalance).Add(amount))
		}
		if i, ok := index[s.To.Email]; ok {
			out[i].NetBalance = fromDecimal(toDecimal(out[i].NetBalance).Sub(amount))
		}
	}
	return out
}
