package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// MaxWeight is the largest weight a member can be given on one expense.
const MaxWeight = 1_000_000

// Identity identifies a group member by email, with the display name they
// had when the record was written.
type Identity struct {
	Email string
	Name  string
}

// WeightedMember is one member selected for an expense together with the
// integer weight that controls their share.
type WeightedMember struct {
	Identity
	Weight int
}

// Share is one member's computed portion of an expense.
type Share struct {
	Identity
	Weight int
	Amount float64
}

// EqualWeights selects every member with the default weight of 1.
func EqualWeights(members []Identity) []WeightedMember {
	weighted := make([]WeightedMember, len(members))
	for i, m := range members {
		weighted[i] = WeightedMember{Identity: m, Weight: 1}
	}
	return weighted
}

// ComputeSplits divides total among members proportionally to their weights:
// share = total * weight / sum(weights). Amounts are not rounded.
func ComputeSplits(total float64, members []WeightedMember) ([]Share, error) {
	if len(members) == 0 {
		return nil, &InvalidSplitError{Reason: "at least one member must be selected"}
	}
	if total <= 0 {
		return nil, &InvalidSplitError{Reason: "total amount must be positive"}
	}

	sum := 0
	for _, m := range members {
		if m.Weight < 0 {
			return nil, &InvalidSplitError{Reason: "weight for " + m.Email + " is negative"}
		}
		if m.Weight > MaxWeight {
			return nil, &InvalidSplitError{Reason: fmt.Sprintf("weight for %s exceeds %d", m.Email, MaxWeight)}
		}
		sum += m.Weight
	}
	if sum == 0 {
		return nil, &InvalidSplitError{Reason: "at least one member must have a weight greater than 0"}
	}

	shares := make([]Share, len(members))
	for i, m := range members {
		shares[i] = Share{
			Identity: m.Identity,
			Weight:   m.Weight,
			Amount:   total * float64(m.Weight) / float64(sum),
		}
	}
	return shares, nil
}

// RoundShares rounds every share to cents for storage, so the stored amounts
// add up exactly to the rounded total. Each share is first truncated to cents;
// the cents left over go one each to the shares with the largest truncated
// remainder, earlier shares winning ties. Shares with weight 0 never receive
// a cent, and no share becomes negative.
func RoundShares(total float64, shares []Share) []Share {
	if len(shares) == 0 {
		return nil
	}

	amounts := make([]decimal.Decimal, len(shares))
	remainders := make([]decimal.Decimal, len(shares))
	sum := decimal.Zero
	for i, s := range shares {
		exact := toDecimal(s.Amount)
		amounts[i] = exact.Truncate(2)
		remainders[i] = exact.Sub(amounts[i])
		sum = sum.Add(amounts[i])
	}

	var order []int
	for i, s := range shares {
		if s.Weight > 0 {
			order = append(order, i)
		}
	}
	if len(order) == 0 {
		for i := range shares {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})

	cent := decimal.New(1, -2)
	leftover := toDecimal(total).Round(2).Sub(sum).Shift(2).IntPart()
	for k := int64(0); k < leftover; k++ {
		i := order[k%int64(len(order))]
		amounts[i] = amounts[i].Add(cent)
	}

	rounded := make([]Share, len(shares))
	for i, s := range shares {
		rounded[i] = s
		rounded[i].Amount = amounts[i].InexactFloat64()
	}
	return rounded
}
