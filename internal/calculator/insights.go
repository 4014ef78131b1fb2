package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryExpense is the slice of an expense needed for spending insights.
type CategoryExpense struct {
	Category string
	Amount   float64
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category   string
	Amount     float64
	Percentage float64
}

// Insights summarizes a group's spending.
type Insights struct {
	TotalSpent   float64
	ExpenseCount int
	Breakdown    []CategoryTotal // Largest first
}

// SummarizeCategories totals expenses per category.
func SummarizeCategories(expenses []CategoryExpense) Insights {
	total := decimal.Zero
	perCategory := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		amount := toDecimal(e.Amount)
		total = total.Add(amount)
		perCategory[e.Category] = perCategory[e.Category].Add(amount)
	}

	breakdown := make([]CategoryTotal, 0, len(perCategory))
	hundred := decimal.NewFromInt(100)
	for category, amount := range perCategory {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = amount.Div(total).Mul(hundred)
		}
		breakdown = append(breakdown, CategoryTotal{
			Category:   category,
			Amount:     fromDecimal(amount),
			Percentage: fromDecimal(pct),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount != breakdown[j].Amount {
			return breakdown[i].Amount > breakdown[j].Amount
		}
		return breakdown[i].Category < breakdown[j].Category
	})

	return Insights{
		TotalSpent:   fromDecimal(total),
		ExpenseCount: len(expenses),
		Breakdown:    breakdown,
	}
}
