package calculator

import "github.com/shopspring/decimal"

// Epsilon is the tolerance used when deciding whether a balance is settled.
// Balances live on the cent grid, so any non-zero balance exceeds it.
const Epsilon = 0.005

// Round2 rounds an amount to cents, half away from zero.
func Round2(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

func toDecimal(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount)
}

func fromDecimal(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func settled(d decimal.Decimal) bool {
	return d.Abs().LessThan(decimal.NewFromFloat(Epsilon))
}
