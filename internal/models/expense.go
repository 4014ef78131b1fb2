package models

// Expense represents a shared cost paid by one member and split among
// several. The amounts of its splits add up to Amount.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group whose ledger this expense belongs to.
	GroupID string

	Title       string
	Description string

	// Amount is the total paid, always positive.
	Amount float64

	// Date is the Unix timestamp the expense happened.
	Date int64

	// Category is the category shown to users. It is either chosen by the
	// creator or suggested by the categorizer.
	Category string

	// AICategory records what the categorizer suggested. It is empty when
	// the user chose the category.
	// AIConfidence is the confidence in Category: 1 when the user chose it.
	AICategory   string
	AIConfidence float64

	PaidByEmail string
	PaidByName  string

	Splits []Split

	CreatedAt int64
	UpdatedAt int64
}

// Split is one member's share of an expense.
type Split struct {
	ExpenseID string

	Email string
	Name  string

	// Weight is the ratio the creator assigned to this member (default 1).
	Weight int

	// Amount is Weight / sum(weights) of the expense amount, rounded to cents.
	Amount float64
}
