package api

// PreviewSplitsRequest computes split amounts without storing anything.
// Empty Splits means an equal split among all current members.
type PreviewSplitsRequest struct {
	GroupID string        `json:"groupId" validate:"nonblank"`
	Amount  float64       `json:"amount" validate:"positive_amount"`
	Splits  []SplitWeight `json:"splits,omitempty" validate:"distinct_members,dive"`
}

func (r *PreviewSplitsRequest) Validate() error { return check(r) }

type PreviewSplitsResponse struct {
	Splits []Split `json:"splits"`
}

// CreateExpenseRequest records an expense. PaidByEmail defaults to the
// caller, Date to now, and an empty Category asks the categorizer.
type CreateExpenseRequest struct {
	GroupID     string        `json:"groupId" validate:"nonblank"`
	Title       string        `json:"title" validate:"nonblank"`
	Description string        `json:"description,omitempty"`
	Amount      float64       `json:"amount" validate:"positive_amount"`
	Date        int64         `json:"date,omitempty"`
	Category    string        `json:"category,omitempty"`
	PaidByEmail string        `json:"paidByEmail,omitempty"`
	Splits      []SplitWeight `json:"splits,omitempty" validate:"distinct_members,dive"`
}

func (r *CreateExpenseRequest) Validate() error { return check(r) }

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expenseId" validate:"nonblank"`
}

func (r *GetExpenseRequest) Validate() error { return check(r) }

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId" validate:"nonblank"`
}

func (r *ListExpensesRequest) Validate() error { return check(r) }

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// UpdateExpenseRequest replaces an expense. Empty Splits keeps the current
// weights and recomputes the amounts; empty Category keeps the current one.
type UpdateExpenseRequest struct {
	ExpenseID   string        `json:"expenseId" validate:"nonblank"`
	Title       string        `json:"title" validate:"nonblank"`
	Description string        `json:"description,omitempty"`
	Amount      float64       `json:"amount" validate:"positive_amount"`
	Date        int64         `json:"date,omitempty"`
	Category    string        `json:"category,omitempty"`
	PaidByEmail string        `json:"paidByEmail,omitempty"`
	Splits      []SplitWeight `json:"splits,omitempty" validate:"distinct_members,dive"`
}

func (r *UpdateExpenseRequest) Validate() error { return check(r) }

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId" validate:"nonblank"`
}

func (r *DeleteExpenseRequest) Validate() error { return check(r) }

type DeleteExpenseResponse struct{}
