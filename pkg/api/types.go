package api

import "encoding/json"

// User is a registered account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

// Group is a ledger shared by its members.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Code        string `json:"code"`
	Archived    bool   `json:"archived"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   int64  `json:"createdAt"`
}

// Member is one user's membership in a group.
type Member struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joinedAt"`
}

// SplitWeight selects a member for an expense split with a ratio weight.
type SplitWeight struct {
	Email  string `json:"email" validate:"nonblank,email"`
	Weight int    `json:"weight" validate:"min=0,max=1000000"`
}

// Split is a member's persisted share of an expense.
type Split struct {
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Weight int     `json:"weight"`
	Amount float64 `json:"amount"`
}

// Expense is a shared cost.
type Expense struct {
	ID           string  `json:"id"`
	GroupID      string  `json:"groupId"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Amount       float64 `json:"amount"`
	Date         int64   `json:"date"`
	Category     string  `json:"category"`
	AICategory   string  `json:"aiCategory,omitempty"`
	AIConfidence float64 `json:"aiConfidence"`
	PaidByEmail  string  `json:"paidByEmail"`
	PaidByName   string  `json:"paidByName"`
	Splits       []Split `json:"splits"`
	CreatedAt    int64   `json:"createdAt"`
	UpdatedAt    int64   `json:"updatedAt"`
}

// Transfer is a direct payment between two members.
type Transfer struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"groupId"`
	FromEmail   string  `json:"fromEmail"`
	FromName    string  `json:"fromName"`
	ToEmail     string  `json:"toEmail"`
	ToName      string  `json:"toName"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	Date        int64   `json:"date"`
	CreatedAt   int64   `json:"createdAt"`
}

// Balance is a member's standing in a group.
// NetBalance > 0 means the member is owed money.
type Balance struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	TotalPaid  float64 `json:"totalPaid"`
	TotalOwed  float64 `json:"totalOwed"`
	NetBalance float64 `json:"netBalance"`
	Former     bool    `json:"former,omitempty"`
}

// Settlement is a suggested payment.
type Settlement struct {
	FromEmail string  `json:"fromEmail"`
	FromName  string  `json:"fromName"`
	ToEmail   string  `json:"toEmail"`
	ToName    string  `json:"toName"`
	Amount    float64 `json:"amount"`
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// AuditEntry is one change in a group's activity trail.
type AuditEntry struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	Changes    json.RawMessage `json:"changes"`
	ActorEmail string          `json:"actorEmail"`
	ActorName  string          `json:"actorName"`
	CreatedAt  int64           `json:"createdAt"`
}
