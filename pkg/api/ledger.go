package api

type GetBalancesRequest struct {
	GroupID string `json:"groupId" validate:"nonblank"`
}

func (r *GetBalancesRequest) Validate() error { return check(r) }

type GetBalancesResponse struct {
	Balances    []*Balance    `json:"balances"`
	Settlements []*Settlement `json:"settlements"`
}

type GetInsightsRequest struct {
	GroupID string `json:"groupId" validate:"nonblank"`
}

func (r *GetInsightsRequest) Validate() error { return check(r) }

type GetInsightsResponse struct {
	TotalSpent        float64          `json:"totalSpent"`
	ExpenseCount      int              `json:"expenseCount"`
	CategoryBreakdown []*CategoryTotal `json:"categoryBreakdown"`
}

type ListAuditEntriesRequest struct {
	GroupID    string `json:"groupId" validate:"nonblank"`
	EntityType string `json:"entityType,omitempty" validate:"omitempty,oneof=group expense transfer"`
	EntityID   string `json:"entityId,omitempty"`
	Limit      int    `json:"limit,omitempty" validate:"min=0"`
}

func (r *ListAuditEntriesRequest) Validate() error { return check(r) }

type ListAuditEntriesResponse struct {
	Entries []*AuditEntry `json:"entries"`
}
