package api

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type validatable interface{ Validate() error }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     validatable
		wantErr string
	}{
		{"create group ok", &CreateGroupRequest{Name: "Trip"}, ""},
		{"create group blank name", &CreateGroupRequest{Name: "   "}, "name is required"},
		{"join without code", &JoinGroupRequest{}, "code is required"},
		{"add member default role", &AddMemberRequest{GroupID: "g", Email: "a@x.com", Name: "A"}, ""},
		{"add member bad email", &AddMemberRequest{GroupID: "g", Email: "alice", Name: "A"}, `email "alice" is not a valid email`},
		{"add member bad role", &AddMemberRequest{GroupID: "g", Email: "a@x.com", Name: "A", Role: "owner"}, "role must be one of admin, member"},
		{"role update needs role", &UpdateMemberRoleRequest{GroupID: "g", Email: "a@x.com"}, "role is required"},
		{"role update bad role", &UpdateMemberRoleRequest{GroupID: "g", Email: "a@x.com", Role: "root"}, "role must be one of admin, member"},
		{
			"expense ok",
			&CreateExpenseRequest{GroupID: "g", Title: "Dinner", Amount: 90, Splits: []SplitWeight{{Email: "a@x.com", Weight: 1}, {Email: "b@x.com", Weight: 0}}},
			"",
		},
		{"expense zero amount", &CreateExpenseRequest{GroupID: "g", Title: "Dinner"}, "amount must be positive"},
		{"expense NaN amount", &CreateExpenseRequest{GroupID: "g", Title: "Dinner", Amount: math.NaN()}, "amount must be positive"},
		{"expense infinite amount", &CreateExpenseRequest{GroupID: "g", Title: "Dinner", Amount: math.Inf(1)}, "amount must be positive"},
		{
			"expense duplicate split",
			&CreateExpenseRequest{GroupID: "g", Title: "Dinner", Amount: 10, Splits: []SplitWeight{{Email: "a@x.com", Weight: 1}, {Email: " A@X.com", Weight: 2}}},
			"splits name the same member twice",
		},
		{
			"expense negative weight",
			&CreateExpenseRequest{GroupID: "g", Title: "Dinner", Amount: 10, Splits: []SplitWeight{{Email: "a@x.com", Weight: -1}}},
			"weight must be at least 0",
		},
		{
			"expense weight above the maximum",
			&CreateExpenseRequest{GroupID: "g", Title: "Dinner", Amount: 10, Splits: []SplitWeight{{Email: "a@x.com", Weight: 1_000_001}}},
			"weight must be at most 1000000",
		},
		{
			"expense split without email",
			&CreateExpenseRequest{GroupID: "g", Title: "Dinner", Amount: 10, Splits: []SplitWeight{{Weight: 1}}},
			"email is required",
		},
		{
			"preview split with bad email",
			&PreviewSplitsRequest{GroupID: "g", Amount: 10, Splits: []SplitWeight{{Email: "bob", Weight: 1}}},
			"is not a valid email",
		},
		{"update transfer negative amount", &UpdateTransferRequest{TransferID: "t", FromEmail: "a@x.com", ToEmail: "b@x.com", Amount: -5}, "amount must be positive"},
		{"preview needs group", &PreviewSplitsRequest{Amount: 10}, "groupId is required"},
		{"transfer needs recipient", &CreateTransferRequest{GroupID: "g", Amount: 5}, "toEmail is required"},
		{"audit bad entity type", &ListAuditEntriesRequest{GroupID: "g", EntityType: "user"}, "entityType must be one of group, expense, transfer"},
		{"audit expense entries", &ListAuditEntriesRequest{GroupID: "g", EntityType: "expense", Limit: 20}, ""},
		{"audit negative limit", &ListAuditEntriesRequest{GroupID: "g", Limit: -1}, "limit must be at least 0"},
		{"register missing password", &RegisterRequest{Email: "a@x.com", DisplayName: "A"}, "password is required"},
		{"register bad email", &RegisterRequest{Email: "not-an-email", DisplayName: "A", Password: "long enough"}, "is not a valid email"},
		{"current user", &GetCurrentUserRequest{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalid), "error should wrap ErrInvalid: %v", err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
