package service

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/sharedledger/internal/calculator"
	"github.com/mmynk/sharedledger/internal/categorize"
	"github.com/mmynk/sharedledger/pkg/api"
)

type stubCategorizer struct {
	analysis categorize.Analysis
	err      error
	calls    int
}

func (s *stubCategorizer) Categorize(context.Context, categorize.Input) (categorize.Analysis, error) {
	s.calls++
	return s.analysis, s.err
}

func splitAmounts(splits []api.Split) map[string]float64 {
	out := make(map[string]float64, len(splits))
	for _, s := range splits {
		out[s.Email] = s.Amount
	}
	return out
}

func TestPreviewSplits(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.newGroup(t, alice, bob, carol)

	tests := []struct {
		name     string
		amount   float64
		splits   []api.SplitWeight
		want     map[string]float64
		wantCode connect.Code
	}{
		{
			name:   "empty selection splits equally among members",
			amount: 90,
			want:   map[string]float64{alice.email: 30, bob.email: 30, carol.email: 30},
		},
		{
			name:   "weighted 3:1",
			amount: 100,
			splits: []api.SplitWeight{{Email: alice.email, Weight: 3}, {Email: bob.email, Weight: 1}},
			want:   map[string]float64{alice.email: 75, bob.email: 25},
		},
		{
			name:   "leftover cent goes to the largest remainder",
			amount: 100,
			want:   map[string]float64{alice.email: 33.34, bob.email: 33.33, carol.email: 33.33},
		},
		{
			name:   "zero weight member never gets the leftover cent",
			amount: 0.01,
			splits: []api.SplitWeight{{Email: alice.email, Weight: 0}, {Email: bob.email, Weight: 1}, {Email: carol.email, Weight: 1}},
			want:   map[string]float64{alice.email: 0, bob.email: 0.01, carol.email: 0},
		},
		{
			name:     "weight above the maximum",
			amount:   10,
			splits:   []api.SplitWeight{{Email: alice.email, Weight: calculator.MaxWeight + 1}},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "all zero weights",
			amount:   10,
			splits:   []api.SplitWeight{{Email: alice.email, Weight: 0}, {Email: bob.email, Weight: 0}},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "non-member",
			amount:   10,
			splits:   []api.SplitWeight{{Email: dave.email, Weight: 1}},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "negative weight",
			amount:   10,
			splits:   []api.SplitWeight{{Email: alice.email, Weight: -1}},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "zero amount",
			amount:   0,
			wantCode: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.expenses.PreviewSplits(ctx, as(alice, &api.PreviewSplitsRequest{
				GroupID: group.ID,
				Amount:  tt.amount,
				Splits:  tt.splits,
			}))
			if tt.wantCode != 0 {
				requireCode(t, tt.wantCode, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, splitAmounts(resp.Msg.Splits))
		})
	}
}

func TestCreateExpense_And_GetExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.newGroup(t, alice, bob, carol)

	created := env.addExpense(t, alice, &api.CreateExpenseRequest{
		GroupID:  group.ID,
		Title:    "Dinner",
		Amount:   90,
		Date:     1714000000,
		Category: "food & dining",
	})
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, alice.email, created.PaidByEmail)
	assert.Equal(t, "Alice", created.PaidByName)
	assert.Equal(t, "Food & Dining", created.Category)
	assert.Empty(t, created.AICategory)
	assert.Equal(t, 1.0, created.AIConfidence)
	assert.Equal(t, int64(1714000000), created.Date)
	require.Len(t, created.Splits, 3)

	resp, err := env.expenses.GetExpense(ctx, as(bob, &api.GetExpenseRequest{ExpenseID: created.ID}))
	require.NoError(t, err)
	got := resp.Msg.Expense
	assert.Equal(t, "Dinner", got.Title)
	assert.Equal(t, 90.0, got.Amount)
	assert.Equal(t, map[string]float64{alice.email: 30, bob.email: 30, carol.email: 30}, splitAmounts(got.Splits))
	for _, s := range got.Splits {
		assert.Equal(t, 1, s.Weight)
	}

	_, err = env.expenses.GetExpense(ctx, as(dave, &api.GetExpenseRequest{ExpenseID: created.ID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.expenses.GetExpense(ctx, as(alice, &api.GetExpenseRequest{ExpenseID: "non-existent-id"}))
	requireCode(t, connect.CodeNotFound, err)
}

func TestCreateExpense_Validation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.newGroup(t, alice, bob)

	tests := []struct {
		name string
		req  *api.CreateExpenseRequest
		code connect.Code
	}{
		{"missing title", &api.CreateExpenseRequest{GroupID: group.ID, Amount: 10}, connect.CodeInvalidArgument},
		{"negative amount", &api.CreateExpenseRequest{GroupID: group.ID, Title: "X", Amount: -1}, connect.CodeInvalidArgument},
		{"payer not a member", &api.CreateExpenseRequest{GroupID: group.ID, Title: "X", Amount: 10, PaidByEmail: dave.email}, connect.CodeInvalidArgument},
		{"unknown category", &api.CreateExpenseRequest{GroupID: group.ID, Title: "X", Amount: 10, Category: "Crypto"}, connect.CodeInvalidArgument},
		{"all zero weights", &api.CreateExpenseRequest{
			GroupID: group.ID, Title: "X", Amount: 10,
			Splits: []api.SplitWeight{{Email: alice.email}, {Email: bob.email}},
		}, connect.CodeInvalidArgument},
		{"duplicate split member", &api.CreateExpenseRequest{
			GroupID: group.ID, Title: "X", Amount: 10,
			Splits: []api.SplitWeight{{Email: alice.email, Weight: 1}, {Email: "ALICE@example.com", Weight: 1}},
		}, connect.CodeInvalidArgument},
		{"unknown group", &api.CreateExpenseRequest{GroupID: "non-existent-id", Title: "X", Amount: 10}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.expenses.CreateExpense(ctx, as(alice, tt.req))
			requireCode(t, tt.code, err)
		})
	}

	// Nothing was written.
	list, err := env.expenses.ListExpenses(ctx, as(alice, &api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Expenses)
}

func TestCreateExpense_Categorization(t *testing.T) {
	t.Run("oracle suggestion is stored", func(t *testing.T) {
		oracle := &stubCategorizer{analysis: categorize.Analysis{Category: "transportation", Confidence: 0.8}}
		env := setupTestServerWith(t, envOptions{categorizer: oracle})
		group := env.newGroup(t, alice, bob)

		exp := env.addExpense(t, alice, &api.CreateExpenseRequest{GroupID: group.ID, Title: "Uber", Amount: 12})
		assert.Equal(t, "Transportation", exp.Category)
		assert.Equal(t, "Transportation", exp.AICategory)
		assert.Equal(t, 0.8, exp.AIConfidence)
		assert.Equal(t, 1, oracle.calls)
	})

	t.Run("user category skips the oracle", func(t *testing.T) {
		oracle := &stubCategorizer{analysis: categorize.Analysis{Category: "Shopping", Confidence: 0.9}}
		env := setupTestServerWith(t, envOptions{categorizer: oracle})
		group := env.newGroup(t, alice)

		exp := env.addExpense(t, alice, &api.CreateExpenseRequest{GroupID: group.ID, Title: "Bread", Amount: 3, Category: "Groceries"})
		assert.Equal(t, "Groceries", exp.Category)
		assert.Empty(t, exp.AICategory, "no suggestion was made")
		assert.Equal(t, 1.0, exp.AIConfidence)
		assert.Zero(t, oracle.calls)
	})

	t.Run("oracle failure degrades to the default", func(t *testing.T) {
		oracle := &stubCategorizer{err: errors.New("upstream unavailable")}
		env := setupTestServerWith(t, envOptions{categorizer: oracle})
		group := env.newGroup(t, alice)

		exp := env.addExpense(t, alice, &api.CreateExpenseRequest{GroupID: group.ID, Title: "Thing", Amount: 3})
		assert.Equal(t, categorize.Other, exp.Category)
		assert.Equal(t, 0.5, exp.AIConfidence)
	})

	t.Run("no oracle", func(t *testing.T) {
		env := setupTestServer(t)
		group := env.newGroup(t, alice)

		exp := env.addExpense(t, alice, &api.CreateExpenseRequest{GroupID: group.ID, Title: "Thing", Amount: 3})
		assert.Equal(t, categorize.Other, exp.Category)
	})
}

func TestListExpenses(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.newGroup(t, alice, bob)
	other := env.newGroup(t, bob)

	env.addExpense(t, alice, &api.CreateExpenseRequest{GroupID: group.ID, Title: "Older", Amount: 10, Date: 1000})
	env.addExpense(t, bob, &api.CreateExpenseRequest{GroupID: group.ID, Title: "Newer", Amount: 20, Date: 2000})
	env.addExpense(t, bob, &api.CreateExpenseRequest{GroupID: other.ID, Title: "Elsewhere", Amount: 5})

	resp, err := env.expenses.ListExpenses(ctx, as(alice, &api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Expenses, 2)
	assert.Equal(t, "Newer", resp.Msg.Expenses[0].Title)
	assert.Equal(t, bob.email, resp.Msg.Expenses[0].PaidByEmail)
	assert.Len(t, resp.Msg.Expenses[0].Splits, 2)
	assert.Equal(t, "Older", resp.Msg.Expenses[1].Title)

	_, err = env.expenses.ListExpenses(ctx, as(alice, &api.ListExpensesRequest{GroupID: other.ID}))
	requireCode(t, connect.CodePermissionDenied, err)
}

func TestUpdateExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.newGroup(t, alice, bob)

	created := env.addExpense(t, alice, &api.CreateExpenseRequest{
		GroupID:  group.ID,
		Title:    "Groceries",
		Amount:   100,
		Category: "Groceries",
		Splits:   []api.SplitWeight{{Email: alice.email, Weight: 3}, {Email: bob.email, Weight: 1}},
	})

	t.Run("keeps weights when no splits are sent", func(t *testing.T) {
		resp, err := env.expenses.UpdateExpense(ctx, as(bob, &api.UpdateExpenseRequest{
			ExpenseID: created.ID,
			Title:     "Groceries and wine",
			Amount:    200,
		}))
		require.NoError(t, err)
		got := resp.Msg.Expense
		assert.Equal(t, "Groceries and wine", got.Title)
		assert.Equal(t, 200.0, got.Amount)
		assert.Equal(t, "Groceries", got.Category)
		assert.Equal(t, alice.email, got.PaidByEmail)
		assert.Equal(t, map[string]float64{alice.email: 150, bob.email: 50}, splitAmounts(got.Splits))
	})

	t.Run("replaces splits and payer", func(t *testing.T) {
		resp, err := env.expenses.UpdateExpense(ctx, as(alice, &api.UpdateExpenseRequest{
			ExpenseID:   created.ID,
			Title:       "Groceries",
			Amount:      60,
			PaidByEmail: bob.email,
			Category:    "Shopping",
			Splits:      []api.SplitWeight{{Email: alice.email, Weight: 1}, {Email: bob.email, Weight: 1}},
		}))
		require.NoError(t, err)
		got := resp.Msg.Expense
		assert.Equal(t, bob.email, got.PaidByEmail)
		assert.Equal(t, "Shopping", got.Category)
		assert.Equal(t, map[string]float64{alice.email: 30, bob.email: 30}, splitAmounts(got.Splits))
	})

	t.Run("invalid split leaves the expense untouched", func(t *testing.T) {
		_, err := env.expenses.UpdateExpense(ctx, as(alice, &api.UpdateExpenseRequest{
			ExpenseID: created.ID,
			Title:     "Broken",
			Amount:    60,
			Splits:    []api.SplitWeight{{Email: alice.email, Weight: 0}},
		}))
		requireCode(t, connect.CodeInvalidArgument, err)

		resp, err := env.expenses.GetExpense(ctx, as(alice, &api.GetExpenseRequest{ExpenseID: created.ID}))
		require.NoError(t, err)
		assert.Equal(t, "Groceries", resp.Msg.Expense.Title)
		assert.Len(t, resp.Msg.Expense.Splits, 2)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := env.expenses.UpdateExpense(ctx, as(alice, &api.UpdateExpenseRequest{
			ExpenseID: "non-existent-id", Title: "X", Amount: 1,
		}))
		requireCode(t, connect.CodeNotFound, err)
	})
}

func TestDeleteExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := env.newGroup(t, alice, bob)
	created := env.addExpense(t, alice, &api.CreateExpenseRequest{GroupID: group.ID, Title: "Dinner", Amount: 40})

	_, err := env.expenses.DeleteExpense(ctx, as(carol, &api.DeleteExpenseRequest{ExpenseID: created.ID}))
	requireCode(t, connect.CodePermissionDenied, err)

	_, err = env.expenses.DeleteExpense(ctx, as(bob, &api.DeleteExpenseRequest{ExpenseID: created.ID}))
	require.NoError(t, err)

	_, err = env.expenses.GetExpense(ctx, as(alice, &api.GetExpenseRequest{ExpenseID: created.ID}))
	requireCode(t, connect.CodeNotFound, err)

	_, err = env.expenses.DeleteExpense(ctx, as(bob, &api.DeleteExpenseRequest{ExpenseID: created.ID}))
	requireCode(t, connect.CodeNotFound, err)

	audit, err := env.ledger.ListAuditEntries(ctx, as(alice, &api.ListAuditEntriesRequest{
		GroupID:    group.ID,
		EntityType: "expense",
		EntityID:   created.ID,
	}))
	require.NoError(t, err)
	require.Len(t, audit.Msg.Entries, 2)
	assert.Equal(t, "DELETE", audit.Msg.Entries[0].Action)
	assert.Equal(t, bob.email, audit.Msg.Entries[0].ActorEmail)
	assert.Contains(t, string(audit.Msg.Entries[0].Changes), "deleted_expense")
	assert.Equal(t, "CREATE", audit.Msg.Entries[1].Action)
}
