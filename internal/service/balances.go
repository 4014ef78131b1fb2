package service

import (
	"context"
	"fmt"

	"github.com/mmynk/sharedledger/internal/calculator"
	"github.com/mmynk/sharedledger/internal/storage"
)

// Snapshot is everything the balance engine needs for one group, read at
// one point in time.
type Snapshot struct {
	Members   []calculator.Identity
	Expenses  []calculator.ExpenseForBalance
	Transfers []calculator.TransferForBalance
}

// LoadSnapshot reads a group's members, expenses and transfers.
func LoadSnapshot(ctx context.Context, store storage.Store, groupID string) (*Snapshot, error) {
	members, err := store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	expenses, err := store.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	transfers, err := store.ListTransfers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}

	snap := &Snapshot{
		Members:   identities(members),
		Expenses:  make([]calculator.ExpenseForBalance, len(expenses)),
		Transfers: make([]calculator.TransferForBalance, len(transfers)),
	}
	for i, e := range expenses {
		splits := make([]calculator.SplitForBalance, len(e.Splits))
		for k, s := range e.Splits {
			splits[k] = calculator.SplitForBalance{Email: s.Email, Name: s.Name, Amount: s.Amount}
		}
		snap.Expenses[i] = calculator.ExpenseForBalance{
			ID:     e.ID,
			Amount: e.Amount,
			Payer:  calculator.Identity{Email: e.PaidByEmail, Name: e.PaidByName},
			Splits: splits,
		}
	}
	for i, t := range transfers {
		snap.Transfers[i] = calculator.TransferForBalance{
			ID:     t.ID,
			From:   calculator.Identity{Email: t.FromEmail, Name: t.FromName},
			To:     calculator.Identity{Email: t.ToEmail, Name: t.ToName},
			Amount: t.Amount,
		}
	}
	return snap, nil
}

// Balances is a group's aggregated balances and the payments that settle them.
type Balances struct {
	calculator.AggregateReport
	Settlements []calculator.Settlement
}

// ComputeBalances loads a group's snapshot, aggregates balances and plans
// settlements.
func ComputeBalances(ctx context.Context, store storage.Store, groupID string, opts calculator.AggregateOptions) (*Balances, error) {
	snap, err := LoadSnapshot(ctx, store, groupID)
	if err != nil {
		return nil, err
	}
	report := calculator.Aggregate(snap.Members, snap.Expenses, snap.Transfers, opts)
	return &Balances{
		AggregateReport: report,
		Settlements:     calculator.PlanSettlements(report.Balances),
	}, nil
}
