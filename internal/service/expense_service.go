package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedledger/internal/audit"
	"github.com/mmynk/sharedledger/internal/calculator"
	"github.com/mmynk/sharedledger/internal/categorize"
	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
	"github.com/mmynk/sharedledger/pkg/api"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store    storage.Store
	resolver *categorize.Resolver
	recorder *audit.Recorder
}

// NewExpenseService creates a new ExpenseService. A nil resolver files every
// expense without a chosen category under the default category.
func NewExpenseService(store storage.Store, resolver *categorize.Resolver, recorder *audit.Recorder) *ExpenseService {
	return &ExpenseService{store: store, resolver: resolver, recorder: recorder}
}

// weightsFor turns the requested split weights into calculator input. An
// empty request splits equally among all current members.
func weightsFor(members []*models.Member, requested []api.SplitWeight) ([]calculator.WeightedMember, error) {
	if len(requested) == 0 {
		return calculator.EqualWeights(identities(members)), nil
	}
	weighted := make([]calculator.WeightedMember, 0, len(requested))
	for _, sw := range requested {
		m := findMember(members, sw.Email)
		if m == nil {
			return nil, &calculator.InvalidSplitError{Reason: fmt.Sprintf("%s is not a member of this group", sw.Email)}
		}
		weighted = append(weighted, calculator.WeightedMember{
			Identity: calculator.Identity{Email: m.Email, Name: m.Name},
			Weight:   sw.Weight,
		})
	}
	return weighted, nil
}

// splitsFor computes the persisted splits of an expense, rounded to cents.
func splitsFor(amount float64, weighted []calculator.WeightedMember) ([]models.Split, error) {
	shares, err := calculator.ComputeSplits(amount, weighted)
	if err != nil {
		return nil, err
	}
	shares = calculator.RoundShares(amount, shares)

	splits := make([]models.Split, len(shares))
	for i, s := range shares {
		splits[i] = models.Split{Email: s.Email, Name: s.Name, Weight: s.Weight, Amount: s.Amount}
	}
	return splits, nil
}

// payerFor resolves the paying member, defaulting to the caller.
func payerFor(members []*models.Member, email string, actor audit.Actor) (*models.Member, error) {
	if email == "" {
		email = actor.Email
	}
	payer := findMember(members, email)
	if payer == nil {
		return nil, fmt.Errorf("%w: payer %s is not a member of this group", api.ErrInvalid, email)
	}
	return payer, nil
}

// suggested returns the categorizer's suggestion, or "" when the user chose.
func suggested(analysis categorize.Analysis) string {
	if analysis.ChosenByUser {
		return ""
	}
	return analysis.Category
}

// checkCategory rejects categories outside the fixed list.
func checkCategory(category string) error {
	if category == "" {
		return nil
	}
	if _, ok := categorize.Canonical(category); !ok {
		return fmt.Errorf("%w: %q", categorize.ErrUnknownCategory, category)
	}
	return nil
}

// PreviewSplits computes split amounts without storing anything.
func (s *ExpenseService) PreviewSplits(ctx context.Context, req *connect.Request[api.PreviewSplitsRequest]) (*connect.Response[api.PreviewSplitsResponse], error) {
	slog.Info("PreviewSplits request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"splits_count", len(req.Msg.Splits),
	)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, _, err := membership(ctx, s.store, req.Msg.GroupID, actor.Email); err != nil {
		return nil, fail("PreviewSplits", err, "group_id", req.Msg.GroupID)
	}
	members, err := s.store.ListMembers(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("PreviewSplits", err, "group_id", req.Msg.GroupID)
	}

	weighted, err := weightsFor(members, req.Msg.Splits)
	if err != nil {
		return nil, toConnectError(err)
	}
	splits, err := splitsFor(calculator.Round2(req.Msg.Amount), weighted)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]api.Split, len(splits))
	for i, sp := range splits {
		out[i] = api.Split{Email: sp.Email, Name: sp.Name, Weight: sp.Weight, Amount: sp.Amount}
	}
	return connect.NewResponse(&api.PreviewSplitsResponse{Splits: out}), nil
}

// CreateExpense records an expense and its splits.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"title", req.Msg.Title,
		"amount", req.Msg.Amount,
		"splits_count", len(req.Msg.Splits),
	)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	if err := checkCategory(req.Msg.Category); err != nil {
		return nil, toConnectError(err)
	}

	group, _, err := requireWritable(ctx, s.store, req.Msg.GroupID, actor.Email)
	if err != nil {
		return nil, fail("CreateExpense", err, "group_id", req.Msg.GroupID)
	}
	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, fail("CreateExpense", err, "group_id", group.ID)
	}

	// Everything is validated before the write.
	payer, err := payerFor(members, req.Msg.PaidByEmail, actor)
	if err != nil {
		return nil, toConnectError(err)
	}
	weighted, err := weightsFor(members, req.Msg.Splits)
	if err != nil {
		return nil, toConnectError(err)
	}
	amount := calculator.Round2(req.Msg.Amount)
	splits, err := splitsFor(amount, weighted)
	if err != nil {
		return nil, toConnectError(err)
	}

	title := strings.TrimSpace(req.Msg.Title)
	description := strings.TrimSpace(req.Msg.Description)
	analysis := s.resolver.Resolve(ctx, req.Msg.Category, categorize.Input{
		Title:       title,
		Description: description,
		Amount:      req.Msg.Amount,
	})

	expense := &models.Expense{
		GroupID:      group.ID,
		Title:        title,
		Description:  description,
		Amount:       amount,
		Date:         req.Msg.Date,
		Category:     analysis.Category,
		AICategory:   suggested(analysis),
		AIConfidence: analysis.Confidence,
		PaidByEmail:  payer.Email,
		PaidByName:   payer.Name,
		Splits:       splits,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fail("CreateExpense", err, "group_id", group.ID)
	}
	s.recorder.Created(ctx, actor, group.ID, models.EntityExpense, expense.ID, expenseFields(expense))

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"category", expense.Category,
		"confidence", expense.AIConfidence,
	)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense returns one expense with its splits.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, fail("GetExpense", err, "expense_id", req.Msg.ExpenseID)
	}
	if _, _, err := membership(ctx, s.store, expense.GroupID, actor.Email); err != nil {
		return nil, fail("GetExpense", err, "expense_id", expense.ID)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns a group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, _, err := membership(ctx, s.store, req.Msg.GroupID, actor.Email); err != nil {
		return nil, fail("ListExpenses", err, "group_id", req.Msg.GroupID)
	}
	expenses, err := s.store.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("ListExpenses", err, "group_id", req.Msg.GroupID)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// UpdateExpense replaces an expense. Without new splits the current weights
// are kept and the amounts recomputed.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received",
		"expense_id", req.Msg.ExpenseID,
		"amount", req.Msg.Amount,
		"splits_count", len(req.Msg.Splits),
	)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	if err := checkCategory(req.Msg.Category); err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, fail("UpdateExpense", err, "expense_id", req.Msg.ExpenseID)
	}
	group, _, err := requireWritable(ctx, s.store, expense.GroupID, actor.Email)
	if err != nil {
		return nil, fail("UpdateExpense", err, "expense_id", expense.ID)
	}
	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, fail("UpdateExpense", err, "group_id", group.ID)
	}

	payerEmail := req.Msg.PaidByEmail
	if payerEmail == "" {
		payerEmail = expense.PaidByEmail
	}
	payer, err := payerFor(members, payerEmail, actor)
	if err != nil {
		return nil, toConnectError(err)
	}

	var weighted []calculator.WeightedMember
	if len(req.Msg.Splits) > 0 {
		weighted, err = weightsFor(members, req.Msg.Splits)
		if err != nil {
			return nil, toConnectError(err)
		}
	} else {
		// Former members keep their share of an edited expense.
		for _, sp := range expense.Splits {
			weighted = append(weighted, calculator.WeightedMember{
				Identity: calculator.Identity{Email: sp.Email, Name: sp.Name},
				Weight:   sp.Weight,
			})
		}
	}
	amount := calculator.Round2(req.Msg.Amount)
	splits, err := splitsFor(amount, weighted)
	if err != nil {
		return nil, toConnectError(err)
	}

	before := expenseFields(expense)

	expense.Title = strings.TrimSpace(req.Msg.Title)
	expense.Description = strings.TrimSpace(req.Msg.Description)
	expense.Amount = amount
	if req.Msg.Date != 0 {
		expense.Date = req.Msg.Date
	}
	if req.Msg.Category != "" {
		analysis := s.resolver.Resolve(ctx, req.Msg.Category, categorize.Input{})
		expense.Category = analysis.Category
		expense.AICategory = suggested(analysis)
		expense.AIConfidence = analysis.Confidence
	}
	expense.PaidByEmail = payer.Email
	expense.PaidByName = payer.Name
	expense.Splits = splits

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, fail("UpdateExpense", err, "expense_id", expense.ID)
	}
	s.recorder.Updated(ctx, actor, group.ID, models.EntityExpense, expense.ID, before, expenseFields(expense))

	slog.Info("Expense updated", "expense_id", expense.ID, "group_id", group.ID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense and its splits.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, fail("DeleteExpense", err, "expense_id", req.Msg.ExpenseID)
	}
	if _, _, err := requireWritable(ctx, s.store, expense.GroupID, actor.Email); err != nil {
		return nil, fail("DeleteExpense", err, "expense_id", expense.ID)
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		return nil, fail("DeleteExpense", err, "expense_id", expense.ID)
	}
	s.recorder.Deleted(ctx, actor, expense.GroupID, models.EntityExpense, expense.ID, expenseFields(expense))

	slog.Info("Expense deleted", "expense_id", expense.ID, "group_id", expense.GroupID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
