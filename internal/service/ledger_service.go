package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedledger/internal/calculator"
	"github.com/mmynk/sharedledger/internal/metrics"
	"github.com/mmynk/sharedledger/internal/storage"
	"github.com/mmynk/sharedledger/pkg/api"
)

// LedgerService implements the Connect LedgerService: balances, settlement
// suggestions, spending insights and the activity trail.
type LedgerService struct {
	store   storage.Store
	opts    calculator.AggregateOptions
	metrics *metrics.Metrics
}

// NewLedgerService creates a new LedgerService. m may be nil.
func NewLedgerService(store storage.Store, opts calculator.AggregateOptions, m *metrics.Metrics) *LedgerService {
	return &LedgerService{store: store, opts: opts, metrics: m}
}

// GetBalances calculates every member's balance and the payments that
// settle the group.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetBalances request received", "group_id", groupID)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, _, err := membership(ctx, s.store, groupID, actor.Email); err != nil {
		return nil, fail("GetBalances", err, "group_id", groupID)
	}
	result, err := ComputeBalances(ctx, s.store, groupID, s.opts)
	if err != nil {
		return nil, fail("GetBalances", err, "group_id", groupID)
	}

	for _, ref := range result.Missing {
		slog.Debug("Ledger entry references a non-member",
			"group_id", groupID,
			"email", ref.Email,
			"kind", ref.Kind,
			"source_id", ref.SourceID,
			"policy", s.opts.MissingMembers.String(),
		)
	}
	s.observe(result)

	balances := make([]*api.Balance, len(result.Balances))
	for i, b := range result.Balances {
		balances[i] = toAPIBalance(b)
	}
	settlements := make([]*api.Settlement, len(result.Settlements))
	for i, st := range result.Settlements {
		settlements[i] = toAPISettlement(st)
	}

	slog.Info("GetBalances successful",
		"group_id", groupID,
		"members_count", len(balances),
		"settlements_count", len(settlements),
		"missing_refs", len(result.Missing),
	)

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:    balances,
		Settlements: settlements,
	}), nil
}

func (s *LedgerService) observe(result *Balances) {
	if s.metrics == nil {
		return
	}
	s.metrics.BalanceComputations.Inc()
	s.metrics.SettlementPayments.Observe(float64(len(result.Settlements)))
	for _, ref := range result.Missing {
		s.metrics.MissingMemberRefs.WithLabelValues(ref.Kind).Inc()
	}
}

// GetInsights returns total spending and a per-category breakdown.
func (s *LedgerService) GetInsights(ctx context.Context, req *connect.Request[api.GetInsightsRequest]) (*connect.Response[api.GetInsightsResponse], error) {
	slog.Info("GetInsights request received", "group_id", req.Msg.GroupID)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, _, err := membership(ctx, s.store, req.Msg.GroupID, actor.Email); err != nil {
		return nil, fail("GetInsights", err, "group_id", req.Msg.GroupID)
	}
	expenses, err := s.store.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("GetInsights", err, "group_id", req.Msg.GroupID)
	}

	in := make([]calculator.CategoryExpense, len(expenses))
	for i, e := range expenses {
		in[i] = calculator.CategoryExpense{Category: e.Category, Amount: e.Amount}
	}
	insights := calculator.SummarizeCategories(in)

	breakdown := make([]*api.CategoryTotal, len(insights.Breakdown))
	for i, c := range insights.Breakdown {
		breakdown[i] = &api.CategoryTotal{Category: c.Category, Amount: c.Amount, Percentage: c.Percentage}
	}

	return connect.NewResponse(&api.GetInsightsResponse{
		TotalSpent:        insights.TotalSpent,
		ExpenseCount:      insights.ExpenseCount,
		CategoryBreakdown: breakdown,
	}), nil
}

// ListAuditEntries returns a group's activity trail, newest first.
func (s *LedgerService) ListAuditEntries(ctx context.Context, req *connect.Request[api.ListAuditEntriesRequest]) (*connect.Response[api.ListAuditEntriesResponse], error) {
	slog.Info("ListAuditEntries request received",
		"group_id", req.Msg.GroupID,
		"entity_type", req.Msg.EntityType,
		"entity_id", req.Msg.EntityID,
	)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, _, err := membership(ctx, s.store, req.Msg.GroupID, actor.Email); err != nil {
		return nil, fail("ListAuditEntries", err, "group_id", req.Msg.GroupID)
	}
	entries, err := s.store.ListAuditEntries(ctx, req.Msg.GroupID, storage.AuditFilter{
		EntityType: req.Msg.EntityType,
		EntityID:   req.Msg.EntityID,
		Limit:      req.Msg.Limit,
	})
	if err != nil {
		return nil, fail("ListAuditEntries", err, "group_id", req.Msg.GroupID)
	}

	out := make([]*api.AuditEntry, len(entries))
	for i, e := range entries {
		out[i] = toAPIAuditEntry(e)
	}
	return connect.NewResponse(&api.ListAuditEntriesResponse{Entries: out}), nil
}
