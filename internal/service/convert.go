package service

import (
	"github.com/mmynk/sharedledger/internal/audit"
	"github.com/mmynk/sharedledger/internal/calculator"
	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Code:        g.Code,
		Archived:    g.Archived,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
	}
}

func toAPIMember(m *models.Member) *api.Member {
	return &api.Member{
		Email:    m.Email,
		Name:     m.Name,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

func toAPIMembers(members []*models.Member) []*api.Member {
	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.Split{Email: s.Email, Name: s.Name, Weight: s.Weight, Amount: s.Amount}
	}
	return &api.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Title:        e.Title,
		Description:  e.Description,
		Amount:       e.Amount,
		Date:         e.Date,
		Category:     e.Category,
		AICategory:   e.AICategory,
		AIConfidence: e.AIConfidence,
		PaidByEmail:  e.PaidByEmail,
		PaidByName:   e.PaidByName,
		Splits:       splits,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toAPITransfer(t *models.Transfer) *api.Transfer {
	return &api.Transfer{
		ID:          t.ID,
		GroupID:     t.GroupID,
		FromEmail:   t.FromEmail,
		FromName:    t.FromName,
		ToEmail:     t.ToEmail,
		ToName:      t.ToName,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		CreatedAt:   t.CreatedAt,
	}
}

func toAPIAuditEntry(e *models.AuditEntry) *api.AuditEntry {
	changes := e.Changes
	if len(changes) == 0 {
		changes = []byte("{}")
	}
	return &api.AuditEntry{
		ID:         e.ID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Changes:    changes,
		ActorEmail: e.ActorEmail,
		ActorName:  e.ActorName,
		CreatedAt:  e.CreatedAt,
	}
}

func toAPIBalance(b calculator.MemberBalance) *api.Balance {
	return &api.Balance{
		Email:      b.Email,
		Name:       b.Name,
		TotalPaid:  b.TotalPaid,
		TotalOwed:  b.TotalOwed,
		NetBalance: b.NetBalance,
		Former:     b.Former,
	}
}

func toAPISettlement(s calculator.Settlement) *api.Settlement {
	return &api.Settlement{
		FromEmail: s.From.Email,
		FromName:  s.From.Name,
		ToEmail:   s.To.Email,
		ToName:    s.To.Name,
		Amount:    s.Amount,
	}
}

// Audit snapshots.

func groupFields(g *models.Group) audit.Fields {
	return audit.Fields{
		"name":        g.Name,
		"description": g.Description,
		"archived":    g.Archived,
	}
}

func memberFields(m *models.Member) audit.Fields {
	return audit.Fields{
		"email": m.Email,
		"name":  m.Name,
		"role":  string(m.Role),
	}
}

func expenseFields(e *models.Expense) audit.Fields {
	splits := make([]any, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = map[string]any{
			"email":  s.Email,
			"name":   s.Name,
			"weight": s.Weight,
			"amount": s.Amount,
		}
	}
	return audit.Fields{
		"title":         e.Title,
		"description":   e.Description,
		"amount":        e.Amount,
		"date":          e.Date,
		"category":      e.Category,
		"paid_by_email": e.PaidByEmail,
		"paid_by_name":  e.PaidByName,
		"splits":        splits,
	}
}

func transferFields(t *models.Transfer) audit.Fields {
	return audit.Fields{
		"from_email":  t.FromEmail,
		"from_name":   t.FromName,
		"to_email":    t.ToEmail,
		"to_name":     t.ToName,
		"amount":      t.Amount,
		"description": t.Description,
		"date":        t.Date,
	}
}
