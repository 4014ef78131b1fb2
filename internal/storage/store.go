// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/sharedledger/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned (wrapped) when a write violates a uniqueness rule,
// such as adding a member twice.
var ErrConflict = errors.New("already exists")

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	GroupStore
	MemberStore
	ExpenseStore
	TransferStore
	AuditStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// GroupStore persists groups.
type GroupStore interface {
	// CreateGroup persists a new group together with its creator as the first
	// admin member. ID, Code and CreatedAt are populated when empty.
	CreateGroup(ctx context.Context, group *models.Group, creator *models.Member) error

	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByCode looks a group up by its join code (case-insensitive).
	GetGroupByCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsForMember returns the groups the email belongs to, newest first.
	ListGroupsForMember(ctx context.Context, email string) ([]*models.Group, error)

	// UpdateGroup updates name and description.
	UpdateGroup(ctx context.Context, group *models.Group) error

	SetGroupArchived(ctx context.Context, groupID string, archived bool) error

	// DeleteGroup removes the group and everything recorded in it.
	DeleteGroup(ctx context.Context, groupID string) error
}

// MemberStore persists group memberships.
type MemberStore interface {
	// ListMembers returns members ordered by join time.
	ListMembers(ctx context.Context, groupID string) ([]*models.Member, error)

	GetMember(ctx context.Context, groupID, email string) (*models.Member, error)

	// AddMember returns ErrConflict if the email is already a member.
	AddMember(ctx context.Context, member *models.Member) error

	UpdateMemberRole(ctx context.Context, groupID, email string, role models.Role) error

	// RemoveMember deletes the membership only. Ledger history is kept.
	RemoveMember(ctx context.Context, groupID, email string) error
}

// ExpenseStore persists expenses and their splits.
type ExpenseStore interface {
	// CreateExpense inserts the expense and its splits atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns a group's expenses with splits, newest first.
	ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)

	// UpdateExpense replaces the expense fields and its splits atomically.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	DeleteExpense(ctx context.Context, expenseID string) error
}

// TransferStore persists direct payments.
type TransferStore interface {
	CreateTransfer(ctx context.Context, transfer *models.Transfer) error
	GetTransfer(ctx context.Context, transferID string) (*models.Transfer, error)

	// ListTransfers returns a group's transfers, newest first.
	ListTransfers(ctx context.Context, groupID string) ([]*models.Transfer, error)

	UpdateTransfer(ctx context.Context, transfer *models.Transfer) error
	DeleteTransfer(ctx context.Context, transferID string) error
}

// AuditStore persists the activity trail.
type AuditStore interface {
	CreateAuditEntry(ctx context.Context, entry *models.AuditEntry) error

	// ListAuditEntries returns a group's entries matching filter, newest first.
	ListAuditEntries(ctx context.Context, groupID string, filter AuditFilter) ([]*models.AuditEntry, error)
}

// AuditFilter narrows ListAuditEntries. Zero values match everything.
type AuditFilter struct {
	EntityType string
	EntityID   string
	Limit      int
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns (nil, nil) when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns (nil, nil) when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
