package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMember(ctx context.Context, db execer, member *models.Member) error {
	member.Email = models.NormalizeEmail(member.Email)
	if member.Role == "" {
		member.Role = models.RoleMember
	}
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, email, name, role, joined_at) VALUES (?, ?, ?, ?, ?)`,
		member.GroupID, member.Email, member.Name, string(member.Role), member.JoinedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("member %s: %w", member.Email, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// AddMember adds a member to a group.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	return insertMember(ctx, s.db, member)
}

// ListMembers retrieves a group's members in join order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, email, name, role, joined_at
		 FROM group_members WHERE group_id = ?
		 ORDER BY joined_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		var role string
		if err := rows.Scan(&member.GroupID, &member.Email, &member.Name, &role, &member.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		member.Role = models.Role(role)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetMember retrieves one membership.
func (s *SQLiteStore) GetMember(ctx context.Context, groupID, email string) (*models.Member, error) {
	email = models.NormalizeEmail(email)
	member := &models.Member{}
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT group_id, email, name, role, joined_at
		 FROM group_members WHERE group_id = ? AND email = ?`,
		groupID, email,
	).Scan(&member.GroupID, &member.Email, &member.Name, &role, &member.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("member", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	member.Role = models.Role(role)
	return member, nil
}

// UpdateMemberRole changes a member's role.
func (s *SQLiteStore) UpdateMemberRole(ctx context.Context, groupID, email string, role models.Role) error {
	email = models.NormalizeEmail(email)
	res, err := s.db.ExecContext(ctx,
		"UPDATE group_members SET role = ? WHERE group_id = ? AND email = ?",
		string(role), groupID, email,
	)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	return checkAffected(res, "member", email)
}

// RemoveMember deletes a membership. Expenses and transfers that reference
// the member are left untouched.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, email string) error {
	email = models.NormalizeEmail(email)
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND email = ?",
		groupID, email,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return checkAffected(res, "member", email)
}
