package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 8
	codeAttempts = 5
)

const groupColumns = "id, name, description, code, archived, created_by, created_at"

// NewGroupCode returns a random 8-character join code.
func NewGroupCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate group code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// CreateGroup persists a new group and its creator as admin in one transaction.
// A colliding generated code is retried a few times.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, creator *models.Member) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	generated := group.Code == ""

	for attempt := 0; ; attempt++ {
		if generated {
			code, err := NewGroupCode()
			if err != nil {
				return err
			}
			group.Code = code
		}
		group.Code = strings.ToUpper(group.Code)

		err := s.insertGroup(ctx, group, creator)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		if !generated || attempt+1 >= codeAttempts {
			return fmt.Errorf("group code %s: %w", group.Code, storage.ErrConflict)
		}
	}
}

func (s *SQLiteStore) insertGroup(ctx context.Context, group *models.Group, creator *models.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Description, group.Code, boolToInt(group.Archived),
		group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if creator != nil {
		creator.GroupID = group.ID
		creator.Role = models.RoleAdmin
		if creator.JoinedAt == 0 {
			creator.JoinedAt = group.CreatedAt
		}
		if err := insertMember(ctx, tx, creator); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	var archived int
	if err := row.Scan(&group.ID, &group.Name, &group.Description, &group.Code, &archived,
		&group.CreatedBy, &group.CreatedAt); err != nil {
		return nil, err
	}
	group.Archived = archived != 0
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := scanGroup(s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = ?`, groupID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetGroupByCode retrieves a group by its join code.
func (s *SQLiteStore) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	group, err := scanGroup(s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE code = ?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("group with code", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group by code: %w", err)
	}
	return group, nil
}

// ListGroupsForMember retrieves all groups the email is a member of.
func (s *SQLiteStore) ListGroupsForMember(ctx context.Context, email string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.code, g.archived, g.created_by, g.created_at
		 FROM groups g
		 JOIN group_members m ON m.group_id = g.id
		 WHERE m.email = ?
		 ORDER BY g.created_at DESC, g.name`,
		models.NormalizeEmail(email),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// UpdateGroup updates the group's name and description.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET name = ?, description = ? WHERE id = ?",
		group.Name, group.Description, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return checkAffected(res, "group", group.ID)
}

// SetGroupArchived toggles the archived flag.
func (s *SQLiteStore) SetGroupArchived(ctx context.Context, groupID string, archived bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE groups SET archived = ? WHERE id = ?",
		boolToInt(archived), groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to archive group: %w", err)
	}
	return checkAffected(res, "group", groupID)
}

// DeleteGroup removes a group. Members, expenses, splits, transfers and
// audit entries cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return checkAffected(res, "group", groupID)
}
