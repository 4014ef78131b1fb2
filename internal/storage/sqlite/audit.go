package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
)

// CreateAuditEntry appends an entry to the audit log.
func (s *SQLiteStore) CreateAuditEntry(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}
	changes := string(entry.Changes)
	if changes == "" {
		changes = "{}"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, group_id, entity_type, entity_id, action, changes, actor_email, actor_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.GroupID, entry.EntityType, entry.EntityID, entry.Action, changes,
		entry.ActorEmail, entry.ActorName, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries retrieves a group's audit entries, newest first.
func (s *SQLiteStore) ListAuditEntries(ctx context.Context, groupID string, filter storage.AuditFilter) ([]*models.AuditEntry, error) {
	where := []string{"group_id = ?"}
	args := []any{groupID}
	if filter.EntityType != "" {
		where = append(where, "entity_type = ?")
		args = append(args, filter.EntityType)
	}
	if filter.EntityID != "" {
		where = append(where, "entity_id = ?")
		args = append(args, filter.EntityID)
	}

	query := `SELECT id, group_id, entity_type, entity_id, action, changes, actor_email, actor_name, created_at
		FROM audit_log WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, rowid DESC`
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		entry := &models.AuditEntry{}
		var changes string
		if err := rows.Scan(&entry.ID, &entry.GroupID, &entry.EntityType, &entry.EntityID, &entry.Action,
			&changes, &entry.ActorEmail, &entry.ActorName, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.Changes = []byte(changes)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}
