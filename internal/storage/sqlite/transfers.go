package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharedledger/internal/models"
)

const transferColumns = `id, group_id, from_email, from_name, to_email, to_name, amount,
	description, date, created_at`

// CreateTransfer persists a new transfer to the database.
func (s *SQLiteStore) CreateTransfer(ctx context.Context, transfer *models.Transfer) error {
	// Generate ID if not set
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	if transfer.CreatedAt == 0 {
		transfer.CreatedAt = time.Now().Unix()
	}
	if transfer.Date == 0 {
		transfer.Date = transfer.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transfers (`+transferColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		transfer.ID, transfer.GroupID, transfer.FromEmail, transfer.FromName,
		transfer.ToEmail, transfer.ToName, transfer.Amount, transfer.Description,
		transfer.Date, transfer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	return nil
}

func scanTransfer(row rowScanner) (*models.Transfer, error) {
	t := &models.Transfer{}
	err := row.Scan(&t.ID, &t.GroupID, &t.FromEmail, &t.FromName, &t.ToEmail, &t.ToName,
		&t.Amount, &t.Description, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTransfer retrieves a transfer by ID.
func (s *SQLiteStore) GetTransfer(ctx context.Context, transferID string) (*models.Transfer, error) {
	transfer, err := scanTransfer(s.db.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = ?`, transferID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("transfer", transferID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return transfer, nil
}

// ListTransfers retrieves all transfers for a group.
func (s *SQLiteStore) ListTransfers(ctx context.Context, groupID string) ([]*models.Transfer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE group_id = ?
		 ORDER BY date DESC, created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers by group: %w", err)
	}
	defer rows.Close()

	var transfers []*models.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}

	return transfers, nil
}

// UpdateTransfer overwrites an existing transfer.
func (s *SQLiteStore) UpdateTransfer(ctx context.Context, transfer *models.Transfer) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transfers SET from_email = ?, from_name = ?, to_email = ?, to_name = ?,
		 amount = ?, description = ?, date = ? WHERE id = ?`,
		transfer.FromEmail, transfer.FromName, transfer.ToEmail, transfer.ToName,
		transfer.Amount, transfer.Description, transfer.Date, transfer.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transfer: %w", err)
	}
	return checkAffected(res, "transfer", transfer.ID)
}

// DeleteTransfer removes a transfer by ID.
func (s *SQLiteStore) DeleteTransfer(ctx context.Context, transferID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transfers WHERE id = ?", transferID)
	if err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}
	return checkAffected(res, "transfer", transferID)
}
