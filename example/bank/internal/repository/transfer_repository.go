package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eaglebank/servicekit/example/bank/internal/model"
	"github.com/eaglebank/servicekit/tx"
)

// TransferRepository persists completed transfers.
type TransferRepository struct {
	mgr *tx.Manager
}

func NewTransferRepository(mgr *tx.Manager) *TransferRepository {
	return &TransferRepository{mgr: mgr}
}

func (r *TransferRepository) Create(ctx context.Context, transfer *model.Transfer) error {
	query := `
		INSERT INTO transfers (id, from_account, to_account, user_id, amount, currency, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.mgr.Querier(ctx).ExecContext(ctx, query,
		transfer.ID, transfer.FromAccount, transfer.ToAccount, transfer.UserID,
		transfer.Amount, transfer.Currency, nullString(transfer.Reference), transfer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

func (r *TransferRepository) ListByAccount(ctx context.Context, accountNumber string) ([]model.Transfer, error) {
	query := `
		SELECT id, from_account, to_account, user_id, amount, currency, COALESCE(reference, ''), created_at
		FROM transfers
		WHERE from_account = $1 OR to_account = $1
		ORDER BY created_at DESC
	`
	rows, err := r.mgr.Querier(ctx).QueryContext(ctx, query, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []model.Transfer
	for rows.Next() {
		var t model.Transfer
		if err := rows.Scan(
			&t.ID, &t.FromAccount, &t.ToAccount, &t.UserID,
			&t.Amount, &t.Currency, &t.Reference, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transfers: %w", err)
	}
	return transfers, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
