package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eaglebank/servicekit/example/bank/internal/model"
	"github.com/eaglebank/servicekit/tx"
)

// AccountRepository persists accounts in Postgres.
type AccountRepository struct {
	mgr *tx.Manager
}

func NewAccountRepository(mgr *tx.Manager) *AccountRepository {
	return &AccountRepository{mgr: mgr}
}

func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (account_number, user_id, sort_code, name, balance, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.mgr.Querier(ctx).ExecContext(ctx, query,
		account.AccountNumber, account.UserID, account.SortCode, account.Name,
		account.Balance, account.Currency, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Get(ctx context.Context, accountNumber string) (*model.Account, error) {
	return r.get(ctx, accountNumber, false)
}

// GetForUpdate locks the account row for the remainder of the active
// transaction. Only meaningful inside a transaction boundary.
func (r *AccountRepository) GetForUpdate(ctx context.Context, accountNumber string) (*model.Account, error) {
	return r.get(ctx, accountNumber, true)
}

func (r *AccountRepository) get(ctx context.Context, accountNumber string, forUpdate bool) (*model.Account, error) {
	query := `
		SELECT account_number, user_id, sort_code, name, balance, currency, created_at, updated_at
		FROM accounts
		WHERE account_number = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var account model.Account
	err := r.mgr.Querier(ctx).QueryRowContext(ctx, query, accountNumber).Scan(
		&account.AccountNumber, &account.UserID, &account.SortCode, &account.Name,
		&account.Balance, &account.Currency, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, accountNumber string, newBalance float64) error {
	query := `
		UPDATE accounts
		SET balance = $2, updated_at = NOW()
		WHERE account_number = $1
	`
	result, err := r.mgr.Querier(ctx).ExecContext(ctx, query, accountNumber, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account not found")
	}
	return nil
}
