package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eaglebank/servicekit/tx"
)

// AuditRepository writes audit trail entries. Entries written inside a
// transaction boundary commit or roll back with the audited operation.
type AuditRepository struct {
	mgr *tx.Manager
}

func NewAuditRepository(mgr *tx.Manager) *AuditRepository {
	return &AuditRepository{mgr: mgr}
}

func (r *AuditRepository) Record(ctx context.Context, userID, action, subject string) error {
	query := `
		INSERT INTO audit_log (user_id, action, subject, recorded_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.mgr.Querier(ctx).ExecContext(ctx, query, userID, action, subject, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}
