package service

import (
	"context"

	"github.com/eaglebank/servicekit/example/bank/internal/model"
	"github.com/eaglebank/servicekit/example/bank/internal/repository"
)

// AuditedTransferService extends TransferService with an audit trail.
// Embedding alone does not carry the service role or transaction policy
// to this type; it is registered through appservice.Inherit, which copies
// both from the base service's definition.
type AuditedTransferService struct {
	*TransferService
	audits *repository.AuditRepository
}

func NewAuditedTransferService(base *TransferService, audits *repository.AuditRepository) *AuditedTransferService {
	return &AuditedTransferService{TransferService: base, audits: audits}
}

func (s *AuditedTransferService) Transfer(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error) {
	transfer, err := s.TransferService.Transfer(ctx, userID, from, to, amount, reference)
	if err != nil {
		return nil, err
	}
	// joins the same transaction: a failed audit write rolls the transfer back
	if err := s.audits.Record(ctx, userID, "transfer", transfer.ID); err != nil {
		return nil, err
	}
	return transfer, nil
}
