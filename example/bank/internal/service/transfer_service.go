package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/eaglebank/servicekit/cache"
	"github.com/eaglebank/servicekit/events"
	"github.com/eaglebank/servicekit/example/bank/internal/ident"
	"github.com/eaglebank/servicekit/example/bank/internal/model"
	"github.com/eaglebank/servicekit/example/bank/internal/repository"
	"github.com/eaglebank/servicekit/tx"
)

// TransferService moves money between accounts. Its operations expect to
// run inside the application-service transaction boundary opened at the
// request edge: both balance updates and the transfer row commit or roll
// back together, and any error raised here discards all of them.
type TransferService struct {
	accounts  *repository.AccountRepository
	transfers *repository.TransferRepository
	views     *cache.JSON[model.AccountView]
	publisher *events.Publisher
}

func NewTransferService(
	accounts *repository.AccountRepository,
	transfers *repository.TransferRepository,
	views *cache.JSON[model.AccountView],
	publisher *events.Publisher,
) *TransferService {
	return &TransferService{
		accounts:  accounts,
		transfers: transfers,
		views:     views,
		publisher: publisher,
	}
}

func (s *TransferService) Transfer(ctx context.Context, userID, from, to string, amount float64, reference string) (*model.Transfer, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	if from == to {
		return nil, fmt.Errorf("cannot transfer to the same account")
	}

	src, err := s.accounts.GetForUpdate(ctx, from)
	if err != nil {
		return nil, err
	}
	if src.UserID != userID {
		return nil, fmt.Errorf("forbidden")
	}
	dst, err := s.accounts.GetForUpdate(ctx, to)
	if err != nil {
		return nil, err
	}
	if src.Currency != dst.Currency {
		return nil, fmt.Errorf("currency mismatch")
	}
	if src.Balance < amount {
		return nil, fmt.Errorf("insufficient funds")
	}

	if err := s.accounts.UpdateBalance(ctx, from, src.Balance-amount); err != nil {
		return nil, err
	}
	if err := s.accounts.UpdateBalance(ctx, to, dst.Balance+amount); err != nil {
		return nil, err
	}

	transfer := &model.Transfer{
		ID:          ident.New("trf"),
		FromAccount: from,
		ToAccount:   to,
		UserID:      userID,
		Amount:      amount,
		Currency:    src.Currency,
		Reference:   reference,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.transfers.Create(ctx, transfer); err != nil {
		return nil, err
	}

	// view invalidation and the event wait for the writes to be durable;
	// a rollback discards them along with the balance updates
	tx.OnCommit(ctx, func(ctx context.Context) {
		s.views.Delete(ctx, from)
		s.views.Delete(ctx, to)
		if err := s.publisher.Publish(ctx, TransferEventsStream, TransferCompleted, TransferCompletedEvent{
			TransferID:  transfer.ID,
			FromAccount: from,
			ToAccount:   to,
			UserID:      userID,
			Amount:      amount,
			Currency:    transfer.Currency,
		}); err != nil {
			log.Printf("Failed to publish transfer.completed event: %v", err)
		}
	})
	return transfer, nil
}

func (s *TransferService) ListTransfers(ctx context.Context, userID, accountNumber string) ([]model.Transfer, error) {
	account, err := s.accounts.Get(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("forbidden")
	}
	return s.transfers.ListByAccount(ctx, accountNumber)
}
