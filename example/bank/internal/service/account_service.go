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

// AccountService opens and reads accounts. Reads go through the Redis
// view cache; Postgres stays the source of truth.
type AccountService struct {
	accounts  *repository.AccountRepository
	views     *cache.JSON[model.AccountView]
	publisher *events.Publisher
}

func NewAccountService(accounts *repository.AccountRepository, views *cache.JSON[model.AccountView], publisher *events.Publisher) *AccountService {
	return &AccountService{accounts: accounts, views: views, publisher: publisher}
}

func (s *AccountService) OpenAccount(ctx context.Context, userID, name, currency string) (*model.Account, error) {
	if currency == "" {
		currency = "GBP"
	}
	now := time.Now().UTC()
	account := &model.Account{
		AccountNumber: ident.AccountNumber(),
		UserID:        userID,
		SortCode:      "10-10-10",
		Name:          name,
		Balance:       0,
		Currency:      currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	tx.OnCommit(ctx, func(ctx context.Context) {
		if err := s.publisher.Publish(ctx, AccountEventsStream, AccountCreated, AccountCreatedEvent{
			AccountNumber: account.AccountNumber,
			UserID:        account.UserID,
			Name:          account.Name,
		}); err != nil {
			log.Printf("Failed to publish account.created event: %v", err)
		}
	})
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, userID, accountNumber string) (*model.Account, error) {
	if cached, ok := s.views.Get(ctx, accountNumber); ok {
		if cached.UserID != userID {
			return nil, fmt.Errorf("forbidden")
		}
		return cached.Account(), nil
	}

	account, err := s.accounts.Get(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("forbidden")
	}
	s.views.Set(ctx, accountNumber, model.NewAccountView(account))
	return account, nil
}
