package model

import "time"

// AccountView is the cached read-model projection of an account. The
// Account response model hides the owner ID from JSON; the cached copy
// cannot, because read paths check ownership against it before returning.
type AccountView struct {
	AccountNumber string    `json:"accountNumber"`
	UserID        string    `json:"userId"`
	SortCode      string    `json:"sortCode"`
	Name          string    `json:"name"`
	Balance       float64   `json:"balance"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// NewAccountView projects account into its cache representation.
func NewAccountView(account *Account) *AccountView {
	return &AccountView{
		AccountNumber: account.AccountNumber,
		UserID:        account.UserID,
		SortCode:      account.SortCode,
		Name:          account.Name,
		Balance:       account.Balance,
		Currency:      account.Currency,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
}

// Account converts the view back into the response model.
func (v *AccountView) Account() *Account {
	return &Account{
		AccountNumber: v.AccountNumber,
		UserID:        v.UserID,
		SortCode:      v.SortCode,
		Name:          v.Name,
		Balance:       v.Balance,
		Currency:      v.Currency,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
