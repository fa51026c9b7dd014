package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func testAccount() *Account {
	now := time.Now().UTC().Truncate(time.Second)
	return &Account{
		AccountNumber: "01000001",
		UserID:        "usr-001",
		SortCode:      "10-10-10",
		Name:          "Current account",
		Balance:       125.50,
		Currency:      "GBP",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestAccountViewKeepsOwnerAcrossSerialisation(t *testing.T) {
	account := testAccount()

	data, err := json.Marshal(NewAccountView(account))
	if err != nil {
		t.Fatalf("marshal view: %v", err)
	}
	var view AccountView
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatalf("unmarshal view: %v", err)
	}
	if view.UserID != account.UserID {
		t.Errorf("cached view lost the owner: got %q, want %q", view.UserID, account.UserID)
	}

	restored := view.Account()
	if restored.UserID != account.UserID {
		t.Errorf("restored account lost the owner: got %q, want %q", restored.UserID, account.UserID)
	}
	if restored.AccountNumber != account.AccountNumber || restored.Balance != account.Balance {
		t.Errorf("restored account mismatch: got %+v, want %+v", restored, account)
	}
}

func TestAccountResponseHidesOwner(t *testing.T) {
	data, err := json.Marshal(testAccount())
	if err != nil {
		t.Fatalf("marshal account: %v", err)
	}
	if strings.Contains(string(data), "usr-001") {
		t.Errorf("response model must not expose the owner ID: %s", data)
	}
}
