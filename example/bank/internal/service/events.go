package service

// Event types and stream names emitted by the bank's services. Events are
// published after the owning transaction commits; publish failures are
// logged, never propagated.
const (
	UserCreated       = "user.created"
	AccountCreated    = "account.created"
	TransferCompleted = "transfer.completed"
)

const (
	UserEventsStream     = "user.events"
	AccountEventsStream  = "account.events"
	TransferEventsStream = "transfer.events"
)

type UserCreatedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type AccountCreatedEvent struct {
	AccountNumber string `json:"accountNumber"`
	UserID        string `json:"userId"`
	Name          string `json:"name"`
}

type TransferCompletedEvent struct {
	TransferID  string  `json:"transferId"`
	FromAccount string  `json:"fromAccount"`
	ToAccount   string  `json:"toAccount"`
	UserID      string  `json:"userId"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}
