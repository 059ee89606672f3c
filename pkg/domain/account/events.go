package account

import (
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/google/uuid"
)

// Event types.
const (
	EventTypeCreated           = "account.created"
	EventTypeDeposited         = "account.deposited"
	EventTypeWithdrawn         = "account.withdrawn"
	EventTypeTransferCompleted = "account.transfer.completed"
)

// EventTypes maps each event type to a constructor used when decoding events
// received from a broker.
var EventTypes = map[string]func() domain.Event{
	EventTypeCreated:           func() domain.Event { return &CreatedEvent{} },
	EventTypeDeposited:         func() domain.Event { return &DepositedEvent{} },
	EventTypeWithdrawn:         func() domain.Event { return &WithdrawnEvent{} },
	EventTypeTransferCompleted: func() domain.Event { return &TransferCompletedEvent{} },
}

// CreatedEvent is emitted after an account has been created.
type CreatedEvent struct {
	EventID   uuid.UUID `json:"eventId"`
	Number    string    `json:"accountNumber"`
	Timestamp time.Time `json:"timestamp"`
}

func (CreatedEvent) Type() string { return EventTypeCreated }

// DepositedEvent is emitted after a committed deposit.
type DepositedEvent struct {
	EventID   uuid.UUID    `json:"eventId"`
	Number    string       `json:"accountNumber"`
	Amount    money.Amount `json:"amount"`
	Balance   money.Amount `json:"balance"`
	Timestamp time.Time    `json:"timestamp"`
}

func (DepositedEvent) Type() string { return EventTypeDeposited }

// WithdrawnEvent is emitted after a committed withdrawal.
type WithdrawnEvent struct {
	EventID   uuid.UUID    `json:"eventId"`
	Number    string       `json:"accountNumber"`
	Amount    money.Amount `json:"amount"`
	Balance   money.Amount `json:"balance"`
	Timestamp time.Time    `json:"timestamp"`
}

func (WithdrawnEvent) Type() string { return EventTypeWithdrawn }

// TransferCompletedEvent is emitted after a committed transfer and its ledger entry.
type TransferCompletedEvent struct {
	EventID       uuid.UUID    `json:"eventId"`
	TransactionID int64        `json:"transactionId"`
	Source        string       `json:"sourceAccountNumber"`
	Target        string       `json:"targetAccountNumber"`
	Amount        money.Amount `json:"amount"`
	Timestamp     time.Time    `json:"timestamp"`
}

func (TransferCompletedEvent) Type() string { return EventTypeTransferCompleted }
