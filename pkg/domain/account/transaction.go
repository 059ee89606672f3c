package account

import (
	"time"

	"github.com/amirasaad/ledger/pkg/money"
	"github.com/google/uuid"
)

// Transaction is an immutable ledger entry recording a movement of Amount
// from the debit account to the credit account. ID and Timestamp are assigned
// by the store when the entry is appended.
type Transaction struct {
	ID              int64
	DebitAccountID  uuid.UUID
	CreditAccountID uuid.UUID
	DebitNumber     string
	CreditNumber    string
	Amount          money.Amount
	Timestamp       time.Time
}

// NewTransaction creates an unsaved ledger entry between two accounts.
func NewTransaction(debit, credit *Account, amount money.Amount) *Transaction {
	return &Transaction{
		DebitAccountID:  debit.ID,
		CreditAccountID: credit.ID,
		DebitNumber:     debit.Number,
		CreditNumber:    credit.Number,
		Amount:          amount,
	}
}

// TransactionView is the external representation of a ledger entry.
type TransactionView struct {
	ID            int64        `json:"id"`
	SourceAccount string       `json:"sourceAccount"`
	TargetAccount string       `json:"targetAccount"`
	Amount        money.Amount `json:"amount"`
	Timestamp     time.Time    `json:"timestamp"`
}

// View returns the external representation of the entry.
func (t *Transaction) View() TransactionView {
	return TransactionView{
		ID:            t.ID,
		SourceAccount: t.DebitNumber,
		TargetAccount: t.CreditNumber,
		Amount:        t.Amount,
		Timestamp:     t.Timestamp,
	}
}
