package repository

import (
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/google/uuid"
)

// Account represents an account record in the database.
type Account struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Number    string       `gorm:"type:varchar(20);uniqueIndex;not null"`
	Balance   money.Amount `gorm:"type:numeric(19,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction represents a ledger entry record in the database.
type Transaction struct {
	ID              int64        `gorm:"primaryKey;autoIncrement"`
	DebitAccountID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	CreditAccountID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Amount          money.Amount `gorm:"type:numeric(19,2);not null"`
	CreatedAt       time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// transactionRow is a ledger entry joined with both account numbers.
type transactionRow struct {
	ID              int64
	DebitAccountID  uuid.UUID
	CreditAccountID uuid.UUID
	DebitNumber     string
	CreditNumber    string
	Amount          money.Amount
	CreatedAt       time.Time
}

func mapAccountToModel(a *account.Account) *Account {
	return &Account{
		ID:        a.ID,
		Number:    a.Number,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func mapModelToAccount(m *Account) *account.Account {
	return account.NewFromData(m.ID, m.Number, m.Balance, m.CreatedAt.UTC(), m.UpdatedAt.UTC())
}

func mapRowToTransaction(r *transactionRow) *account.Transaction {
	return &account.Transaction{
		ID:              r.ID,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		DebitNumber:     r.DebitNumber,
		CreditNumber:    r.CreditNumber,
		Amount:          r.Amount,
		Timestamp:       r.CreatedAt.UTC(),
	}
}
