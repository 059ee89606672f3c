package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/google/uuid"
)

// Store errors. Implementations map their native failures onto these so the
// service layer can translate them into domain errors.
var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when an insert violates a uniqueness constraint.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrLockContention is returned when a row lock could not be acquired before
	// the store's wait timeout, or the store detected a deadlock.
	ErrLockContention = errors.New("lock contention")
)

// AccountRepository defines the account store.
type AccountRepository interface {
	// FindByNumber reads an account without locking it.
	FindByNumber(ctx context.Context, number string) (*account.Account, error)

	// FindAndLockByNumber takes the account's exclusive lock and reads it.
	// The lock is held until the enclosing unit of work ends.
	FindAndLockByNumber(ctx context.Context, number string) (*account.Account, error)

	// Insert stores a new account.
	Insert(ctx context.Context, a *account.Account) error

	// Save writes the account's balance.
	Save(ctx context.Context, a *account.Account) error
}

// TransactionRepository defines the append-only ledger store.
type TransactionRepository interface {
	// Append stores a new entry, assigning its ID and Timestamp.
	Append(ctx context.Context, tx *account.Transaction) error

	// ListByAccount returns up to limit entries debiting or crediting the
	// account, newest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*account.Transaction, error)
}
