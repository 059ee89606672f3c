package repository

import "context"

// UnitOfWork defines the transaction boundary and repository access in one abstraction.
//
// Repositories obtained from the UnitOfWork passed to Do share its storage
// transaction: every write inside fn commits together or not at all, and
// every lock taken inside fn is released when Do returns.
type UnitOfWork interface {
	// Do executes fn within one storage transaction. If fn returns an error
	// or panics, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// AccountRepository returns the account store bound to the current transaction.
	AccountRepository() (AccountRepository, error)

	// TransactionRepository returns the ledger store bound to the current transaction.
	TransactionRepository() (TransactionRepository, error)
}
