package memory

import (
	"context"

	"github.com/amirasaad/ledger/pkg/repository"
)

// UoW implements repository.UnitOfWork over a Store.
type UoW struct {
	store *Store
	tx    *txState
}

// NewUoW creates a unit of work factory bound to store.
func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn with its own transaction state. Nested calls join the outer
// unit of work.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) (err error) {
	if u.tx != nil {
		return fn(u)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := newTxState()
	defer func() {
		if r := recover(); r != nil {
			u.store.rollback(tx)
			u.store.release(tx)
			panic(r)
		}
	}()

	if err = fn(&UoW{store: u.store, tx: tx}); err != nil {
		u.store.rollback(tx)
		u.store.release(tx)
		return err
	}
	u.store.commit(tx)
	u.store.release(tx)
	return nil
}

// AccountRepository returns the account store bound to this unit of work.
// Outside Do every call commits on its own.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepository{uow: u}, nil
}

// TransactionRepository returns the ledger store bound to this unit of work.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepository{uow: u}, nil
}

// run executes fn against the current transaction, or a fresh one that is
// committed immediately when called outside Do.
func (u *UoW) run(ctx context.Context, fn func(tx *txState) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}
	return u.Do(ctx, func(inner repository.UnitOfWork) error {
		return fn(inner.(*UoW).tx)
	})
}

var _ repository.UnitOfWork = (*UoW)(nil)
