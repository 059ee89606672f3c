package memory

import (
	"context"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
)

type accountRepository struct {
	uow *UoW
}

// FindByNumber implements repository.AccountRepository.
func (r *accountRepository) FindByNumber(ctx context.Context, number string) (a *account.Account, err error) {
	err = r.uow.run(ctx, func(tx *txState) error {
		found, ok := r.uow.store.lookup(tx, number)
		if !ok {
			return repository.ErrNotFound
		}
		a = found
		return nil
	})
	return a, err
}

// FindAndLockByNumber implements repository.AccountRepository.
func (r *accountRepository) FindAndLockByNumber(ctx context.Context, number string) (a *account.Account, err error) {
	err = r.uow.run(ctx, func(tx *txState) error {
		s := r.uow.store
		if _, held := tx.held[number]; !held {
			sem, err := s.acquire(ctx, number)
			if err != nil {
				return err
			}
			found, ok := s.lookup(tx, number)
			if !ok {
				s.unlock(number, sem)
				return repository.ErrNotFound
			}
			tx.held[number] = sem
			a = found
			return nil
		}
		found, ok := s.lookup(tx, number)
		if !ok {
			return repository.ErrNotFound
		}
		a = found
		return nil
	})
	return a, err
}

// Insert implements repository.AccountRepository.
func (r *accountRepository) Insert(ctx context.Context, a *account.Account) error {
	return r.uow.run(ctx, func(tx *txState) error {
		s := r.uow.store
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.accounts[a.Number]; ok {
			return repository.ErrAlreadyExists
		}
		if _, ok := s.reserved[a.Number]; ok {
			return repository.ErrAlreadyExists
		}
		s.reserved[a.Number] = struct{}{}
		tx.inserts[a.Number] = a.Clone()
		return nil
	})
}

// Save implements repository.AccountRepository.
func (r *accountRepository) Save(ctx context.Context, a *account.Account) error {
	return r.uow.run(ctx, func(tx *txState) error {
		if pending, ok := tx.inserts[a.Number]; ok {
			pending.Balance = a.Balance
			pending.UpdatedAt = a.UpdatedAt
			return nil
		}
		current, ok := r.uow.store.lookup(tx, a.Number)
		if !ok {
			return repository.ErrNotFound
		}
		current.Balance = a.Balance
		current.UpdatedAt = a.UpdatedAt
		tx.writes[a.Number] = current
		return nil
	})
}

type transactionRepository struct {
	uow *UoW
}

// Append implements repository.TransactionRepository.
func (r *transactionRepository) Append(ctx context.Context, entry *account.Transaction) error {
	return r.uow.run(ctx, func(tx *txState) error {
		s := r.uow.store
		if !s.accountExists(tx, entry.DebitAccountID) || !s.accountExists(tx, entry.CreditAccountID) {
			return repository.ErrNotFound
		}
		entry.ID = s.nextTxID.Add(1)
		entry.Timestamp = time.Now().UTC()
		c := *entry
		tx.entries = append(tx.entries, &c)
		return nil
	})
}

// ListByAccount implements repository.TransactionRepository.
func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) (out []*account.Transaction, err error) {
	err = r.uow.run(ctx, func(tx *txState) error {
		out = r.uow.store.listByAccount(tx, accountID, limit)
		return nil
	})
	return out, err
}
