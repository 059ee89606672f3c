package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/ledger/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
type UoW struct {
	db          *gorm.DB
	tx          *gorm.DB
	lockTimeout time.Duration
}

// Option configures a UoW.
type Option func(*UoW)

// WithLockTimeout bounds row lock waits inside each transaction.
func WithLockTimeout(d time.Duration) Option {
	return func(u *UoW) {
		u.lockTimeout = d
	}
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB, opts ...Option) *UoW {
	u := &UoW{db: db}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Do runs fn in one database transaction. Nested calls join the outer
// transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(&UoW{db: u.db, tx: tx, lockTimeout: u.lockTimeout})
	})
	return MapGormError(err)
}

// AccountRepository returns the account store bound to the current transaction.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return NewAccountRepository(u.session()), nil
}

// TransactionRepository returns the ledger store bound to the current transaction.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return NewTransactionRepository(u.session()), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

var _ repository.UnitOfWork = (*UoW)(nil)
