package repository

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account store over db.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByNumber implements repository.AccountRepository.
func (r *accountRepository) FindByNumber(ctx context.Context, number string) (*account.Account, error) {
	var m Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Where("number = ?", number).Take(&m).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToAccount(&m), nil
}

// FindAndLockByNumber implements repository.AccountRepository with
// SELECT ... FOR UPDATE. The row lock lasts until the transaction ends.
func (r *accountRepository) FindAndLockByNumber(ctx context.Context, number string) (*account.Account, error) {
	var m Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("number = ?", number).
			Take(&m).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToAccount(&m), nil
}

// Insert implements repository.AccountRepository.
func (r *accountRepository) Insert(ctx context.Context, a *account.Account) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(mapAccountToModel(a)).Error
	})
}

// Save implements repository.AccountRepository.
func (r *accountRepository) Save(ctx context.Context, a *account.Account) error {
	return WrapError(func() error {
		res := r.db.WithContext(ctx).
			Model(&Account{}).
			Where("id = ?", a.ID).
			Updates(map[string]any{
				"balance":    a.Balance,
				"updated_at": a.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
