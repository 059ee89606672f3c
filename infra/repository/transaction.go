package repository

import (
	"context"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a ledger store over db.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Append implements repository.TransactionRepository.
func (r *transactionRepository) Append(ctx context.Context, tx *account.Transaction) error {
	m := Transaction{
		DebitAccountID:  tx.DebitAccountID,
		CreditAccountID: tx.CreditAccountID,
		Amount:          tx.Amount,
	}
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	}); err != nil {
		return err
	}
	tx.ID = m.ID
	tx.Timestamp = m.CreatedAt.UTC()
	return nil
}

// ListByAccount implements repository.TransactionRepository.
func (r *transactionRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	limit int,
) ([]*account.Transaction, error) {
	var rows []transactionRow
	q := r.db.WithContext(ctx).
		Table("transactions AS t").
		Select("t.id, t.debit_account_id, t.credit_account_id, d.number AS debit_number, " +
			"c.number AS credit_number, t.amount, t.created_at").
		Joins("JOIN accounts d ON d.id = t.debit_account_id").
		Joins("JOIN accounts c ON c.id = t.credit_account_id").
		Where("t.debit_account_id = ? OR t.credit_account_id = ?", accountID, accountID).
		Order("t.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := WrapError(func() error { return q.Scan(&rows).Error }); err != nil {
		return nil, err
	}

	out := make([]*account.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, mapRowToTransaction(&rows[i]))
	}
	return out, nil
}
