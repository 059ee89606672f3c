// Package ledger records transfers as immutable ledger entries and answers
// history queries. Recording never touches balances; the caller moves the
// money and records the entry in the same unit of work.
package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/amirasaad/ledger/pkg/repository"
)

const (
	// DefaultHistoryLimit applies when History is called with limit <= 0.
	DefaultHistoryLimit = 100
	// MaxHistoryLimit caps the number of entries History returns.
	MaxHistoryLimit = 1000
)

// Service appends and lists ledger entries.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a ledger Service.
func NewService(deps config.Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:    deps.Uow,
		logger: logger.With("service", "ledger"),
	}
}

// Record appends one entry moving amount from debit to credit inside uow.
// Both accounts must already be locked by the caller.
func (s *Service) Record(
	ctx context.Context,
	uow repository.UnitOfWork,
	debit, credit *account.Account,
	amount money.Amount,
) (*account.Transaction, error) {
	if !amount.IsPositive() {
		return nil, account.InvalidAmount(amount)
	}
	if debit.ID == credit.ID {
		return nil, account.SelfTransfer(debit.Number)
	}
	repo, err := uow.TransactionRepository()
	if err != nil {
		return nil, domain.Internal("ledger repository unavailable", err)
	}
	entry := account.NewTransaction(debit, credit, amount)
	if err := repo.Append(ctx, entry); err != nil {
		return nil, s.translate(err, debit.Number, credit.Number)
	}
	s.logger.Debug("ledger entry recorded",
		"transaction", entry.ID, "debit", debit.Number, "credit", credit.Number, "amount", amount)
	return entry, nil
}

// RecordStandalone resolves both accounts by number and records an entry in
// its own unit of work. Balances are left untouched.
func (s *Service) RecordStandalone(
	ctx context.Context,
	debitNumber, creditNumber string,
	amount money.Amount,
) (entry *account.Transaction, err error) {
	logger := s.logger.With("debit", debitNumber, "credit", creditNumber, "amount", amount)
	logger.Info("RecordStandalone started")
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return domain.Internal("account repository unavailable", err)
		}
		debit, err := repo.FindByNumber(ctx, debitNumber)
		if err != nil {
			return s.translate(err, debitNumber)
		}
		credit, err := repo.FindByNumber(ctx, creditNumber)
		if err != nil {
			return s.translate(err, creditNumber)
		}
		entry, err = s.Record(ctx, uow, debit, credit, amount)
		return err
	})
	if err != nil {
		logger.Warn("RecordStandalone failed", "error", err)
		return nil, err
	}
	logger.Info("RecordStandalone successful", "transaction", entry.ID)
	return entry, nil
}

// History returns up to limit entries touching the account, newest first.
func (s *Service) History(ctx context.Context, number string, limit int) (txs []*account.Transaction, err error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return domain.Internal("account repository unavailable", err)
		}
		a, err := accounts.FindByNumber(ctx, number)
		if err != nil {
			return s.translate(err, number)
		}
		entries, err := uow.TransactionRepository()
		if err != nil {
			return domain.Internal("ledger repository unavailable", err)
		}
		txs, err = entries.ListByAccount(ctx, a.ID, limit)
		if err != nil {
			return s.translate(err, number)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("History failed", "account", number, "error", err)
		return nil, err
	}
	return txs, nil
}

func (s *Service) translate(err error, numbers ...string) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound) && len(numbers) > 0:
		return account.NotFound(numbers[0])
	case errors.Is(err, repository.ErrLockContention) && len(numbers) > 1:
		return account.Contention(numbers[0], numbers[1])
	case errors.Is(err, repository.ErrLockContention) && len(numbers) == 1:
		return account.Contention(numbers[0], numbers[0])
	default:
		return domain.Internal("ledger store failure", err)
	}
}
