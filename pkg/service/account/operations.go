package account

import (
	"context"
	"errors"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/money"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
)

// Withdraw debits amount from the account and returns its new state.
func (s *Service) Withdraw(ctx context.Context, number string, amount money.Amount) (*account.Account, error) {
	logger := s.logger.With("operation", "withdraw", "account", number, "amount", amount)
	logger.Info("Withdraw started")

	a, err := s.adjust(ctx, number, amount, (*account.Account).Withdraw)
	if err != nil {
		logFailure(logger, "Withdraw", err)
		return nil, err
	}

	logger.Info("Withdraw successful", "balance", a.Balance)
	s.emit(ctx, logger, account.WithdrawnEvent{
		EventID:   uuid.New(),
		Number:    a.Number,
		Amount:    amount,
		Balance:   a.Balance,
		Timestamp: a.UpdatedAt,
	})
	return a, nil
}

// Deposit credits amount to the account and returns its new state.
func (s *Service) Deposit(ctx context.Context, number string, amount money.Amount) (*account.Account, error) {
	logger := s.logger.With("operation", "deposit", "account", number, "amount", amount)
	logger.Info("Deposit started")

	a, err := s.adjust(ctx, number, amount, (*account.Account).Deposit)
	if err != nil {
		logFailure(logger, "Deposit", err)
		return nil, err
	}

	logger.Info("Deposit successful", "balance", a.Balance)
	s.emit(ctx, logger, account.DepositedEvent{
		EventID:   uuid.New(),
		Number:    a.Number,
		Amount:    amount,
		Balance:   a.Balance,
		Timestamp: a.UpdatedAt,
	})
	return a, nil
}

// adjust locks one account, applies change and saves it in one unit of work.
func (s *Service) adjust(
	ctx context.Context,
	number string,
	amount money.Amount,
	change func(*account.Account, money.Amount) error,
) (a *account.Account, err error) {
	if !amount.IsPositive() {
		return nil, account.InvalidAmount(amount)
	}
	err = s.retry(ctx, func() error {
		return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.AccountRepository()
			if err != nil {
				return domain.Internal("account repository unavailable", err)
			}
			locked, err := repo.FindAndLockByNumber(ctx, number)
			if err != nil {
				return storeError(err, number)
			}
			if err := change(locked, amount); err != nil {
				return err
			}
			if err := repo.Save(ctx, locked); err != nil {
				return storeError(err, number)
			}
			a = locked
			return nil
		})
	})
	if isContention(err) {
		return nil, account.Contention(number, number)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Transfer moves amount from source to target and records one ledger entry.
// It returns the source account's new state.
func (s *Service) Transfer(
	ctx context.Context,
	source, target string,
	amount money.Amount,
) (src *account.Account, err error) {
	logger := s.logger.With("operation", "transfer", "source", source, "target", target, "amount", amount)
	logger.Info("Transfer started")
	defer func() {
		if err != nil {
			logFailure(logger, "Transfer", err)
		}
	}()

	if source == target {
		return nil, account.SelfTransfer(source)
	}
	if !amount.IsPositive() {
		return nil, account.InvalidAmount(amount)
	}

	var entry *account.Transaction
	err = s.retry(ctx, func() error {
		return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.AccountRepository()
			if err != nil {
				return domain.Internal("account repository unavailable", err)
			}
			locked, err := lockPair(ctx, repo, source, target)
			if err != nil {
				return err
			}
			from, to := locked[source], locked[target]
			if err := from.Withdraw(amount); err != nil {
				return err
			}
			if err := to.Deposit(amount); err != nil {
				return err
			}
			if err := repo.Save(ctx, from); err != nil {
				return storeError(err, source)
			}
			if err := repo.Save(ctx, to); err != nil {
				return storeError(err, target)
			}
			entry, err = s.ledger.Record(ctx, uow, from, to, amount)
			if err != nil {
				return err
			}
			src = from
			return nil
		})
	})
	if isContention(err) {
		return nil, account.Contention(source, target)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Transfer successful", "transaction", entry.ID, "balance", src.Balance)
	s.emit(ctx, logger, account.TransferCompletedEvent{
		EventID:       uuid.New(),
		TransactionID: entry.ID,
		Source:        source,
		Target:        target,
		Amount:        amount,
		Timestamp:     entry.Timestamp,
	})
	return src, nil
}

// lockPair locks both accounts in ascending number order. A missing source is
// reported before a missing target whatever the lock order.
func lockPair(
	ctx context.Context,
	repo repository.AccountRepository,
	source, target string,
) (map[string]*account.Account, error) {
	order := [2]string{source, target}
	if target < source {
		order = [2]string{target, source}
	}
	locked := make(map[string]*account.Account, 2)
	for _, number := range order {
		a, err := repo.FindAndLockByNumber(ctx, number)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, storeError(err, number)
		}
		locked[number] = a
	}
	if _, ok := locked[source]; !ok {
		return nil, account.NotFound(source)
	}
	if _, ok := locked[target]; !ok {
		return nil, account.NotFound(target)
	}
	return locked, nil
}
