// Package account implements the balance engine: account creation and
// lookup, withdrawals, deposits and transfers between accounts.
//
// Every balance change runs inside one unit of work holding the exclusive
// lock of each account it touches. Transfers lock both accounts in ascending
// account-number order, so two transfers between the same pair of accounts
// in opposite directions can never deadlock. Lock waits that still time out
// are retried with jittered exponential backoff and finally reported as a
// retryable contention error.
package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/amirasaad/ledger/pkg/service/ledger"
	"github.com/google/uuid"
)

// Retry defaults used when no configuration is supplied.
const (
	DefaultMaxAttempts  = 3
	DefaultRetryBackoff = 50 * time.Millisecond
)

// Service provides account operations over a unit of work.
type Service struct {
	uow          repository.UnitOfWork
	bus          eventbus.Bus
	ledger       *ledger.Service
	logger       *slog.Logger
	maxAttempts  int
	retryBackoff time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithRetry overrides the contention retry policy.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(s *Service) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if backoff >= 0 {
			s.retryBackoff = backoff
		}
	}
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps, opts ...Option) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:          deps.Uow,
		bus:          deps.EventBus,
		ledger:       ledger.NewService(deps),
		logger:       logger.With("service", "account"),
		maxAttempts:  DefaultMaxAttempts,
		retryBackoff: DefaultRetryBackoff,
	}
	if deps.Config != nil && deps.Config.Transfer != nil {
		WithRetry(deps.Config.Transfer.MaxAttempts, deps.Config.Transfer.RetryBackoff)(s)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ledger returns the ledger service the engine records transfers with.
func (s *Service) Ledger() *ledger.Service {
	return s.ledger
}

// Create opens a zero-balance account under number.
func (s *Service) Create(ctx context.Context, number string) (a *account.Account, err error) {
	logger := s.logger.With("operation", "create", "account", number)
	logger.Info("Create started")
	defer func() {
		if err != nil {
			logFailure(logger, "Create", err)
		}
	}()

	a, err = account.New(number)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return domain.Internal("account repository unavailable", err)
		}
		if err := repo.Insert(ctx, a); err != nil {
			return storeError(err, number)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Create successful", "accountID", a.ID)
	s.emit(ctx, logger, account.CreatedEvent{
		EventID:   uuid.New(),
		Number:    a.Number,
		Timestamp: a.CreatedAt,
	})
	return a, nil
}

// Get reads an account without locking it.
func (s *Service) Get(ctx context.Context, number string) (a *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return domain.Internal("account repository unavailable", err)
		}
		a, err = repo.FindByNumber(ctx, number)
		if err != nil {
			return storeError(err, number)
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger.With("operation", "get", "account", number), "Get", err)
		return nil, err
	}
	return a, nil
}

// Transactions returns the ledger history of an account, newest first.
func (s *Service) Transactions(ctx context.Context, number string, limit int) ([]*account.Transaction, error) {
	return s.ledger.History(ctx, number, limit)
}

// emit publishes evt after commit. Failures are logged only: the operation
// has already taken effect.
func (s *Service) emit(ctx context.Context, logger *slog.Logger, evt domain.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		logger.Error("event emit failed", "event", evt.Type(), "error", err)
	}
}
