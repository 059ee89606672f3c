package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
)

// storeError maps a store failure on number to a domain error. Lock
// contention passes through unchanged so the retry loop can see it.
func storeError(err error, number string) error {
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return account.NotFound(number)
	case errors.Is(err, repository.ErrAlreadyExists):
		return account.AlreadyExists(number)
	case errors.Is(err, repository.ErrLockContention),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return domain.Internal("account store failure", err)
	}
}

// logFailure logs business rejections at Warn and everything else at Error.
func logFailure(logger *slog.Logger, op string, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		logger.Error(op+" failed", "error", err)
		return
	}
	logger.Warn(op+" rejected", "kind", kind, "error", err)
}
