package account

import (
	"context"
	"errors"
	"time"

	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/cenkalti/backoff/v4"
)

// retry runs fn until it succeeds, fails with a non-contention error, or
// maxAttempts is used up. Waits grow exponentially from retryBackoff with
// jitter.
func (s *Service) retry(ctx context.Context, fn func() error) error {
	if s.maxAttempts <= 1 {
		return fn()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryBackoff
	b.RandomizationFactor = 1
	b.Multiplier = 2
	b.MaxInterval = 32 * s.retryBackoff
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.maxAttempts-1)), ctx)
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := fn()
		if err != nil && !isContention(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		s.logger.Warn("lock contention, retrying", "attempt", attempt, "wait", wait, "error", err)
	})
}

func isContention(err error) bool {
	return errors.Is(err, repository.ErrLockContention) || domain.Retryable(err)
}
