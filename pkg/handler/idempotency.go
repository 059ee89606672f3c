package handler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/domain"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"golang.org/x/sync/singleflight"
)

// DefaultKeyTTL is how long a processed key is remembered.
const DefaultKeyTTL = 24 * time.Hour

// sweepEvery is the number of local writes between expired key sweeps.
const sweepEvery = 1024

// KeyExtractor extracts an idempotency key from an event
type KeyExtractor func(domain.Event) string

// IdempotencyTracker tracks processed events by key for ttl. With a shared
// store the keys live only in the store; otherwise they are kept in process
// and expire after ttl.
type IdempotencyTracker struct {
	processed sync.Map // key -> expiry, used without a shared store
	writes    atomic.Int64
	inflight  singleflight.Group
	store     cache.KeyStore
	ttl       time.Duration
	now       func() time.Time
}

// TrackerOption configures an IdempotencyTracker.
type TrackerOption func(*IdempotencyTracker)

// WithKeyStore keeps processed keys in store for ttl.
func WithKeyStore(store cache.KeyStore, ttl time.Duration) TrackerOption {
	return func(t *IdempotencyTracker) {
		t.store = store
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithKeyTTL sets how long processed keys are remembered.
func WithKeyTTL(ttl time.Duration) TrackerOption {
	return func(t *IdempotencyTracker) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// NewIdempotencyTracker creates a new idempotency tracker
func NewIdempotencyTracker(opts ...TrackerOption) *IdempotencyTracker {
	t := &IdempotencyTracker{ttl: DefaultKeyTTL, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Store marks a key as processed
func (t *IdempotencyTracker) Store(ctx context.Context, key string) error {
	if t.store != nil {
		return t.store.Set(ctx, key, t.ttl)
	}
	t.processed.Store(key, t.now().Add(t.ttl))
	if t.writes.Add(1)%sweepEvery == 0 {
		t.sweep()
	}
	return nil
}

// Seen reports whether key was processed within ttl.
func (t *IdempotencyTracker) Seen(ctx context.Context, key string) (bool, error) {
	if t.store != nil {
		return t.store.Exists(ctx, key)
	}
	v, ok := t.processed.Load(key)
	if !ok {
		return false, nil
	}
	if !t.now().Before(v.(time.Time)) {
		t.processed.CompareAndDelete(key, v)
		return false, nil
	}
	return true, nil
}

// Delete removes a key from the tracker
func (t *IdempotencyTracker) Delete(ctx context.Context, key string) error {
	if t.store != nil {
		return t.store.Delete(ctx, key)
	}
	t.processed.Delete(key)
	return nil
}

// sweep drops expired local keys.
func (t *IdempotencyTracker) sweep() {
	now := t.now()
	t.processed.Range(func(k, v any) bool {
		if !now.Before(v.(time.Time)) {
			t.processed.CompareAndDelete(k, v)
		}
		return true
	})
}

// WithIdempotency wraps a handler so that redelivered events are acknowledged
// without running it again. A key is marked processed only after the handler
// succeeds. Store failures are logged and the event is handled anyway.
func WithIdempotency(
	handler eventbus.HandlerFunc,
	tracker *IdempotencyTracker,
	keyExtractor KeyExtractor,
	handlerName string,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, e domain.Event) error {
		key := keyExtractor(e)
		if key == "" {
			return handler(ctx, e)
		}

		log := logger.With(
			"handler", handlerName,
			"event_type", e.Type(),
			"idempotency_key", key,
		)

		seen := func() bool {
			ok, err := tracker.Seen(ctx, key)
			if err != nil {
				log.Warn("Idempotency lookup failed", "error", err)
			}
			return ok
		}
		if seen() {
			log.Info("🔁 [SKIP] Event already processed")
			return nil
		}

		// Concurrent deliveries of one key share a single handler run.
		_, err, _ := tracker.inflight.Do(key, func() (any, error) {
			if seen() {
				return nil, nil
			}
			if err := handler(ctx, e); err != nil {
				return nil, err
			}
			if err := tracker.Store(ctx, key); err != nil {
				log.Warn("Failed to record processed event", "error", err)
			}
			return nil, nil
		})
		return err
	}
}
