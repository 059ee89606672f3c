// Package memory provides an embedded, in-process account and ledger store.
//
// Exclusive account locks come from a lock table holding one weighted
// semaphore per account number. Writes made inside a unit of work are
// buffered and applied on commit, so a failed unit of work leaves nothing
// behind.
package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/account"
	"github.com/amirasaad/ledger/pkg/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// DefaultLockTimeout bounds how long FindAndLockByNumber waits for a lock.
const DefaultLockTimeout = 5 * time.Second

// Store holds committed state shared by every unit of work.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
	byID     map[uuid.UUID]string
	reserved map[string]struct{}
	ledger   []*account.Transaction

	nextTxID    atomic.Int64
	locks       *lockTable
	lockTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout sets the lock wait bound.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		accounts:    make(map[string]*account.Account),
		byID:        make(map[uuid.UUID]string),
		reserved:    make(map[string]struct{}),
		locks:       newLockTable(),
		lockTimeout: DefaultLockTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "memory-store")
	return s
}

// lockTable maps account numbers to their exclusive locks. An entry lives
// while a unit of work holds or waits for it.
type lockTable struct {
	mu   sync.Mutex
	sems map[string]*lockEntry
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{sems: make(map[string]*lockEntry)}
}

func (t *lockTable) ref(number string) *semaphore.Weighted {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.sems[number]
	if !ok {
		e = &lockEntry{sem: semaphore.NewWeighted(1)}
		t.sems[number] = e
	}
	e.refs++
	return e.sem
}

func (t *lockTable) unref(number string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.sems[number]
	if !ok {
		return
	}
	if e.refs--; e.refs == 0 {
		delete(t.sems, number)
	}
}

func (t *lockTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sems)
}

// acquire waits for the lock on number, giving up after the store's lock
// timeout with repository.ErrLockContention.
func (s *Store) acquire(ctx context.Context, number string) (*semaphore.Weighted, error) {
	sem := s.locks.ref(number)
	waitCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	if err := sem.Acquire(waitCtx, 1); err != nil {
		s.locks.unref(number)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("lock wait timed out", "account", number, "timeout", s.lockTimeout)
		return nil, repository.ErrLockContention
	}
	return sem, nil
}

// unlock releases a lock taken by acquire.
func (s *Store) unlock(number string, sem *semaphore.Weighted) {
	sem.Release(1)
	s.locks.unref(number)
}

// txState is the private state of one unit of work.
type txState struct {
	held    map[string]*semaphore.Weighted
	writes  map[string]*account.Account
	inserts map[string]*account.Account
	entries []*account.Transaction
}

func newTxState() *txState {
	return &txState{
		held:    make(map[string]*semaphore.Weighted),
		writes:  make(map[string]*account.Account),
		inserts: make(map[string]*account.Account),
	}
}

// release drops every lock held by tx.
func (s *Store) release(tx *txState) {
	for number, sem := range tx.held {
		s.unlock(number, sem)
		delete(tx.held, number)
	}
}

// commit applies the buffered writes. Locks are still held by the caller.
func (s *Store) commit(tx *txState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for number, a := range tx.inserts {
		delete(s.reserved, number)
		s.accounts[number] = a.Clone()
		s.byID[a.ID] = number
	}
	for number, a := range tx.writes {
		s.accounts[number] = a.Clone()
	}
	s.ledger = append(s.ledger, tx.entries...)
}

// rollback discards buffered writes and frees reserved numbers.
func (s *Store) rollback(tx *txState) {
	if len(tx.inserts) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for number := range tx.inserts {
		delete(s.reserved, number)
	}
}

// lookup returns the account as seen by tx: its own pending writes first,
// then committed state.
func (s *Store) lookup(tx *txState, number string) (*account.Account, bool) {
	if a, ok := tx.writes[number]; ok {
		return a.Clone(), true
	}
	if a, ok := tx.inserts[number]; ok {
		return a.Clone(), true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[number]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

func (s *Store) accountExists(tx *txState, id uuid.UUID) bool {
	for _, a := range tx.inserts {
		if a.ID == id {
			return true
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

func (s *Store) listByAccount(tx *txState, id uuid.UUID, limit int) []*account.Transaction {
	var out []*account.Transaction
	match := func(e *account.Transaction) bool {
		return e.DebitAccountID == id || e.CreditAccountID == id
	}
	for _, e := range tx.entries {
		if match(e) {
			c := *e
			out = append(out, &c)
		}
	}
	s.mu.RLock()
	for _, e := range s.ledger {
		if match(e) {
			c := *e
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
