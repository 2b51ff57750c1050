// Package memory provides process-local repositories for development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// Store holds all records. Writes made inside a transaction are staged and
// become visible together on Commit.
type Store struct {
	mu           sync.RWMutex
	participants map[string]*domain.Participant
	ledgers      map[string]*domain.Ledger
	entries      map[string]*domain.Entry
	audit        []*domain.AuditLog

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		participants: make(map[string]*domain.Participant),
		ledgers:      make(map[string]*domain.Ledger),
		entries:      make(map[string]*domain.Entry),
		locks:        make(map[string]chan struct{}),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// entryLock returns the lock of one entry. Entries never share a lock.
func (s *Store) entryLock(id string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[id] = l
	}
	return l
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	return &Tx{store: m.store, held: make(map[string]chan struct{})}, nil
}

// Tx stages writes and holds entry locks until it ends.
type Tx struct {
	store  *Store
	staged []func(s *Store)
	held   map[string]chan struct{}
	done   bool
}

// Commit applies the staged writes atomically and releases held locks.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return fmt.Errorf("%w: transaction already closed", domain.ErrConflict)
	}

	t.store.mu.Lock()
	for _, apply := range t.staged {
		apply(t.store)
	}
	t.store.mu.Unlock()

	t.release()
	return nil
}

// Rollback discards staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (t *Tx) stage(apply func(s *Store)) {
	t.staged = append(t.staged, apply)
}

func (t *Tx) lock(ctx context.Context, id string) error {
	if _, ok := t.held[id]; ok {
		return nil
	}

	l := t.store.entryLock(id)
	select {
	case l <- struct{}{}:
		t.held[id] = l
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for entry lock: %w", domain.ErrUnavailable, ctx.Err())
	}
}

func (t *Tx) release() {
	for id, l := range t.held {
		<-l
		delete(t.held, id)
	}
	t.staged = nil
	t.done = true
}

func cloneEntry(e *domain.Entry) *domain.Entry {
	c := *e
	return &c
}

func cloneLedger(l *domain.Ledger) *domain.Ledger {
	c := *l
	c.ParticipantIDs = slices.Clone(l.ParticipantIDs)
	return &c
}

// paginate returns the [offset, offset+limit) window of items.
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
