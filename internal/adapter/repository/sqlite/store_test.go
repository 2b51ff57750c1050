package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/idgen"
	"github.com/iho/debtledger/internal/usecase"
)

type countingPublisher struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (p *countingPublisher) Publish(ctx context.Context, event *domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *countingPublisher) updates() []*domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*domain.Event
	for _, e := range p.events {
		if e.Type == domain.EventTypeEntryUpdated {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	db      *sql.DB
	events  *countingPublisher
	ledgers *usecase.LedgerUseCase
	entries *usecase.EntryUseCase
	balance *usecase.BalanceUseCase
	people  *usecase.ParticipantUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ids := idgen.NewULIDGenerator()
	txm := NewTxManager(db)
	participants := NewParticipantRepository(db)
	ledgers := NewLedgerRepository(db)
	entries := NewEntryRepository(db)
	audit := NewAuditRepository(db)
	events := &countingPublisher{}

	return &harness{
		db:      db,
		events:  events,
		people:  usecase.NewParticipantUseCase(participants, ids, nil),
		ledgers: usecase.NewLedgerUseCase(txm, ledgers, participants, audit, nil, ids, nil),
		entries: usecase.NewEntryUseCase(txm, ledgers, entries, audit, events, NewRetrier(nil), ids, nil),
		balance: usecase.NewBalanceUseCase(ledgers, entries, nil),
	}
}

func (h *harness) setup(t *testing.T) (alice, bob string, ledger *domain.Ledger) {
	t.Helper()
	ctx := context.Background()

	a, err := h.people.RegisterParticipant(ctx, "Alice")
	require.NoError(t, err)
	b, err := h.people.RegisterParticipant(ctx, "Bob")
	require.NoError(t, err)

	ledger, err = h.ledgers.CreateLedger(ctx, usecase.CreateLedgerInput{
		Name:           "Flat",
		ParticipantIDs: []string{b.ID},
		CreatedBy:      a.ID,
	})
	require.NoError(t, err)
	return a.ID, b.ID, ledger
}

func TestOpenAppliesSchemaIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestLedgerRoundTrip(t *testing.T) {
	h := newHarness(t)
	alice, bob, ledger := h.setup(t)
	ctx := context.Background()

	got, err := NewLedgerRepository(h.db).GetByID(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice, bob}, got.ParticipantIDs)
	assert.Equal(t, "Flat", got.Name)

	list, err := NewLedgerRepository(h.db).ListByParticipant(ctx, bob, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ledger.ID, list[0].ID)

	_, err = NewLedgerRepository(h.db).GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrLedgerNotFound)
}

func TestEntryLifecycleAndBalance(t *testing.T) {
	h := newHarness(t)
	alice, bob, ledger := h.setup(t)
	ctx := context.Background()

	debt, err := h.entries.CreateEntry(ctx, usecase.CreateEntryInput{
		LedgerID:       ledger.ID,
		Type:           domain.EntryTypeDebt,
		CreatorID:      alice,
		CounterpartyID: bob,
		Amount:         decimal.RequireFromString("100.25"),
		Description:    "groceries",
	})
	require.NoError(t, err)

	pending, err := h.entries.ListPendingForCaller(ctx, bob, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = h.entries.TransitionEntry(ctx, debt.ID, domain.ActionApprove, bob)
	require.NoError(t, err)

	b, err := h.balance.ComputeBalance(ctx, ledger.ID, bob, bob)
	require.NoError(t, err)
	assert.True(t, b.Net.Equal(decimal.RequireFromString("-100.25")), "net=%s", b.Net)

	_, err = h.entries.TransitionEntry(ctx, debt.ID, domain.ActionRequestClose, alice)
	require.NoError(t, err)

	requests, err := h.entries.ListCloseRequestsForCaller(ctx, bob, 10, 0)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.NotNil(t, requests[0].CloseRequestedBy)
	assert.Equal(t, alice, *requests[0].CloseRequestedBy)

	closed, err := h.entries.TransitionEntry(ctx, debt.ID, domain.ActionApproveClose, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	b, err = h.balance.ComputeBalance(ctx, ledger.ID, bob, bob)
	require.NoError(t, err)
	assert.True(t, b.Net.IsZero())

	history, err := h.entries.EntryHistory(ctx, debt.ID, alice)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, domain.AuditActionEntryCreate, history[0].Action)
	assert.Equal(t, "closed", history[3].AfterState["status"])
}

func TestUpdateStateCompareAndSwap(t *testing.T) {
	h := newHarness(t)
	alice, bob, ledger := h.setup(t)
	ctx := context.Background()

	e, err := h.entries.CreateEntry(ctx, usecase.CreateEntryInput{
		LedgerID:       ledger.ID,
		Type:           domain.EntryTypeDebt,
		CreatorID:      alice,
		CounterpartyID: bob,
		Amount:         decimal.NewFromInt(5),
		Description:    "coffee",
	})
	require.NoError(t, err)

	next := *e
	next.Status = domain.EntryStatusApproved

	tx, err := NewTxManager(h.db).Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	repo := NewEntryRepository(h.db)
	err = repo.UpdateState(ctx, tx, &next, domain.EntryStatusCloseRequested)
	assert.ErrorIs(t, err, domain.ErrEntryConflict)
	require.NoError(t, repo.UpdateState(ctx, tx, &next, domain.EntryStatusPending))
	require.NoError(t, tx.Commit(ctx))
}

func TestConcurrentApproveHasOneWinner(t *testing.T) {
	h := newHarness(t)
	alice, bob, ledger := h.setup(t)
	ctx := context.Background()

	e, err := h.entries.CreateEntry(ctx, usecase.CreateEntryInput{
		LedgerID:       ledger.ID,
		Type:           domain.EntryTypeDebt,
		CreatorID:      alice,
		CounterpartyID: bob,
		Amount:         decimal.NewFromInt(40),
		Description:    "tickets",
	})
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			action := domain.ActionApprove
			if i%2 == 1 {
				action = domain.ActionReject
			}
			_, err := h.entries.TransitionEntry(ctx, e.ID, action, bob)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range failures {
		kind := domain.KindOf(err)
		assert.Contains(t, []domain.Kind{domain.KindInvalidTransition, domain.KindConflict}, kind, fmt.Sprint(err))
	}
}

func TestConcurrentCloseAnswersHaveOneWinner(t *testing.T) {
	h := newHarness(t)
	alice, bob, ledger := h.setup(t)
	ctx := context.Background()

	e, err := h.entries.CreateEntry(ctx, usecase.CreateEntryInput{
		LedgerID:       ledger.ID,
		Type:           domain.EntryTypeDebt,
		CreatorID:      alice,
		CounterpartyID: bob,
		Amount:         decimal.NewFromInt(15),
		Description:    "dinner",
	})
	require.NoError(t, err)
	_, err = h.entries.TransitionEntry(ctx, e.ID, domain.ActionApprove, bob)
	require.NoError(t, err)
	_, err = h.entries.TransitionEntry(ctx, e.ID, domain.ActionRequestClose, alice)
	require.NoError(t, err)
	before := len(h.events.updates())

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for _, action := range []domain.Action{domain.ActionApproveClose, domain.ActionRejectClose} {
		wg.Add(1)
		go func(action domain.Action) {
			defer wg.Done()
			_, err := h.entries.TransitionEntry(ctx, e.ID, action, bob)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(action)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	require.Len(t, failures, 1)
	assert.Contains(t, []domain.Kind{domain.KindInvalidTransition, domain.KindConflict}, domain.KindOf(failures[0]), fmt.Sprint(failures[0]))

	final, err := h.entries.GetEntry(ctx, e.ID, alice)
	require.NoError(t, err)
	assert.Contains(t, []domain.EntryStatus{domain.EntryStatusClosed, domain.EntryStatusApproved}, final.Status)
	assert.Len(t, h.events.updates(), before+1)
}

func TestClassify(t *testing.T) {
	busy := sqlite3.Error{Code: sqlite3.ErrBusy}
	assert.ErrorIs(t, classify(busy, nil), domain.ErrUnavailable)

	unique := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
	assert.ErrorIs(t, classify(unique, nil), domain.ErrConflict)

	check := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}
	assert.ErrorIs(t, classify(check, nil), domain.ErrInvalidArgument)

	assert.ErrorIs(t, classify(sql.ErrNoRows, domain.ErrEntryNotFound), domain.ErrEntryNotFound)
	assert.True(t, errors.Is(classify(sql.ErrNoRows, nil), sql.ErrNoRows))
}

func TestRetrierRetriesBusy(t *testing.T) {
	r := NewRetrier(nil)
	r.initialInterval = 0
	attempts := 0

	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return classify(sqlite3.Error{Code: sqlite3.ErrBusy}, nil)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	attempts = 0
	err = r.Retry(context.Background(), func() error {
		attempts++
		return domain.ErrTransitionNotAllowed
	})
	assert.ErrorIs(t, err, domain.ErrTransitionNotAllowed)
	assert.Equal(t, 1, attempts)
}
