package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/debtledger/internal/adapter/repository/memory"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/idgen"
	"github.com/iho/debtledger/internal/usecase"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*domain.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event *domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) ofType(eventType string) []*domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []*domain.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	store        *memory.Store
	participants *usecase.ParticipantUseCase
	ledgers      *usecase.LedgerUseCase
	entries      *usecase.EntryUseCase
	balances     *usecase.BalanceUseCase
	events       *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	participantRepo := memory.NewParticipantRepository(store)
	ledgerRepo := memory.NewLedgerRepository(store)
	entryRepo := memory.NewEntryRepository(store)
	auditRepo := memory.NewAuditRepository(store)
	ids := idgen.NewULIDGenerator()
	events := &recordingPublisher{}

	return &fixture{
		store:        store,
		participants: usecase.NewParticipantUseCase(participantRepo, ids, nil),
		ledgers:      usecase.NewLedgerUseCase(txManager, ledgerRepo, participantRepo, auditRepo, events, ids, nil),
		entries:      usecase.NewEntryUseCase(txManager, ledgerRepo, entryRepo, auditRepo, events, nil, ids, nil),
		balances:     usecase.NewBalanceUseCase(ledgerRepo, entryRepo, nil),
		events:       events,
	}
}

func (f *fixture) register(t *testing.T, name string) string {
	t.Helper()

	p, err := f.participants.RegisterParticipant(context.Background(), name)
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) ledger(t *testing.T, creator string, others ...string) *domain.Ledger {
	t.Helper()

	l, err := f.ledgers.CreateLedger(context.Background(), usecase.CreateLedgerInput{
		Name:           "Shared flat",
		ParticipantIDs: others,
		CreatedBy:      creator,
	})
	require.NoError(t, err)
	return l
}

func (f *fixture) entry(t *testing.T, ledgerID string, typ domain.EntryType, creator, counterparty string, amount int64) *domain.Entry {
	t.Helper()

	e, err := f.entries.CreateEntry(context.Background(), usecase.CreateEntryInput{
		LedgerID:       ledgerID,
		Type:           typ,
		CreatorID:      creator,
		CounterpartyID: counterparty,
		Amount:         decimal.NewFromInt(amount),
		Description:    "groceries",
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) transition(t *testing.T, entryID string, action domain.Action, actor string) *domain.Entry {
	t.Helper()

	e, err := f.entries.TransitionEntry(context.Background(), entryID, action, actor)
	require.NoError(t, err)
	return e
}

func (f *fixture) net(t *testing.T, ledgerID, participantID string) decimal.Decimal {
	t.Helper()

	b, err := f.balances.ComputeBalance(context.Background(), ledgerID, participantID, participantID)
	require.NoError(t, err)
	return b.Net
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
}
