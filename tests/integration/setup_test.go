package integration

import (
	"context"
	"testing"

	"github.com/iho/debtledger/internal/adapter/repository/postgres"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/idgen"
	"github.com/iho/debtledger/internal/usecase"
	"github.com/iho/debtledger/tests/testutil"
)

type app struct {
	db       *testutil.TestDB
	ledgers  *usecase.LedgerUseCase
	entries  *usecase.EntryUseCase
	balances *usecase.BalanceUseCase
}

func newApp(t *testing.T, publisher usecase.EventPublisher) *app {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	participantRepo := postgres.NewParticipantRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	idGen := idgen.NewULIDGenerator()

	return &app{
		db:       testDB,
		ledgers:  usecase.NewLedgerUseCase(txManager, ledgerRepo, participantRepo, auditRepo, publisher, idGen, nil),
		entries:  usecase.NewEntryUseCase(txManager, ledgerRepo, entryRepo, auditRepo, publisher, postgres.NewRetrier(nil), idGen, nil),
		balances: usecase.NewBalanceUseCase(ledgerRepo, entryRepo, nil),
	}
}

// flat truncates the database and creates a ledger shared by alice and bob.
func (a *app) flat(t *testing.T) (alice, bob *domain.Participant, ledger *domain.Ledger) {
	t.Helper()
	ctx := context.Background()

	a.db.TruncateAll(ctx)
	alice = a.db.CreateTestParticipant(ctx, "Alice")
	bob = a.db.CreateTestParticipant(ctx, "Bob")

	ledger, err := a.ledgers.CreateLedger(ctx, usecase.CreateLedgerInput{
		Name:           "Flat",
		ParticipantIDs: []string{bob.ID},
		CreatedBy:      alice.ID,
	})
	if err != nil {
		t.Fatalf("create ledger: %v", err)
	}
	return alice, bob, ledger
}
