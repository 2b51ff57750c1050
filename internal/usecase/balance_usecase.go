package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
)

// BalanceUseCase derives balances from approved entries. Balances are never
// stored or cached; every call folds the current approved set.
type BalanceUseCase struct {
	ledgerRepo LedgerRepository
	entryRepo  EntryRepository
	metrics    *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(ledgerRepo LedgerRepository, entryRepo EntryRepository, m *metrics.Metrics) *BalanceUseCase {
	return &BalanceUseCase{
		ledgerRepo: ledgerRepo,
		entryRepo:  entryRepo,
		metrics:    m,
	}
}

// ComputeBalance returns participantID's net balance in a ledger as seen by callerID.
// Both must be members of the ledger.
func (uc *BalanceUseCase) ComputeBalance(ctx context.Context, ledgerID, participantID, callerID string) (domain.Balance, error) {
	start := time.Now()
	defer uc.observe(start)

	ledger, entries, err := uc.load(ctx, ledgerID, callerID)
	if err != nil {
		return domain.Balance{}, err
	}

	if !ledger.HasMember(participantID) {
		return domain.Balance{}, fmt.Errorf("%w: %s", domain.ErrNotLedgerMember, participantID)
	}

	return domain.ComputeBalance(ledger.ID, participantID, entries), nil
}

// LedgerBalances returns the balance of every member in one pass.
func (uc *BalanceUseCase) LedgerBalances(ctx context.Context, ledgerID, callerID string) ([]domain.Balance, error) {
	start := time.Now()
	defer uc.observe(start)

	ledger, entries, err := uc.load(ctx, ledgerID, callerID)
	if err != nil {
		return nil, err
	}

	return domain.ComputeLedgerBalances(ledger, entries), nil
}

func (uc *BalanceUseCase) load(ctx context.Context, ledgerID, callerID string) (*domain.Ledger, []*domain.Entry, error) {
	ledger, err := uc.ledgerRepo.GetByID(ctx, ledgerID)
	if err != nil {
		return nil, nil, err
	}

	if !ledger.HasMember(callerID) {
		return nil, nil, domain.ErrLedgerAccessForbidden
	}

	entries, err := uc.entryRepo.ListApprovedByLedger(ctx, ledgerID)
	if err != nil {
		return nil, nil, err
	}

	return ledger, entries, nil
}

func (uc *BalanceUseCase) observe(start time.Time) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.BalanceComputations.Inc()
	uc.metrics.BalanceDuration.Observe(time.Since(start).Seconds())
}
