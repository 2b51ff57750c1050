package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
)

// EntryUseCase drives the entry lifecycle: creation, transitions and the
// read projections built on top of them.
type EntryUseCase struct {
	txManager  TransactionManager
	ledgerRepo LedgerRepository
	entryRepo  EntryRepository
	auditRepo  AuditRepository
	audit      auditTrail
	publisher  EventPublisher
	retrier    Retrier
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewEntryUseCase creates a new EntryUseCase. retrier, publisher and m may be nil.
func NewEntryUseCase(
	txManager TransactionManager,
	ledgerRepo LedgerRepository,
	entryRepo EntryRepository,
	auditRepo AuditRepository,
	publisher EventPublisher,
	retrier Retrier,
	idGen IDGenerator,
	m *metrics.Metrics,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:  txManager,
		ledgerRepo: ledgerRepo,
		entryRepo:  entryRepo,
		auditRepo:  auditRepo,
		audit:      auditTrail{repo: auditRepo, idGen: idGen},
		publisher:  publisher,
		retrier:    retrier,
		idGen:      idGen,
		metrics:    m,
	}
}

// CreateEntryInput represents the creator's assertion for a new entry.
type CreateEntryInput struct {
	LedgerID       string
	Type           domain.EntryType
	CreatorID      string
	CounterpartyID string
	Amount         decimal.Decimal
	Description    string
}

// CreateEntry records a pending entry. A debt makes the creator the creditor,
// a payment makes the creator the debtor.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error) {
	ledger, err := uc.ledgerRepo.GetByID(ctx, input.LedgerID)
	if err != nil {
		return nil, err
	}

	entry, err := domain.NewEntry(ledger, domain.NewEntryParams{
		ID:             uc.idGen.Generate(),
		Type:           input.Type,
		CreatorID:      input.CreatorID,
		CounterpartyID: input.CounterpartyID,
		Amount:         input.Amount,
		Description:    input.Description,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	err = uc.audit.record(txCtx, tx, input.CreatorID, domain.AuditActionEntryCreate,
		domain.ResourceTypeEntry, entry.ID, nil, domain.EntryState(entry), entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := commit(txCtx, tx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.WithLabelValues(string(entry.Type)).Inc()
		uc.metrics.EntryAmount.Observe(entry.Amount.InexactFloat64())
	}

	publishEvent(ctx, uc.publisher, uc.metrics, domain.NewEntryPendingEvent(entry))

	return entry, nil
}

// TransitionEntry applies action on behalf of actorID. The entry is locked for
// the duration of the transaction and written with a compare-and-swap on its
// prior status, so of two racing requests at most one succeeds.
func (uc *EntryUseCase) TransitionEntry(ctx context.Context, entryID string, action domain.Action, actorID string) (*domain.Entry, error) {
	start := time.Now()

	var (
		updated  *domain.Entry
		previous domain.EntryStatus
	)

	op := func() error {
		var err error
		updated, previous, err = uc.transition(ctx, entryID, action, actorID)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}

	uc.observeTransition(action, err, time.Since(start))

	if err != nil {
		zerolog.Ctx(ctx).Debug().
			Err(err).
			Str("entry_id", entryID).
			Str("action", string(action)).
			Msg("entry transition refused")
		return nil, err
	}

	publishEvent(ctx, uc.publisher, uc.metrics, domain.NewEntryUpdatedEvent(updated, previous))

	return updated, nil
}

func (uc *EntryUseCase) transition(
	ctx context.Context,
	entryID string,
	action domain.Action,
	actorID string,
) (*domain.Entry, domain.EntryStatus, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	current, err := uc.entryRepo.GetByIDForUpdate(txCtx, tx, entryID)
	if err != nil {
		return nil, "", err
	}

	next, err := current.Apply(action, actorID, time.Now().UTC())
	if err != nil {
		return nil, "", err
	}

	if err := uc.entryRepo.UpdateState(txCtx, tx, next, current.Status); err != nil {
		return nil, "", err
	}

	err = uc.audit.record(txCtx, tx, actorID, domain.EntryAuditAction(action),
		domain.ResourceTypeEntry, next.ID, domain.EntryState(current), domain.EntryState(next), next.UpdatedAt)
	if err != nil {
		return nil, "", err
	}

	if err := commit(txCtx, tx); err != nil {
		return nil, "", err
	}

	return next, current.Status, nil
}

func (uc *EntryUseCase) observeTransition(action domain.Action, err error, elapsed time.Duration) {
	if uc.metrics == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = string(domain.KindOf(err))
	}

	uc.metrics.EntryTransitions.WithLabelValues(string(action), outcome).Inc()
	uc.metrics.TransitionDuration.Observe(elapsed.Seconds())

	if errors.Is(err, domain.ErrConflict) {
		uc.metrics.TransitionConflicts.Inc()
	}
}

// GetEntry returns an entry to one of its two parties.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id, callerID string) (*domain.Entry, error) {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !entry.IsParty(callerID) {
		return nil, domain.ErrEntryAccessForbidden
	}

	return entry, nil
}

// ListLedgerEntries lists a ledger's entries, newest first, to its members.
func (uc *EntryUseCase) ListLedgerEntries(ctx context.Context, ledgerID, callerID string, limit, offset int) ([]*domain.Entry, error) {
	ledger, err := uc.ledgerRepo.GetByID(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	if !ledger.HasMember(callerID) {
		return nil, domain.ErrLedgerAccessForbidden
	}

	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.entryRepo.ListByLedger(ctx, ledgerID, limit, offset)
}

// ListPendingForCaller lists pending entries the caller is asked to approve or reject.
func (uc *EntryUseCase) ListPendingForCaller(ctx context.Context, callerID string, limit, offset int) ([]*domain.Entry, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.entryRepo.ListPendingForApprover(ctx, callerID, limit, offset)
}

// ListCloseRequestsForCaller lists close requests the caller is asked to answer.
func (uc *EntryUseCase) ListCloseRequestsForCaller(ctx context.Context, callerID string, limit, offset int) ([]*domain.Entry, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.entryRepo.ListCloseRequestsFor(ctx, callerID, limit, offset)
}

// EntryHistory returns the audit trail of an entry, oldest first, to one of its parties.
func (uc *EntryUseCase) EntryHistory(ctx context.Context, id, callerID string) ([]*domain.AuditLog, error) {
	if _, err := uc.GetEntry(ctx, id, callerID); err != nil {
		return nil, err
	}

	if uc.auditRepo == nil {
		return nil, nil
	}

	return uc.auditRepo.GetByResourceID(ctx, domain.ResourceTypeEntry, id)
}
