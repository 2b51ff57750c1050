package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
)

// LedgerUseCase handles ledger creation and lookup.
type LedgerUseCase struct {
	txManager       TransactionManager
	ledgerRepo      LedgerRepository
	participantRepo ParticipantRepository
	audit           auditTrail
	publisher       EventPublisher
	idGen           IDGenerator
	metrics         *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	ledgerRepo LedgerRepository,
	participantRepo ParticipantRepository,
	auditRepo AuditRepository,
	publisher EventPublisher,
	idGen IDGenerator,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:       txManager,
		ledgerRepo:      ledgerRepo,
		participantRepo: participantRepo,
		audit:           auditTrail{repo: auditRepo, idGen: idGen},
		publisher:       publisher,
		idGen:           idGen,
		metrics:         m,
	}
}

// CreateLedgerInput represents input for creating a ledger.
type CreateLedgerInput struct {
	Name           string
	ParticipantIDs []string
	// CreatedBy is always added to the membership.
	CreatedBy string
}

// CreateLedger creates a ledger with a frozen set of members.
func (uc *LedgerUseCase) CreateLedger(ctx context.Context, input CreateLedgerInput) (*domain.Ledger, error) {
	ids := domain.NormalizeParticipantIDs(append([]string{input.CreatedBy}, input.ParticipantIDs...))

	ledger := &domain.Ledger{
		ID:             uc.idGen.Generate(),
		Name:           strings.TrimSpace(input.Name),
		ParticipantIDs: ids,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      time.Now().UTC(),
	}

	if err := ledger.Validate(); err != nil {
		return nil, err
	}

	if err := uc.ensureKnown(ctx, ids); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.ledgerRepo.Create(txCtx, tx, ledger); err != nil {
		return nil, err
	}

	err = uc.audit.record(txCtx, tx, input.CreatedBy, domain.AuditActionLedgerCreate,
		domain.ResourceTypeLedger, ledger.ID, nil, domain.LedgerState(ledger), ledger.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := commit(txCtx, tx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LedgersCreated.Inc()
	}

	publishEvent(ctx, uc.publisher, uc.metrics, domain.NewLedgerCreatedEvent(ledger))

	return ledger, nil
}

func (uc *LedgerUseCase) ensureKnown(ctx context.Context, ids []string) error {
	known, err := uc.participantRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	found := make(map[string]bool, len(known))
	for _, p := range known {
		found[p.ID] = true
	}

	for _, id := range ids {
		if !found[id] {
			return fmt.Errorf("%w: %s", domain.ErrUnknownParticipant, id)
		}
	}

	return nil
}

// GetLedger returns a ledger by ID.
func (uc *LedgerUseCase) GetLedger(ctx context.Context, id string) (*domain.Ledger, error) {
	return uc.ledgerRepo.GetByID(ctx, id)
}

// GetLedgerForMember returns a ledger only if callerID belongs to it.
func (uc *LedgerUseCase) GetLedgerForMember(ctx context.Context, id, callerID string) (*domain.Ledger, error) {
	ledger, err := uc.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !ledger.HasMember(callerID) {
		return nil, domain.ErrLedgerAccessForbidden
	}

	return ledger, nil
}

// ListLedgersFor lists the ledgers participantID belongs to, newest first.
func (uc *LedgerUseCase) ListLedgersFor(ctx context.Context, participantID string, limit, offset int) ([]*domain.Ledger, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.ledgerRepo.ListByParticipant(ctx, participantID, limit, offset)
}
