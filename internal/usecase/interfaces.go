package usecase

import (
	"context"
	"time"

	"github.com/iho/debtledger/internal/domain"
)

// ParticipantRepository defines data access for participants.
type ParticipantRepository interface {
	Create(ctx context.Context, participant *domain.Participant) error
	GetByID(ctx context.Context, id string) (*domain.Participant, error)
	// GetByIDs returns the participants that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Participant, error)
}

// LedgerRepository defines data access for ledgers and their frozen membership.
type LedgerRepository interface {
	Create(ctx context.Context, tx Transaction, ledger *domain.Ledger) error
	GetByID(ctx context.Context, id string) (*domain.Ledger, error)
	// ListByParticipant returns ledgers the participant belongs to, newest first.
	ListByParticipant(ctx context.Context, participantID string, limit, offset int) ([]*domain.Ledger, error)
}

// EntryRepository defines data access for entries. Entries are never deleted.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	// GetByIDForUpdate reads the entry and holds its lock until tx ends.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	// UpdateState writes entry only if the stored status still equals expected.
	// It returns domain.ErrEntryConflict when no row matched.
	UpdateState(ctx context.Context, tx Transaction, entry *domain.Entry, expected domain.EntryStatus) error
	ListByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]*domain.Entry, error)
	ListApprovedByLedger(ctx context.Context, ledgerID string) ([]*domain.Entry, error)
	// ListPendingForApprover returns pending entries awaiting participantID's answer, newest first.
	ListPendingForApprover(ctx context.Context, participantID string, limit, offset int) ([]*domain.Entry, error)
	// ListCloseRequestsFor returns close requests participantID must answer, newest first.
	ListCloseRequestsFor(ctx context.Context, participantID string, limit, offset int) ([]*domain.Entry, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	// GetByResourceID returns the trail of a resource, oldest first.
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// EventPublisher delivers committed-change notifications.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim whose request failed so that it may be retried.
	Release(ctx context.Context, key string) error
}
