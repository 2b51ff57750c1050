package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// ParticipantRepository implements usecase.ParticipantRepository.
type ParticipantRepository struct {
	store *Store
}

// NewParticipantRepository creates a new ParticipantRepository.
func NewParticipantRepository(store *Store) *ParticipantRepository {
	return &ParticipantRepository{store: store}
}

// Create stores a participant.
func (r *ParticipantRepository) Create(ctx context.Context, p *domain.Participant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *p
	r.store.participants[p.ID] = &c
	return nil
}

// GetByID returns a participant by ID.
func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.participants[id]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	c := *p
	return &c, nil
}

// GetByIDs returns the participants that exist among ids.
func (r *ParticipantRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Participant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.store.participants[id]; ok {
			c := *p
			result = append(result, &c)
		}
	}
	return result, nil
}

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// Create stages a ledger insert.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) error {
	c := cloneLedger(ledger)
	tx.(*Tx).stage(func(s *Store) {
		s.ledgers[c.ID] = c
	})
	return nil
}

// GetByID returns a ledger by ID.
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*domain.Ledger, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l, ok := r.store.ledgers[id]
	if !ok {
		return nil, domain.ErrLedgerNotFound
	}
	return cloneLedger(l), nil
}

// ListByParticipant lists ledgers with participantID as a member, newest first.
func (r *LedgerRepository) ListByParticipant(ctx context.Context, participantID string, limit, offset int) ([]*domain.Ledger, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var ledgers []*domain.Ledger
	for _, l := range r.store.ledgers {
		if l.HasMember(participantID) {
			ledgers = append(ledgers, cloneLedger(l))
		}
	}

	slices.SortFunc(ledgers, func(a, b *domain.Ledger) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	return paginate(ledgers, limit, offset), nil
}

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create stages an entry insert.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	c := cloneEntry(entry)
	tx.(*Tx).stage(func(s *Store) {
		s.entries[c.ID] = c
	})
	return nil
}

// GetByID returns the committed state of an entry.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return cloneEntry(e), nil
}

// GetByIDForUpdate acquires the entry's lock for tx and then reads it.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := tx.(*Tx).lock(ctx, id); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// UpdateState stages the new state if the committed status still equals expected.
func (r *EntryRepository) UpdateState(ctx context.Context, tx usecase.Transaction, entry *domain.Entry, expected domain.EntryStatus) error {
	r.store.mu.RLock()
	current, ok := r.store.entries[entry.ID]
	matches := ok && current.Status == expected
	r.store.mu.RUnlock()

	if !ok {
		return domain.ErrEntryNotFound
	}
	if !matches {
		return fmt.Errorf("%w: expected %s", domain.ErrEntryConflict, expected)
	}

	c := cloneEntry(entry)
	tx.(*Tx).stage(func(s *Store) {
		s.entries[c.ID] = c
	})
	return nil
}

// ListByLedger lists a ledger's entries, newest first.
func (r *EntryRepository) ListByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]*domain.Entry, error) {
	entries := r.filter(func(e *domain.Entry) bool {
		return e.LedgerID == ledgerID
	})
	return paginate(entries, limit, offset), nil
}

// ListApprovedByLedger lists every approved entry of a ledger.
func (r *EntryRepository) ListApprovedByLedger(ctx context.Context, ledgerID string) ([]*domain.Entry, error) {
	return r.filter(func(e *domain.Entry) bool {
		return e.LedgerID == ledgerID && e.Status == domain.EntryStatusApproved
	}), nil
}

// ListPendingForApprover lists pending entries awaiting participantID, newest first.
func (r *EntryRepository) ListPendingForApprover(ctx context.Context, participantID string, limit, offset int) ([]*domain.Entry, error) {
	entries := r.filter(func(e *domain.Entry) bool {
		return e.Status == domain.EntryStatusPending && e.Approver() == participantID
	})
	return paginate(entries, limit, offset), nil
}

// ListCloseRequestsFor lists close requests participantID must answer, newest first.
func (r *EntryRepository) ListCloseRequestsFor(ctx context.Context, participantID string, limit, offset int) ([]*domain.Entry, error) {
	entries := r.filter(func(e *domain.Entry) bool {
		return e.AwaitsCloseAnswerFrom(participantID)
	})
	return paginate(entries, limit, offset), nil
}

func (r *EntryRepository) filter(keep func(e *domain.Entry) bool) []*domain.Entry {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var entries []*domain.Entry
	for _, e := range r.store.entries {
		if keep(e) {
			entries = append(entries, cloneEntry(e))
		}
	}

	slices.SortFunc(entries, func(a, b *domain.Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	return entries
}

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// CreateTx stages an audit record.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	c := *log
	tx.(*Tx).stage(func(s *Store) {
		s.audit = append(s.audit, &c)
	})
	return nil
}

// GetByResourceID returns the trail of a resource, oldest first.
func (r *AuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var logs []*domain.AuditLog
	for _, l := range r.store.audit {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			c := *l
			logs = append(logs, &c)
		}
	}
	return logs, nil
}
