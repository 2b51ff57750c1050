package postgres

import (
	"context"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/postgres/generated"
	"github.com/iho/debtledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	db generated.DBTX
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create inserts a pending entry in tx.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, e *domain.Entry) error {
	err := queriesFor(tx).CreateEntry(ctx, generated.CreateEntryParams{
		ID:          e.ID,
		LedgerID:    e.LedgerID,
		Type:        string(e.Type),
		CreditorID:  e.CreditorID,
		DebtorID:    e.DebtorID,
		Amount:      decimalToNumeric(e.Amount),
		Description: e.Description,
		Status:      string(e.Status),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   timeToPgTimestamptz(e.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(e.UpdatedAt),
	})
	return classify(err, nil)
}

// GetByID returns an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row, err := generated.New(r.db).GetEntryByID(ctx, id)
	if err != nil {
		return nil, classify(err, domain.ErrEntryNotFound)
	}
	return entryFromRow(row), nil
}

// GetByIDForUpdate reads an entry with a row lock held until tx ends.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	row, err := queriesFor(tx).GetEntryByIDForUpdate(ctx, id)
	if err != nil {
		return nil, classify(err, domain.ErrEntryNotFound)
	}
	return entryFromRow(row), nil
}

// UpdateState persists the lifecycle fields of e if its stored status is still expected.
func (r *EntryRepository) UpdateState(ctx context.Context, tx usecase.Transaction, e *domain.Entry, expected domain.EntryStatus) error {
	affected, err := queriesFor(tx).UpdateEntryState(ctx, generated.UpdateEntryStateParams{
		ID:               e.ID,
		Status:           string(e.Status),
		UpdatedAt:        timeToPgTimestamptz(e.UpdatedAt),
		ApprovedAt:       optionalTimestamptz(e.ApprovedAt),
		CloseRequestedBy: optionalText(e.CloseRequestedBy),
		CloseRequestedAt: optionalTimestamptz(e.CloseRequestedAt),
		ClosedAt:         optionalTimestamptz(e.ClosedAt),
		Status_2:         string(expected),
	})
	if err != nil {
		return classify(err, nil)
	}
	if affected == 0 {
		return domain.ErrEntryConflict
	}
	return nil
}

// ListByLedger returns a page of the ledger's entries, newest first.
func (r *EntryRepository) ListByLedger(ctx context.Context, ledgerID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := generated.New(r.db).ListEntriesByLedger(ctx, generated.ListEntriesByLedgerParams{
		LedgerID: ledgerID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	return entriesFromRows(rows, err)
}

// ListApprovedByLedger returns every approved entry of the ledger.
func (r *EntryRepository) ListApprovedByLedger(ctx context.Context, ledgerID string) ([]*domain.Entry, error) {
	rows, err := generated.New(r.db).ListApprovedEntriesByLedger(ctx, ledgerID)
	return entriesFromRows(rows, err)
}

// ListPendingForApprover returns pending entries awaiting participantID's answer.
func (r *EntryRepository) ListPendingForApprover(ctx context.Context, participantID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := generated.New(r.db).ListPendingEntriesForApprover(ctx, generated.ListPendingEntriesForApproverParams{
		ApproverID: participantID,
		Limit:      int32(limit),
		Offset:     int32(offset),
	})
	return entriesFromRows(rows, err)
}

// ListCloseRequestsFor returns close requests participantID must answer.
func (r *EntryRepository) ListCloseRequestsFor(ctx context.Context, participantID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := generated.New(r.db).ListCloseRequestsForParticipant(ctx, generated.ListCloseRequestsForParticipantParams{
		ParticipantID: participantID,
		Limit:         int32(limit),
		Offset:        int32(offset),
	})
	return entriesFromRows(rows, err)
}

func entriesFromRows(rows []generated.Entry, err error) ([]*domain.Entry, error) {
	if err != nil {
		return nil, classify(err, nil)
	}

	entries := make([]*domain.Entry, len(rows))
	for i, row := range rows {
		entries[i] = entryFromRow(row)
	}
	return entries, nil
}

func entryFromRow(row generated.Entry) *domain.Entry {
	return &domain.Entry{
		ID:               row.ID,
		LedgerID:         row.LedgerID,
		Type:             domain.EntryType(row.Type),
		CreditorID:       row.CreditorID,
		DebtorID:         row.DebtorID,
		Amount:           numericToDecimal(row.Amount),
		Description:      row.Description,
		Status:           domain.EntryStatus(row.Status),
		CreatedBy:        row.CreatedBy,
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
		ApprovedAt:       timestamptzPtr(row.ApprovedAt),
		CloseRequestedBy: textPtr(row.CloseRequestedBy),
		CloseRequestedAt: timestamptzPtr(row.CloseRequestedAt),
		ClosedAt:         timestamptzPtr(row.ClosedAt),
	}
}
