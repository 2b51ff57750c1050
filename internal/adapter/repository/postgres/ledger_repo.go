package postgres

import (
	"context"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/postgres/generated"
	"github.com/iho/debtledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	db generated.DBTX
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Create inserts the ledger and its membership in tx.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) error {
	q := queriesFor(tx)

	err := q.CreateLedger(ctx, generated.CreateLedgerParams{
		ID:        ledger.ID,
		Name:      ledger.Name,
		CreatedBy: ledger.CreatedBy,
		CreatedAt: timeToPgTimestamptz(ledger.CreatedAt),
	})
	if err != nil {
		return classify(err, nil)
	}

	for i, participantID := range ledger.ParticipantIDs {
		err := q.AddLedgerMember(ctx, generated.AddLedgerMemberParams{
			LedgerID:      ledger.ID,
			ParticipantID: participantID,
			Position:      int32(i),
		})
		if err != nil {
			return classify(err, nil)
		}
	}

	return nil
}

// GetByID returns a ledger with its members in membership order.
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*domain.Ledger, error) {
	row, err := generated.New(r.db).GetLedgerByID(ctx, id)
	if err != nil {
		return nil, classify(err, domain.ErrLedgerNotFound)
	}

	return &domain.Ledger{
		ID:             row.ID,
		Name:           row.Name,
		ParticipantIDs: row.ParticipantIds,
		CreatedBy:      row.CreatedBy,
		CreatedAt:      row.CreatedAt.Time,
	}, nil
}

// ListByParticipant returns the ledgers participantID belongs to, newest first.
func (r *LedgerRepository) ListByParticipant(ctx context.Context, participantID string, limit, offset int) ([]*domain.Ledger, error) {
	rows, err := generated.New(r.db).ListLedgersByParticipant(ctx, generated.ListLedgersByParticipantParams{
		ParticipantID: participantID,
		Limit:         int32(limit),
		Offset:        int32(offset),
	})
	if err != nil {
		return nil, classify(err, nil)
	}

	ledgers := make([]*domain.Ledger, len(rows))
	for i, row := range rows {
		ledgers[i] = &domain.Ledger{
			ID:             row.ID,
			Name:           row.Name,
			ParticipantIDs: row.ParticipantIds,
			CreatedBy:      row.CreatedBy,
			CreatedAt:      row.CreatedAt.Time,
		}
	}
	return ledgers, nil
}
