package postgres

import (
	"context"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/postgres/generated"
)

// ParticipantRepository implements usecase.ParticipantRepository.
type ParticipantRepository struct {
	db generated.DBTX
}

// NewParticipantRepository creates a new ParticipantRepository.
func NewParticipantRepository(db generated.DBTX) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Create inserts a participant.
func (r *ParticipantRepository) Create(ctx context.Context, p *domain.Participant) error {
	err := generated.New(r.db).CreateParticipant(ctx, generated.CreateParticipantParams{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		CreatedAt:   timeToPgTimestamptz(p.CreatedAt),
	})
	return classify(err, nil)
}

// GetByID returns a participant by ID.
func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	row, err := generated.New(r.db).GetParticipantByID(ctx, id)
	if err != nil {
		return nil, classify(err, domain.ErrParticipantNotFound)
	}
	return participantFromRow(row), nil
}

// GetByIDs returns the participants that exist among ids.
func (r *ParticipantRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Participant, error) {
	rows, err := generated.New(r.db).GetParticipantsByIDs(ctx, ids)
	if err != nil {
		return nil, classify(err, nil)
	}

	result := make([]*domain.Participant, len(rows))
	for i, row := range rows {
		result[i] = participantFromRow(row)
	}
	return result, nil
}

func participantFromRow(row generated.Participant) *domain.Participant {
	return &domain.Participant{
		ID:          row.ID,
		DisplayName: row.DisplayName,
		CreatedAt:   row.CreatedAt.Time,
	}
}
