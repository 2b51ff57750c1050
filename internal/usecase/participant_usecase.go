package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
)

// ParticipantUseCase manages the directory of known participants.
type ParticipantUseCase struct {
	participantRepo ParticipantRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
}

// NewParticipantUseCase creates a new ParticipantUseCase.
func NewParticipantUseCase(participantRepo ParticipantRepository, idGen IDGenerator, m *metrics.Metrics) *ParticipantUseCase {
	return &ParticipantUseCase{
		participantRepo: participantRepo,
		idGen:           idGen,
		metrics:         m,
	}
}

// RegisterParticipant creates a participant with the given display name.
func (uc *ParticipantUseCase) RegisterParticipant(ctx context.Context, displayName string) (*domain.Participant, error) {
	displayName = strings.TrimSpace(displayName)
	if err := domain.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}

	participant := &domain.Participant{
		ID:          uc.idGen.Generate(),
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.participantRepo.Create(ctx, participant); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ParticipantsCreated.Inc()
	}

	return participant, nil
}

// GetParticipant returns a participant by ID.
func (uc *ParticipantUseCase) GetParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	return uc.participantRepo.GetByID(ctx, id)
}
