package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
)

// publishEvent hands a committed change to the publisher. The change is
// already durable, so a delivery failure is logged and swallowed.
func publishEvent(ctx context.Context, publisher EventPublisher, m *metrics.Metrics, event *domain.Event) {
	if publisher == nil {
		return
	}

	status := "success"
	if err := publisher.Publish(ctx, event); err != nil {
		status = "error"
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Msg("failed to publish event")
	}

	if m != nil {
		m.EventsPublished.WithLabelValues(event.Type, status).Inc()
	}
}

// commit commits tx. A failed commit may still have been applied, so the
// error is marked as uncertain and the operation is not retried.
func commit(ctx context.Context, tx Transaction) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCommitUncertain, err)
	}
	return nil
}

// auditTrail writes audit records inside the caller's transaction.
type auditTrail struct {
	repo  AuditRepository
	idGen IDGenerator
}

func (a auditTrail) record(
	ctx context.Context,
	tx Transaction,
	actorID, action, resourceType, resourceID string,
	before, after domain.JSON,
	at time.Time,
) error {
	if a.repo == nil {
		return nil
	}

	return a.repo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           a.idGen.Generate(),
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    domain.RequestIDFromContext(ctx),
		BeforeState:  before,
		AfterState:   after,
		CreatedAt:    at,
	})
}
