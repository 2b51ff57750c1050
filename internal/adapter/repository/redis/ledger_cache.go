package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// LedgerCache is a read-through cache in front of a usecase.LedgerRepository.
// A ledger never changes after creation, so cached copies need no
// invalidation. Redis failures fall through to the wrapped repository.
type LedgerCache struct {
	next   usecase.LedgerRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewLedgerCache wraps next with a Redis cache holding ledgers for ttl.
func NewLedgerCache(next usecase.LedgerRepository, client *redis.Client, ttl time.Duration) *LedgerCache {
	return &LedgerCache{
		next:   next,
		client: client,
		prefix: "ledger:",
		ttl:    ttl,
	}
}

type cachedLedger struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ParticipantIDs []string  `json:"participant_ids"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// Create delegates to the wrapped repository. The ledger is cached on first read,
// after its transaction has committed.
func (c *LedgerCache) Create(ctx context.Context, tx usecase.Transaction, ledger *domain.Ledger) error {
	return c.next.Create(ctx, tx, ledger)
}

// GetByID returns the cached ledger or loads and caches it.
func (c *LedgerCache) GetByID(ctx context.Context, id string) (*domain.Ledger, error) {
	key := c.prefix + id

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cl cachedLedger
		if err := json.Unmarshal(raw, &cl); err == nil {
			return &domain.Ledger{
				ID:             cl.ID,
				Name:           cl.Name,
				ParticipantIDs: cl.ParticipantIDs,
				CreatedBy:      cl.CreatedBy,
				CreatedAt:      cl.CreatedAt,
			}, nil
		}
		zerolog.Ctx(ctx).Warn().Str("ledger_id", id).Msg("discarding undecodable cached ledger")
	case !errors.Is(err, redis.Nil):
		zerolog.Ctx(ctx).Warn().Err(err).Str("ledger_id", id).Msg("ledger cache read failed")
	}

	ledger, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err = json.Marshal(cachedLedger{
		ID:             ledger.ID,
		Name:           ledger.Name,
		ParticipantIDs: ledger.ParticipantIDs,
		CreatedBy:      ledger.CreatedBy,
		CreatedAt:      ledger.CreatedAt,
	})
	if err == nil {
		err = c.client.Set(ctx, key, raw, c.ttl).Err()
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("ledger_id", id).Msg("ledger cache write failed")
	}

	return ledger, nil
}

// ListByParticipant is not cached; new ledgers must show up immediately.
func (c *LedgerCache) ListByParticipant(ctx context.Context, participantID string, limit, offset int) ([]*domain.Ledger, error) {
	return c.next.ListByParticipant(ctx, participantID, limit, offset)
}
