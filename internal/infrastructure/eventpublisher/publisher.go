// Package eventpublisher delivers committed-change notifications to the
// participants they concern.
package eventpublisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// RedisPublisher publishes one message per recipient on the recipient's
// channel, "<prefix>participant:<id>".
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisPublisher creates a RedisPublisher.
func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the channel a participant subscribes to.
func (p *RedisPublisher) Channel(participantID string) string {
	return p.prefix + "participant:" + participantID
}

// Publish implements usecase.EventPublisher.
func (p *RedisPublisher) Publish(ctx context.Context, event *domain.Event) error {
	pipe := p.client.Pipeline()
	for _, recipient := range event.Recipients {
		payload, err := json.Marshal(NewMessage(event, recipient))
		if err != nil {
			return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
		}
		pipe.Publish(ctx, p.Channel(recipient), payload)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}
	return nil
}

// LogPublisher writes every event to the context logger. It is the
// publisher of last resort when Redis is disabled.
type LogPublisher struct{}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish implements usecase.EventPublisher.
func (LogPublisher) Publish(ctx context.Context, event *domain.Event) error {
	e := zerolog.Ctx(ctx).Info().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Strs("recipients", event.Recipients)
	if event.Entry != nil {
		e = e.Str("entry_id", event.Entry.ID).
			Str("previous_status", string(event.PreviousStatus)).
			Str("new_status", string(event.NewStatus))
	}
	if event.Ledger != nil {
		e = e.Str("ledger_id", event.Ledger.ID)
	}
	e.Msg("event published")
	return nil
}

// MultiPublisher fans an event out to several publishers. Every publisher
// is tried; failures are joined.
type MultiPublisher struct {
	publishers []usecase.EventPublisher
}

// NewMultiPublisher creates a MultiPublisher.
func NewMultiPublisher(publishers ...usecase.EventPublisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

// Publish implements usecase.EventPublisher.
func (m *MultiPublisher) Publish(ctx context.Context, event *domain.Event) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
