package eventpublisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/debtledger/internal/domain"
)

func testEntry() *domain.Entry {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Entry{
		ID:          "e1",
		LedgerID:    "l1",
		Type:        domain.EntryTypeDebt,
		CreditorID:  "alice",
		DebtorID:    "bob",
		Amount:      decimal.RequireFromString("12.50"),
		Description: "pizza",
		Status:      domain.EntryStatusApproved,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestRedisPublisher_OneMessagePerRecipient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	pub := NewRedisPublisher(client, "debtledger:")
	ctx := context.Background()

	aliceSub := client.Subscribe(ctx, pub.Channel("alice"))
	defer aliceSub.Close()
	bobSub := client.Subscribe(ctx, pub.Channel("bob"))
	defer bobSub.Close()
	_, err := aliceSub.Receive(ctx)
	require.NoError(t, err)
	_, err = bobSub.Receive(ctx)
	require.NoError(t, err)

	event := domain.NewEntryUpdatedEvent(testEntry(), domain.EntryStatusPending)
	require.NoError(t, pub.Publish(ctx, event))

	for _, tc := range []struct {
		sub       *redis.PubSub
		recipient string
	}{{aliceSub, "alice"}, {bobSub, "bob"}} {
		msgCtx, cancel := context.WithTimeout(ctx, time.Second)
		raw, err := tc.sub.ReceiveMessage(msgCtx)
		cancel()
		require.NoError(t, err)

		var msg Message
		require.NoError(t, json.Unmarshal([]byte(raw.Payload), &msg))
		assert.Equal(t, event.ID, msg.ID)
		assert.Equal(t, tc.recipient, msg.Recipient)
		assert.Equal(t, domain.EventTypeEntryUpdated, msg.Type)
		assert.Equal(t, "pending", msg.PreviousStatus)
		assert.Equal(t, "approved", msg.NewStatus)
		require.NotNil(t, msg.Entry)
		assert.Equal(t, "12.5", msg.Entry.Amount)
	}
}

func TestRedisPublisher_FailsWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	err := NewRedisPublisher(client, "x:").Publish(context.Background(), domain.NewEntryPendingEvent(testEntry()))
	assert.Error(t, err)
}

func TestNewMessage_Ledger(t *testing.T) {
	ledger := &domain.Ledger{ID: "l1", Name: "Flat", ParticipantIDs: []string{"alice", "bob"}, CreatedBy: "alice"}
	msg := NewMessage(domain.NewLedgerCreatedEvent(ledger), "bob")

	require.NotNil(t, msg.Ledger)
	assert.Nil(t, msg.Entry)
	assert.Equal(t, []string{"alice", "bob"}, msg.Ledger.ParticipantIDs)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "previous_status")
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	require.NoError(t, NewLogPublisher().Publish(ctx, domain.NewEntryPendingEvent(testEntry())))
	assert.Contains(t, buf.String(), `"event_type":"entry.pending"`)
	assert.Contains(t, buf.String(), `"entry_id":"e1"`)
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, *domain.Event) error { return f.err }

type countingPublisher struct{ calls int }

func (c *countingPublisher) Publish(context.Context, *domain.Event) error {
	c.calls++
	return nil
}

func TestMultiPublisher_TriesEveryPublisher(t *testing.T) {
	boom := errors.New("boom")
	counter := &countingPublisher{}

	err := NewMultiPublisher(failingPublisher{boom}, counter).
		Publish(context.Background(), domain.NewEntryPendingEvent(testEntry()))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, counter.calls)
}
