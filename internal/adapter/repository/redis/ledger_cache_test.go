package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase/mocks"
)

func TestLedgerCache_ReadThrough(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	ctrl := gomock.NewController(t)
	inner := mocks.NewMockLedgerRepository(ctrl)

	ledger := &domain.Ledger{
		ID:             "l1",
		Name:           "Flat",
		ParticipantIDs: []string{"alice", "bob"},
		CreatedBy:      "alice",
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	inner.EXPECT().GetByID(gomock.Any(), "l1").Return(ledger, nil).Times(1)

	cache := NewLedgerCache(inner, client, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := cache.GetByID(ctx, "l1")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Name != "Flat" || len(got.ParticipantIDs) != 2 || !got.CreatedAt.Equal(ledger.CreatedAt) {
			t.Fatalf("unexpected ledger: %+v", got)
		}
	}

	if ttl := mr.TTL("ledger:l1"); ttl != time.Minute {
		t.Fatalf("expected ttl of 1m, got %v", ttl)
	}
}

func TestLedgerCache_NotFoundIsNotCached(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	ctrl := gomock.NewController(t)
	inner := mocks.NewMockLedgerRepository(ctrl)
	inner.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, domain.ErrLedgerNotFound).Times(2)

	cache := NewLedgerCache(inner, client, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrLedgerNotFound) {
			t.Fatalf("expected ErrLedgerNotFound, got %v", err)
		}
	}
}

func TestLedgerCache_FallsThroughWhenRedisIsDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()
	mr.Close()

	ctrl := gomock.NewController(t)
	inner := mocks.NewMockLedgerRepository(ctrl)
	inner.EXPECT().GetByID(gomock.Any(), "l1").Return(&domain.Ledger{ID: "l1"}, nil)

	got, err := NewLedgerCache(inner, client, time.Minute).GetByID(context.Background(), "l1")
	if err != nil || got.ID != "l1" {
		t.Fatalf("expected fallback to repository, got %v %v", got, err)
	}
}

func TestLedgerCache_ListDelegates(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	ctrl := gomock.NewController(t)
	inner := mocks.NewMockLedgerRepository(ctrl)
	inner.EXPECT().ListByParticipant(gomock.Any(), "alice", 10, 0).Return([]*domain.Ledger{{ID: "l1"}}, nil)

	got, err := NewLedgerCache(inner, client, time.Minute).ListByParticipant(context.Background(), "alice", 10, 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result: %v %v", got, err)
	}
}
