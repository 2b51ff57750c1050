package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/debtledger/internal/domain"
)

func TestBalanceUseCase_Errors(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.register(t, "Alice"), f.register(t, "Bob"), f.register(t, "Carol")
	l := f.ledger(t, alice, bob)
	ctx := context.Background()

	_, err := f.balances.ComputeBalance(ctx, "missing", alice, alice)
	requireKind(t, err, domain.ErrNotFound)

	_, err = f.balances.ComputeBalance(ctx, l.ID, carol, alice)
	requireKind(t, err, domain.ErrInvalidArgument)

	_, err = f.balances.ComputeBalance(ctx, l.ID, alice, carol)
	requireKind(t, err, domain.ErrForbidden)

	_, err = f.balances.LedgerBalances(ctx, l.ID, carol)
	requireKind(t, err, domain.ErrForbidden)
}

func TestBalanceUseCase_IdempotentAndSumsToZero(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.register(t, "Alice"), f.register(t, "Bob"), f.register(t, "Carol")
	l := f.ledger(t, alice, bob, carol)
	ctx := context.Background()

	d1 := f.entry(t, l.ID, domain.EntryTypeDebt, alice, bob, 90)
	d2 := f.entry(t, l.ID, domain.EntryTypeDebt, carol, alice, 30)
	f.entry(t, l.ID, domain.EntryTypeDebt, bob, carol, 5) // stays pending
	f.transition(t, d1.ID, domain.ActionApprove, bob)
	f.transition(t, d2.ID, domain.ActionApprove, alice)

	first, err := f.balances.ComputeBalance(ctx, l.ID, alice, bob)
	require.NoError(t, err)
	second, err := f.balances.ComputeBalance(ctx, l.ID, alice, bob)
	require.NoError(t, err)
	assert.True(t, first.Net.Equal(second.Net))
	assert.True(t, first.Net.Equal(decimal.NewFromInt(60)))

	balances, err := f.balances.LedgerBalances(ctx, l.ID, carol)
	require.NoError(t, err)
	require.Len(t, balances, 3)

	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Net)
	}
	assert.True(t, sum.IsZero(), "balances must sum to zero, got %s", sum)
}
