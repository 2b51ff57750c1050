package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

func TestDebtLifecycle(t *testing.T) {
	app := newApp(t, nil)
	ctx := context.Background()

	t.Run("debt approved then settled by payment", func(t *testing.T) {
		alice, bob, ledger := app.flat(t)

		debt, err := app.entries.CreateEntry(ctx, usecase.CreateEntryInput{
			LedgerID:       ledger.ID,
			Type:           domain.EntryTypeDebt,
			CreatorID:      alice.ID,
			CounterpartyID: bob.ID,
			Amount:         decimal.RequireFromString("100.50"),
			Description:    "groceries",
		})
		if err != nil {
			t.Fatalf("create debt: %v", err)
		}

		// Pending debts do not move balances.
		b, err := app.balances.ComputeBalance(ctx, ledger.ID, bob.ID, bob.ID)
		if err != nil {
			t.Fatalf("balance: %v", err)
		}
		if !b.Net.IsZero() {
			t.Fatalf("expected zero before approval, got %s", b.Net)
		}

		if _, err := app.entries.TransitionEntry(ctx, debt.ID, domain.ActionApprove, bob.ID); err != nil {
			t.Fatalf("approve debt: %v", err)
		}

		payment, err := app.entries.CreateEntry(ctx, usecase.CreateEntryInput{
			LedgerID:       ledger.ID,
			Type:           domain.EntryTypePayment,
			CreatorID:      bob.ID,
			CounterpartyID: alice.ID,
			Amount:         decimal.RequireFromString("40.25"),
			Description:    "bank transfer",
		})
		if err != nil {
			t.Fatalf("create payment: %v", err)
		}
		if payment.CreditorID != alice.ID || payment.DebtorID != bob.ID {
			t.Fatalf("payment orientation wrong: creditor=%s debtor=%s", payment.CreditorID, payment.DebtorID)
		}

		if _, err := app.entries.TransitionEntry(ctx, payment.ID, domain.ActionApprove, alice.ID); err != nil {
			t.Fatalf("approve payment: %v", err)
		}

		balances, err := app.balances.LedgerBalances(ctx, ledger.ID, alice.ID)
		if err != nil {
			t.Fatalf("ledger balances: %v", err)
		}
		want := decimal.RequireFromString("60.25")
		if !balances[0].Net.Equal(want) || !balances[1].Net.Equal(want.Neg()) {
			t.Fatalf("expected alice +%s / bob -%s, got %s / %s", want, want, balances[0].Net, balances[1].Net)
		}
	})

	t.Run("close protocol removes debt from balance", func(t *testing.T) {
		alice, bob, ledger := app.flat(t)

		debt, err := app.entries.CreateEntry(ctx, usecase.CreateEntryInput{
			LedgerID:       ledger.ID,
			Type:           domain.EntryTypeDebt,
			CreatorID:      alice.ID,
			CounterpartyID: bob.ID,
			Amount:         decimal.NewFromInt(30),
			Description:    "cinema",
		})
		if err != nil {
			t.Fatalf("create debt: %v", err)
		}

		steps := []struct {
			action domain.Action
			actor  string
			want   domain.EntryStatus
		}{
			{domain.ActionApprove, bob.ID, domain.EntryStatusApproved},
			{domain.ActionRequestClose, bob.ID, domain.EntryStatusCloseRequested},
			{domain.ActionRejectClose, alice.ID, domain.EntryStatusApproved},
			{domain.ActionRequestClose, alice.ID, domain.EntryStatusCloseRequested},
			{domain.ActionApproveClose, bob.ID, domain.EntryStatusClosed},
		}
		for _, s := range steps {
			got, err := app.entries.TransitionEntry(ctx, debt.ID, s.action, s.actor)
			if err != nil {
				t.Fatalf("%s: %v", s.action, err)
			}
			if got.Status != s.want {
				t.Fatalf("%s: expected %s, got %s", s.action, s.want, got.Status)
			}
		}

		closed, err := app.entries.GetEntry(ctx, debt.ID, alice.ID)
		if err != nil {
			t.Fatalf("get entry: %v", err)
		}
		if closed.ClosedAt == nil || closed.CloseRequestedBy == nil || *closed.CloseRequestedBy != alice.ID {
			t.Fatalf("close bookkeeping not persisted: %+v", closed)
		}

		b, err := app.balances.ComputeBalance(ctx, ledger.ID, alice.ID, alice.ID)
		if err != nil {
			t.Fatalf("balance: %v", err)
		}
		if !b.Net.IsZero() {
			t.Fatalf("closed debt must not count, got %s", b.Net)
		}

		history, err := app.entries.EntryHistory(ctx, debt.ID, bob.ID)
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if len(history) != len(steps)+1 {
			t.Fatalf("expected %d audit records, got %d", len(steps)+1, len(history))
		}
		if history[0].Action != domain.AuditActionEntryCreate {
			t.Fatalf("history must start with creation, got %s", history[0].Action)
		}
	})

	t.Run("terminal entries refuse further actions", func(t *testing.T) {
		alice, bob, ledger := app.flat(t)

		debt, err := app.entries.CreateEntry(ctx, usecase.CreateEntryInput{
			LedgerID:       ledger.ID,
			Type:           domain.EntryTypeDebt,
			CreatorID:      alice.ID,
			CounterpartyID: bob.ID,
			Amount:         decimal.NewFromInt(5),
			Description:    "coffee",
		})
		if err != nil {
			t.Fatalf("create debt: %v", err)
		}

		if _, err := app.entries.TransitionEntry(ctx, debt.ID, domain.ActionReject, bob.ID); err != nil {
			t.Fatalf("reject: %v", err)
		}

		_, err = app.entries.TransitionEntry(ctx, debt.ID, domain.ActionApprove, bob.ID)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
	})
}

func TestEntryValidation(t *testing.T) {
	app := newApp(t, nil)
	ctx := context.Background()

	alice, bob, ledger := app.flat(t)
	outsider := app.db.CreateTestParticipant(ctx, "Mallory")

	tests := []struct {
		name  string
		input usecase.CreateEntryInput
		want  error
	}{
		{
			name: "counterparty outside ledger",
			input: usecase.CreateEntryInput{
				LedgerID: ledger.ID, Type: domain.EntryTypeDebt, CreatorID: alice.ID,
				CounterpartyID: outsider.ID, Amount: decimal.NewFromInt(1), Description: "x",
			},
			want: domain.ErrInvalidArgument,
		},
		{
			name: "self entry",
			input: usecase.CreateEntryInput{
				LedgerID: ledger.ID, Type: domain.EntryTypeDebt, CreatorID: alice.ID,
				CounterpartyID: alice.ID, Amount: decimal.NewFromInt(1), Description: "x",
			},
			want: domain.ErrSameParticipant,
		},
		{
			name: "zero amount",
			input: usecase.CreateEntryInput{
				LedgerID: ledger.ID, Type: domain.EntryTypePayment, CreatorID: bob.ID,
				CounterpartyID: alice.ID, Amount: decimal.Zero, Description: "x",
			},
			want: domain.ErrInvalidAmount,
		},
		{
			name: "unknown ledger",
			input: usecase.CreateEntryInput{
				LedgerID: "missing", Type: domain.EntryTypeDebt, CreatorID: alice.ID,
				CounterpartyID: bob.ID, Amount: decimal.NewFromInt(1), Description: "x",
			},
			want: domain.ErrLedgerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := app.entries.CreateEntry(ctx, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("outsider cannot read entries", func(t *testing.T) {
		_, err := app.entries.ListLedgerEntries(ctx, ledger.ID, outsider.ID, 10, 0)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})
}
