package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func entryFixture(id string, typ EntryType, creditor, debtor string, amount int64, status EntryStatus) *Entry {
	return &Entry{
		ID:         id,
		LedgerID:   testLedger.ID,
		Type:       typ,
		CreditorID: creditor,
		DebtorID:   debtor,
		Amount:     decimal.NewFromInt(amount),
		Status:     status,
	}
}

func TestComputeBalance_OnlyApprovedCounts(t *testing.T) {
	t.Parallel()

	statuses := []EntryStatus{
		EntryStatusPending,
		EntryStatusRejected,
		EntryStatusCloseRequested,
		EntryStatusClosed,
	}

	for _, status := range statuses {
		entries := []*Entry{entryFixture("e1", EntryTypeDebt, alice, bob, 100, status)}
		b := ComputeBalance(testLedger.ID, bob, entries)
		if !b.Net.IsZero() {
			t.Errorf("%s debt must not count, got %s", status, b.Net)
		}
	}
}

func TestComputeBalance_SingleDebtNegation(t *testing.T) {
	t.Parallel()

	entries := []*Entry{entryFixture("e1", EntryTypeDebt, alice, bob, 100, EntryStatusApproved)}

	creditor := ComputeBalance(testLedger.ID, alice, entries)
	debtor := ComputeBalance(testLedger.ID, bob, entries)

	if !creditor.Net.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("creditor net: expected 100, got %s", creditor.Net)
	}
	if !debtor.Net.Equal(creditor.Net.Neg()) {
		t.Fatalf("debtor net must negate creditor net, got %s", debtor.Net)
	}
	if !ComputeBalance(testLedger.ID, carol, entries).Net.IsZero() {
		t.Fatal("bystander must be unaffected")
	}
}

func TestComputeBalance_Settlement(t *testing.T) {
	t.Parallel()

	entries := []*Entry{
		entryFixture("d1", EntryTypeDebt, alice, bob, 100, EntryStatusApproved),
		entryFixture("p1", EntryTypePayment, alice, bob, 40, EntryStatusApproved),
	}

	b := ComputeBalance(testLedger.ID, bob, entries)
	if !b.Owes.Equal(decimal.NewFromInt(60)) || !b.Net.Equal(decimal.NewFromInt(-60)) {
		t.Fatalf("expected bob to owe 60, got owes=%s net=%s", b.Owes, b.Net)
	}

	a := ComputeBalance(testLedger.ID, alice, entries)
	if !a.Owed.Equal(decimal.NewFromInt(60)) || !a.Net.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected alice to be owed 60, got owed=%s net=%s", a.Owed, a.Net)
	}
}

func TestComputeBalance_IgnoresOtherLedgers(t *testing.T) {
	t.Parallel()

	foreign := entryFixture("x", EntryTypeDebt, alice, bob, 100, EntryStatusApproved)
	foreign.LedgerID = "ledger-2"

	if b := ComputeBalance(testLedger.ID, alice, []*Entry{foreign}); !b.Net.IsZero() {
		t.Fatalf("expected zero, got %s", b.Net)
	}
}

func TestComputeLedgerBalances_SumToZero(t *testing.T) {
	t.Parallel()

	entries := []*Entry{
		entryFixture("d1", EntryTypeDebt, alice, bob, 100, EntryStatusApproved),
		entryFixture("d2", EntryTypeDebt, carol, alice, 35, EntryStatusApproved),
		entryFixture("d3", EntryTypeDebt, bob, carol, 12, EntryStatusPending),
		entryFixture("p1", EntryTypePayment, alice, bob, 25, EntryStatusApproved),
	}

	balances := ComputeLedgerBalances(testLedger, entries)
	if len(balances) != len(testLedger.ParticipantIDs) {
		t.Fatalf("expected %d balances, got %d", len(testLedger.ParticipantIDs), len(balances))
	}

	sum := decimal.Zero
	for i, b := range balances {
		if b.ParticipantID != testLedger.ParticipantIDs[i] {
			t.Fatalf("balances out of membership order: %v", balances)
		}
		sum = sum.Add(b.Net)
	}
	if !sum.IsZero() {
		t.Fatalf("balances must sum to zero, got %s", sum)
	}

	// alice: +100 -25 -35 = 40
	if !balances[0].Net.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("alice: expected 40, got %s", balances[0].Net)
	}
}
