package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

func TestCreateEntryRequest_ToUseCaseInput(t *testing.T) {
	var req CreateEntryRequest
	if err := json.Unmarshal([]byte(`{"ledger_id":"l1","type":"Payment","counterparty_id":"alice","amount":"7.25","description":"cash"}`), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}

	input, err := req.ToUseCaseInput("bob")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if input.Type != domain.EntryTypePayment || input.CreatorID != "bob" || !input.Amount.Equal(decimal.RequireFromString("7.25")) {
		t.Fatalf("unexpected input: %+v", input)
	}

	req.Type = "loan"
	if _, err := req.ToUseCaseInput("bob"); !errors.Is(err, domain.ErrInvalidEntryType) {
		t.Fatalf("expected ErrInvalidEntryType, got %v", err)
	}
}

func TestEntryFromDomain_AllowedActionsPerCaller(t *testing.T) {
	e := &domain.Entry{
		ID:         "e1",
		Type:       domain.EntryTypeDebt,
		CreditorID: "alice",
		DebtorID:   "bob",
		Amount:     decimal.NewFromInt(10),
		Status:     domain.EntryStatusApproved,
	}

	for _, caller := range []string{"alice", "bob"} {
		resp := EntryFromDomain(e, caller)
		if len(resp.AllowedActions) != 1 || resp.AllowedActions[0] != string(domain.ActionRequestClose) {
			t.Fatalf("%s: expected request_close only, got %v", caller, resp.AllowedActions)
		}
	}

	if resp := EntryFromDomain(e, "carol"); len(resp.AllowedActions) != 0 {
		t.Fatalf("bystander should have no actions, got %v", resp.AllowedActions)
	}

	raw, err := json.Marshal(EntryFromDomain(e, "carol"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	if _, ok := decoded["allowed_actions"].([]any); !ok {
		t.Fatalf("allowed_actions must encode as an array, got %s", raw)
	}
	if _, ok := decoded["closed_at"]; ok {
		t.Fatalf("unset timestamps must be omitted, got %s", raw)
	}
}
