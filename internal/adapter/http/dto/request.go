package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// RegisterParticipantRequest represents a request to register a participant.
type RegisterParticipantRequest struct {
	DisplayName string `json:"display_name"`
}

// CreateLedgerRequest represents a request to create a ledger. The caller
// is always added as a member.
type CreateLedgerRequest struct {
	Name           string   `json:"name"`
	ParticipantIDs []string `json:"participant_ids"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLedgerRequest) ToUseCaseInput(callerID string) usecase.CreateLedgerInput {
	return usecase.CreateLedgerInput{
		Name:           r.Name,
		ParticipantIDs: r.ParticipantIDs,
		CreatedBy:      callerID,
	}
}

// CreateEntryRequest represents a request to record a debt or payment.
type CreateEntryRequest struct {
	LedgerID       string          `json:"ledger_id"`
	Type           string          `json:"type"`
	CounterpartyID string          `json:"counterparty_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput(callerID string) (usecase.CreateEntryInput, error) {
	typ, err := domain.ParseEntryType(r.Type)
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}

	return usecase.CreateEntryInput{
		LedgerID:       r.LedgerID,
		Type:           typ,
		CreatorID:      callerID,
		CounterpartyID: r.CounterpartyID,
		Amount:         r.Amount,
		Description:    r.Description,
	}, nil
}

// TransitionEntryRequest represents a request to act on an entry.
type TransitionEntryRequest struct {
	Action string `json:"action"`
}
