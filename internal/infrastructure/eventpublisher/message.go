package eventpublisher

import (
	"time"

	"github.com/iho/debtledger/internal/domain"
)

// Message is the JSON document delivered to a single recipient.
type Message struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	Recipient      string         `json:"recipient"`
	Ledger         *LedgerPayload `json:"ledger,omitempty"`
	Entry          *EntryPayload  `json:"entry,omitempty"`
	PreviousStatus string         `json:"previous_status,omitempty"`
	NewStatus      string         `json:"new_status,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
}

// LedgerPayload describes the ledger of a ledger.created event.
type LedgerPayload struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	ParticipantIDs []string `json:"participant_ids"`
	CreatedBy      string   `json:"created_by"`
}

// EntryPayload describes the entry of an entry event.
type EntryPayload struct {
	ID               string  `json:"id"`
	LedgerID         string  `json:"ledger_id"`
	Type             string  `json:"type"`
	CreditorID       string  `json:"creditor_id"`
	DebtorID         string  `json:"debtor_id"`
	Amount           string  `json:"amount"`
	Description      string  `json:"description"`
	Status           string  `json:"status"`
	CloseRequestedBy *string `json:"close_requested_by,omitempty"`
}

// NewMessage builds the message event sends to recipient.
func NewMessage(event *domain.Event, recipient string) Message {
	msg := Message{
		ID:             event.ID,
		Type:           event.Type,
		Recipient:      recipient,
		PreviousStatus: string(event.PreviousStatus),
		NewStatus:      string(event.NewStatus),
		OccurredAt:     event.OccurredAt,
	}

	if l := event.Ledger; l != nil {
		msg.Ledger = &LedgerPayload{
			ID:             l.ID,
			Name:           l.Name,
			ParticipantIDs: l.ParticipantIDs,
			CreatedBy:      l.CreatedBy,
		}
	}

	if e := event.Entry; e != nil {
		msg.Entry = &EntryPayload{
			ID:               e.ID,
			LedgerID:         e.LedgerID,
			Type:             string(e.Type),
			CreditorID:       e.CreditorID,
			DebtorID:         e.DebtorID,
			Amount:           e.Amount.String(),
			Description:      e.Description,
			Status:           string(e.Status),
			CloseRequestedBy: e.CloseRequestedBy,
		}
	}

	return msg
}
