package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypeLedgerCreated = "ledger.created"
	EventTypeEntryPending  = "entry.pending"
	EventTypeEntryUpdated  = "entry.updated"
)

// Event is a notification about a committed change, addressed to the
// participants it concerns.
type Event struct {
	ID             string
	Type           string
	Recipients     []string
	Ledger         *Ledger
	Entry          *Entry
	PreviousStatus EntryStatus
	NewStatus      EntryStatus
	OccurredAt     time.Time
}

// NewLedgerCreatedEvent addresses every member of ledger.
func NewLedgerCreatedEvent(ledger *Ledger) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       EventTypeLedgerCreated,
		Recipients: append([]string(nil), ledger.ParticipantIDs...),
		Ledger:     ledger,
		OccurredAt: ledger.CreatedAt,
	}
}

// NewEntryPendingEvent addresses both parties of a newly created entry.
func NewEntryPendingEvent(entry *Entry) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Type:       EventTypeEntryPending,
		Recipients: []string{entry.CreditorID, entry.DebtorID},
		Entry:      entry,
		NewStatus:  entry.Status,
		OccurredAt: entry.CreatedAt,
	}
}

// NewEntryUpdatedEvent addresses both parties of a transitioned entry.
func NewEntryUpdatedEvent(entry *Entry, previous EntryStatus) *Event {
	return &Event{
		ID:             uuid.NewString(),
		Type:           EventTypeEntryUpdated,
		Recipients:     []string{entry.CreditorID, entry.DebtorID},
		Entry:          entry,
		PreviousStatus: previous,
		NewStatus:      entry.Status,
		OccurredAt:     entry.UpdatedAt,
	}
}
