package domain

import "time"

// AuditLog represents an audit trail record of a committed change
type AuditLog struct {
	ID           string
	ActorID      string // Who performed the action
	Action       string // What action (ledger.create, entry.approve, etc.)
	ResourceType string // ledger or entry
	ResourceID   string
	RequestID    string // Request ID for tracing
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// Resource types
const (
	ResourceTypeLedger = "ledger"
	ResourceTypeEntry  = "entry"
)

const (
	AuditActionLedgerCreate = "ledger.create"
	AuditActionEntryCreate  = "entry.create"
)

// EntryAuditAction returns the audit action recorded for a transition.
func EntryAuditAction(a Action) string {
	return "entry." + string(a)
}

// EntryState is the audited snapshot of an entry.
func EntryState(e *Entry) JSON {
	if e == nil {
		return nil
	}

	state := JSON{
		"status":      string(e.Status),
		"type":        string(e.Type),
		"creditor_id": e.CreditorID,
		"debtor_id":   e.DebtorID,
		"amount":      e.Amount.String(),
	}
	if e.CloseRequestedBy != nil {
		state["close_requested_by"] = *e.CloseRequestedBy
	}
	return state
}

// LedgerState is the audited snapshot of a ledger.
func LedgerState(l *Ledger) JSON {
	if l == nil {
		return nil
	}

	ids := make([]any, len(l.ParticipantIDs))
	for i, id := range l.ParticipantIDs {
		ids[i] = id
	}

	return JSON{
		"name":            l.Name,
		"participant_ids": ids,
		"created_by":      l.CreatedBy,
	}
}
