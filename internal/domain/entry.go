package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType distinguishes debts from the payments that settle them.
type EntryType string

const (
	// EntryTypeDebt is asserted by the creditor and confirmed by the debtor.
	EntryTypeDebt EntryType = "debt"
	// EntryTypePayment is asserted by the payer (debtor) and confirmed by the payee (creditor).
	EntryTypePayment EntryType = "payment"
)

// ParseEntryType parses s into an EntryType.
func ParseEntryType(s string) (EntryType, error) {
	switch t := EntryType(strings.ToLower(strings.TrimSpace(s))); t {
	case EntryTypeDebt, EntryTypePayment:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryType, s)
	}
}

// EntryStatus is the lifecycle state of an entry.
type EntryStatus string

const (
	EntryStatusPending        EntryStatus = "pending"
	EntryStatusApproved       EntryStatus = "approved"
	EntryStatusRejected       EntryStatus = "rejected"
	EntryStatusCloseRequested EntryStatus = "close_requested"
	EntryStatusClosed         EntryStatus = "closed"
)

// IsTerminal reports whether no transition can leave the status.
func (s EntryStatus) IsTerminal() bool {
	return s == EntryStatusRejected || s == EntryStatusClosed
}

// Action is a transition request on an entry.
type Action string

const (
	ActionApprove      Action = "approve"
	ActionReject       Action = "reject"
	ActionRequestClose Action = "request_close"
	ActionApproveClose Action = "approve_close"
	ActionRejectClose  Action = "reject_close"
)

// Actions lists every action in table order.
var Actions = []Action{
	ActionApprove,
	ActionReject,
	ActionRequestClose,
	ActionApproveClose,
	ActionRejectClose,
}

// ParseAction parses s into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
	return a, nil
}

// Entry is a single Debt or Payment between two members of a ledger.
type Entry struct {
	ID               string
	LedgerID         string
	Type             EntryType
	CreditorID       string
	DebtorID         string
	Amount           decimal.Decimal
	Description      string
	Status           EntryStatus
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ApprovedAt       *time.Time
	CloseRequestedBy *string
	CloseRequestedAt *time.Time
	ClosedAt         *time.Time
}

// NewEntryParams holds the creator's assertion for a new entry.
type NewEntryParams struct {
	ID             string
	Type           EntryType
	CreatorID      string
	CounterpartyID string
	Amount         decimal.Decimal
	Description    string
	CreatedAt      time.Time
}

// NewEntry builds a pending entry in ledger. For a debt the creator is the
// creditor; for a payment the creator is the debtor.
func NewEntry(ledger *Ledger, p NewEntryParams) (*Entry, error) {
	if err := ValidateAmount(p.Amount); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(p.Description)
	if err := ValidateDescription(description); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:          p.ID,
		LedgerID:    ledger.ID,
		Type:        p.Type,
		Amount:      p.Amount,
		Description: description,
		Status:      EntryStatusPending,
		CreatedBy:   p.CreatorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.CreatedAt,
	}

	switch p.Type {
	case EntryTypeDebt:
		entry.CreditorID, entry.DebtorID = p.CreatorID, p.CounterpartyID
	case EntryTypePayment:
		entry.CreditorID, entry.DebtorID = p.CounterpartyID, p.CreatorID
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntryType, p.Type)
	}

	if entry.CreditorID == entry.DebtorID {
		return nil, ErrSameParticipant
	}

	for _, id := range []string{entry.CreditorID, entry.DebtorID} {
		if !ledger.HasMember(id) {
			return nil, fmt.Errorf("%w: %s", ErrNotLedgerMember, id)
		}
	}

	return entry, nil
}

// Approver returns the participant who must confirm the entry while pending.
func (e *Entry) Approver() string {
	if e.Type == EntryTypePayment {
		return e.CreditorID
	}
	return e.DebtorID
}

// IsParty reports whether participantID is the creditor or the debtor.
func (e *Entry) IsParty(participantID string) bool {
	return participantID == e.CreditorID || participantID == e.DebtorID
}

type transition struct {
	from     EntryStatus
	to       EntryStatus
	debtOnly bool
	allowed  func(e *Entry, actorID string) bool
}

var transitions = map[Action]transition{
	ActionApprove:      {from: EntryStatusPending, to: EntryStatusApproved, allowed: isApprover},
	ActionReject:       {from: EntryStatusPending, to: EntryStatusRejected, allowed: isApprover},
	ActionRequestClose: {from: EntryStatusApproved, to: EntryStatusCloseRequested, debtOnly: true, allowed: isParty},
	ActionApproveClose: {from: EntryStatusCloseRequested, to: EntryStatusClosed, debtOnly: true, allowed: isCloseCounterparty},
	ActionRejectClose:  {from: EntryStatusCloseRequested, to: EntryStatusApproved, debtOnly: true, allowed: isCloseCounterparty},
}

func isApprover(e *Entry, actorID string) bool {
	return actorID == e.Approver()
}

func isParty(e *Entry, actorID string) bool {
	return e.IsParty(actorID)
}

// The requester of a close can never answer their own request.
func isCloseCounterparty(e *Entry, actorID string) bool {
	return e.IsParty(actorID) && e.CloseRequestedBy != nil && *e.CloseRequestedBy != actorID
}

// check returns the transition for action by actorID, or the reason it is refused.
// Legality of the action in the current state is checked before the actor.
func (e *Entry) check(action Action, actorID string) (transition, error) {
	t, ok := transitions[action]
	if !ok {
		return transition{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	if t.debtOnly && e.Type != EntryTypeDebt {
		return transition{}, ErrCloseProtocolDebtsOnly
	}

	if e.Status != t.from {
		return transition{}, fmt.Errorf("%w: cannot %s an entry that is %s", ErrTransitionNotAllowed, action, e.Status)
	}

	if !t.allowed(e, actorID) {
		return transition{}, ErrActorNotAllowed
	}

	return t, nil
}

// Apply returns the entry that results from actorID performing action at the
// given time. The receiver is left unchanged.
func (e *Entry) Apply(action Action, actorID string, at time.Time) (*Entry, error) {
	t, err := e.check(action, actorID)
	if err != nil {
		return nil, err
	}

	next := *e
	next.Status = t.to
	next.UpdatedAt = at

	switch action {
	case ActionApprove:
		approvedAt := at
		next.ApprovedAt = &approvedAt
	case ActionRequestClose:
		requestedBy, requestedAt := actorID, at
		next.CloseRequestedBy = &requestedBy
		next.CloseRequestedAt = &requestedAt
	case ActionApproveClose:
		closedAt := at
		next.ClosedAt = &closedAt
	case ActionRejectClose:
		next.CloseRequestedBy = nil
		next.CloseRequestedAt = nil
	}

	return &next, nil
}

// AllowedActions lists the actions actorID may currently perform.
func (e *Entry) AllowedActions(actorID string) []Action {
	var allowed []Action
	for _, a := range Actions {
		if _, err := e.check(a, actorID); err == nil {
			allowed = append(allowed, a)
		}
	}
	return allowed
}

// AwaitsCloseAnswerFrom reports whether participantID must answer an open close request.
func (e *Entry) AwaitsCloseAnswerFrom(participantID string) bool {
	return e.Status == EntryStatusCloseRequested && isCloseCounterparty(e, participantID)
}
