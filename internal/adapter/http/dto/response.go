package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

// ParticipantResponse represents a participant in API responses.
type ParticipantResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// ParticipantFromDomain converts a domain participant to a response.
func ParticipantFromDomain(p *domain.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		CreatedAt:   p.CreatedAt,
	}
}

// LedgerResponse represents a ledger in API responses.
type LedgerResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ParticipantIDs []string  `json:"participant_ids"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// LedgerFromDomain converts a domain ledger to a response.
func LedgerFromDomain(l *domain.Ledger) *LedgerResponse {
	return &LedgerResponse{
		ID:             l.ID,
		Name:           l.Name,
		ParticipantIDs: l.ParticipantIDs,
		CreatedBy:      l.CreatedBy,
		CreatedAt:      l.CreatedAt,
	}
}

// ListLedgersResponse is a page of ledgers.
type ListLedgersResponse struct {
	Ledgers []*LedgerResponse `json:"ledgers"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// LedgersFromDomain converts domain ledgers to responses.
func LedgersFromDomain(ledgers []*domain.Ledger) []*LedgerResponse {
	result := make([]*LedgerResponse, len(ledgers))
	for i, l := range ledgers {
		result[i] = LedgerFromDomain(l)
	}
	return result
}

// EntryResponse represents an entry as seen by one caller. AllowedActions
// lists what that caller may do next.
type EntryResponse struct {
	ID               string          `json:"id"`
	LedgerID         string          `json:"ledger_id"`
	Type             string          `json:"type"`
	CreditorID       string          `json:"creditor_id"`
	DebtorID         string          `json:"debtor_id"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	CloseRequestedBy *string         `json:"close_requested_by,omitempty"`
	CloseRequestedAt *time.Time      `json:"close_requested_at,omitempty"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
	AllowedActions   []string        `json:"allowed_actions"`
}

// EntryFromDomain converts a domain entry to the response shown to callerID.
func EntryFromDomain(e *domain.Entry, callerID string) *EntryResponse {
	actions := e.AllowedActions(callerID)
	allowed := make([]string, len(actions))
	for i, a := range actions {
		allowed[i] = string(a)
	}

	return &EntryResponse{
		ID:               e.ID,
		LedgerID:         e.LedgerID,
		Type:             string(e.Type),
		CreditorID:       e.CreditorID,
		DebtorID:         e.DebtorID,
		Amount:           e.Amount,
		Description:      e.Description,
		Status:           string(e.Status),
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
		ApprovedAt:       e.ApprovedAt,
		CloseRequestedBy: e.CloseRequestedBy,
		CloseRequestedAt: e.CloseRequestedAt,
		ClosedAt:         e.ClosedAt,
		AllowedActions:   allowed,
	}
}

// EntriesFromDomain converts domain entries to responses for callerID.
func EntriesFromDomain(entries []*domain.Entry, callerID string) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e, callerID)
	}
	return result
}

// ListEntriesResponse is a page of entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// BalanceResponse represents a participant's position in a ledger.
type BalanceResponse struct {
	LedgerID      string          `json:"ledger_id"`
	ParticipantID string          `json:"participant_id"`
	Owed          decimal.Decimal `json:"owed"`
	Owes          decimal.Decimal `json:"owes"`
	Net           decimal.Decimal `json:"net"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b domain.Balance) *BalanceResponse {
	return &BalanceResponse{
		LedgerID:      b.LedgerID,
		ParticipantID: b.ParticipantID,
		Owed:          b.Owed,
		Owes:          b.Owes,
		Net:           b.Net,
	}
}

// LedgerBalancesResponse lists every member's balance in membership order.
type LedgerBalancesResponse struct {
	LedgerID string             `json:"ledger_id"`
	Balances []*BalanceResponse `json:"balances"`
}

// AuditLogResponse represents one step of an entry's history.
type AuditLogResponse struct {
	ID          string         `json:"id"`
	ActorID     string         `json:"actor_id"`
	Action      string         `json:"action"`
	RequestID   string         `json:"request_id,omitempty"`
	BeforeState map[string]any `json:"before_state,omitempty"`
	AfterState  map[string]any `json:"after_state,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:          l.ID,
			ActorID:     l.ActorID,
			Action:      l.Action,
			RequestID:   l.RequestID,
			BeforeState: l.BeforeState,
			AfterState:  l.AfterState,
			CreatedAt:   l.CreatedAt,
		}
	}
	return result
}

// EntryHistoryResponse is the audit trail of an entry, oldest first.
type EntryHistoryResponse struct {
	EntryID string              `json:"entry_id"`
	History []*AuditLogResponse `json:"history"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RegisterParticipantResponse carries the new participant and, when
// authentication is enabled, a bearer token for it.
type RegisterParticipantResponse struct {
	Participant *ParticipantResponse `json:"participant"`
	Token       string               `json:"token,omitempty"`
}
