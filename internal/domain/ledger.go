package domain

import (
	"slices"
	"time"
)

// Ledger is a named scope holding a fixed set of participants.
// Membership is frozen at creation.
type Ledger struct {
	ID             string
	Name           string
	ParticipantIDs []string
	CreatedBy      string
	CreatedAt      time.Time
}

// HasMember reports whether participantID belongs to the ledger.
func (l *Ledger) HasMember(participantID string) bool {
	return slices.Contains(l.ParticipantIDs, participantID)
}

// NormalizeParticipantIDs drops empty and duplicate IDs, keeping first-seen order.
func NormalizeParticipantIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

// Validate checks the structural invariants of a new ledger.
func (l *Ledger) Validate() error {
	if err := ValidateLedgerName(l.Name); err != nil {
		return err
	}
	if len(NormalizeParticipantIDs(l.ParticipantIDs)) < MinLedgerParticipants {
		return ErrNotEnoughParticipants
	}
	return nil
}
