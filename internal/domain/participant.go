package domain

import "time"

// Participant is a known identity that can be a member of ledgers.
type Participant struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
}
