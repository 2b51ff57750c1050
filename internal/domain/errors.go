package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflict")
	ErrUnavailable       = errors.New("storage unavailable")
)

var (
	// Participant errors
	ErrParticipantNotFound = fmt.Errorf("participant %w", ErrNotFound)
	ErrInvalidDisplayName  = fmt.Errorf("%w: invalid display name", ErrInvalidArgument)

	// Ledger errors
	ErrLedgerNotFound        = fmt.Errorf("ledger %w", ErrNotFound)
	ErrInvalidLedgerName     = fmt.Errorf("%w: invalid ledger name", ErrInvalidArgument)
	ErrNotEnoughParticipants = fmt.Errorf("%w: a ledger needs at least 2 distinct participants", ErrInvalidArgument)
	ErrUnknownParticipant    = fmt.Errorf("%w: unknown participant", ErrInvalidArgument)
	ErrNotLedgerMember       = fmt.Errorf("%w: participant is not a member of the ledger", ErrInvalidArgument)
	ErrLedgerAccessForbidden = fmt.Errorf("%w: caller is not a member of the ledger", ErrForbidden)

	// Entry errors
	ErrEntryNotFound          = fmt.Errorf("entry %w", ErrNotFound)
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	ErrAmountTooLarge         = fmt.Errorf("%w: amount exceeds maximum allowed", ErrInvalidArgument)
	ErrInvalidDescription     = fmt.Errorf("%w: invalid description", ErrInvalidArgument)
	ErrSameParticipant        = fmt.Errorf("%w: creditor and debtor must differ", ErrInvalidArgument)
	ErrInvalidEntryType       = fmt.Errorf("%w: unknown entry type", ErrInvalidArgument)
	ErrInvalidAction          = fmt.Errorf("%w: unknown action", ErrInvalidArgument)
	ErrActorNotAllowed        = fmt.Errorf("%w: caller may not perform this action", ErrForbidden)
	ErrEntryAccessForbidden   = fmt.Errorf("%w: caller is not a party to the entry", ErrForbidden)
	ErrTransitionNotAllowed   = fmt.Errorf("%w: action not allowed from current status", ErrInvalidTransition)
	ErrCloseProtocolDebtsOnly = fmt.Errorf("%w: only debts can be closed", ErrInvalidTransition)
	ErrEntryConflict          = fmt.Errorf("%w: entry was modified concurrently", ErrConflict)

	// Storage errors
	ErrCommitUncertain = fmt.Errorf("%w: commit outcome unknown", ErrUnavailable)

	// Transport errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Kind names an error category for clients.
type Kind string

const (
	KindInvalidArgument   Kind = "invalid_argument"
	KindNotFound          Kind = "not_found"
	KindForbidden         Kind = "forbidden"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
	KindUnavailable       Kind = "unavailable"
	KindUnauthorized      Kind = "unauthorized"
	KindInternal          Kind = "internal"
)

// KindOf classifies err. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		return KindUnauthorized
	default:
		return KindInternal
	}
}

// Retryable reports whether a caller may retry err with backoff.
// Only storage unavailability qualifies; business rule violations never do.
// A failed commit may have landed, so ErrCommitUncertain is not retryable.
func Retryable(err error) bool {
	return errors.Is(err, ErrUnavailable) && !errors.Is(err, ErrCommitUncertain)
}
