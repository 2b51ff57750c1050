package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MinLedgerParticipants = 2
	MaxLedgerNameLength   = 255
	MaxDisplayNameLength  = 100
	MaxDescriptionLength  = 500
	MaxEntryAmount        = "1000000000000" // 1 trillion
	MaxAmountScale        = 4               // matches NUMERIC(20, 4)

	DefaultPageSize = 20
	MaxPageSize     = 100
)

var maxEntryAmount = decimal.RequireFromString(MaxEntryAmount)

// ValidateLedgerName validates a ledger name
func ValidateLedgerName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidLedgerName)
	}

	if utf8.RuneCountInString(name) > MaxLedgerNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidLedgerName, MaxLedgerNameLength)
	}

	return nil
}

// ValidateDisplayName validates a participant display name
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: display name cannot be empty", ErrInvalidDisplayName)
	}

	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		return fmt.Errorf("%w: display name exceeds %d characters", ErrInvalidDisplayName, MaxDisplayNameLength)
	}

	return nil
}

// ValidateAmount validates an entry amount
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MaxAmountScale)
	}

	if amount.GreaterThan(maxEntryAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxEntryAmount)
	}

	return nil
}

// ValidateDescription validates an entry description
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidDescription)
	}

	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}

	return nil
}

// ValidatePagination clamps pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
