package domain

import "github.com/shopspring/decimal"

// Balance is a participant's net position in a ledger.
// Positive means the participant is owed money; negative means they owe.
type Balance struct {
	LedgerID      string
	ParticipantID string
	Owed          decimal.Decimal
	Owes          decimal.Decimal
	Net           decimal.Decimal
}

// ComputeBalance folds the approved entries of a ledger into participantID's balance.
// Entries in any other status, including close_requested and closed, do not count.
func ComputeBalance(ledgerID, participantID string, entries []*Entry) Balance {
	owed, owes := decimal.Zero, decimal.Zero

	for _, e := range entries {
		if e.LedgerID != ledgerID || e.Status != EntryStatusApproved {
			continue
		}

		switch e.Type {
		case EntryTypeDebt:
			if participantID == e.DebtorID {
				owes = owes.Add(e.Amount)
			} else if participantID == e.CreditorID {
				owed = owed.Add(e.Amount)
			}
		case EntryTypePayment:
			if participantID == e.DebtorID {
				owes = owes.Sub(e.Amount)
			} else if participantID == e.CreditorID {
				owed = owed.Sub(e.Amount)
			}
		}
	}

	return Balance{
		LedgerID:      ledgerID,
		ParticipantID: participantID,
		Owed:          owed,
		Owes:          owes,
		Net:           owed.Sub(owes),
	}
}

// ComputeLedgerBalances returns the balance of every member of ledger, in membership order.
func ComputeLedgerBalances(ledger *Ledger, entries []*Entry) []Balance {
	balances := make([]Balance, 0, len(ledger.ParticipantIDs))
	for _, id := range ledger.ParticipantIDs {
		balances = append(balances, ComputeBalance(ledger.ID, id, entries))
	}
	return balances
}
