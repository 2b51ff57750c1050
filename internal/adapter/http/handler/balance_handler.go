package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	ComputeBalance(ctx context.Context, ledgerID, participantID, callerID string) (domain.Balance, error)
	LedgerBalances(ctx context.Context, ledgerID, callerID string) ([]domain.Balance, error)
}

// BalanceHandler serves balances derived from approved entries.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get returns one participant's balance, the caller's unless
// ?participant_id= names another member.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	participantID := r.URL.Query().Get("participant_id")
	if participantID == "" {
		participantID = caller
	}

	balance, err := h.balanceUC.ComputeBalance(r.Context(), chi.URLParam(r, "id"), participantID, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// List returns every member's balance.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	ledgerID := chi.URLParam(r, "id")
	balances, err := h.balanceUC.LedgerBalances(r.Context(), ledgerID, callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := dto.LedgerBalancesResponse{
		LedgerID: ledgerID,
		Balances: make([]*dto.BalanceResponse, len(balances)),
	}
	for i, b := range balances {
		resp.Balances[i] = dto.BalanceFromDomain(b)
	}

	writeJSON(w, http.StatusOK, resp)
}
