package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	CreateLedger(ctx context.Context, input usecase.CreateLedgerInput) (*domain.Ledger, error)
	GetLedgerForMember(ctx context.Context, id, callerID string) (*domain.Ledger, error)
	ListLedgersFor(ctx context.Context, participantID string, limit, offset int) ([]*domain.Ledger, error)
}

// LedgerHandler handles ledger-related HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Create creates a ledger with the caller as a member.
func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLedgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	ledger, err := h.ledgerUC.CreateLedger(r.Context(), req.ToUseCaseInput(callerID(r)))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LedgerFromDomain(ledger))
}

// Get retrieves a ledger the caller belongs to.
func (h *LedgerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.ledgerUC.GetLedgerForMember(r.Context(), chi.URLParam(r, "id"), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromDomain(ledger))
}

// List lists the caller's ledgers.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	limit, offset = domain.ValidatePagination(limit, offset)

	ledgers, err := h.ledgerUC.ListLedgersFor(r.Context(), callerID(r), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLedgersResponse{
		Ledgers: dto.LedgersFromDomain(ledgers),
		Limit:   limit,
		Offset:  offset,
	})
}
