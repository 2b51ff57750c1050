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

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error)
	TransitionEntry(ctx context.Context, entryID string, action domain.Action, actorID string) (*domain.Entry, error)
	GetEntry(ctx context.Context, id, callerID string) (*domain.Entry, error)
	ListLedgerEntries(ctx context.Context, ledgerID, callerID string, limit, offset int) ([]*domain.Entry, error)
	ListPendingForCaller(ctx context.Context, callerID string, limit, offset int) ([]*domain.Entry, error)
	ListCloseRequestsForCaller(ctx context.Context, callerID string, limit, offset int) ([]*domain.Entry, error)
	EntryHistory(ctx context.Context, id, callerID string) ([]*domain.AuditLog, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// Create records a pending debt or payment.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	caller := callerID(r)
	input, err := req.ToUseCaseInput(caller)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry, err := h.entryUC.CreateEntry(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry, caller))
}

// Transition applies an action to an entry on behalf of the caller.
func (h *EntryHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req dto.TransitionEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	action, err := domain.ParseAction(req.Action)
	if err != nil {
		writeError(w, r, err)
		return
	}

	caller := callerID(r)
	entry, err := h.entryUC.TransitionEntry(r.Context(), chi.URLParam(r, "id"), action, caller)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry, caller))
}

// Get retrieves an entry the caller is a party to.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	entry, err := h.entryUC.GetEntry(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry, caller))
}

// History returns the audit trail of an entry.
func (h *EntryHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	logs, err := h.entryUC.EntryHistory(r.Context(), id, callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryHistoryResponse{
		EntryID: id,
		History: dto.AuditLogsFromDomain(logs),
	})
}

// ListByLedger lists a ledger's entries, newest first.
func (h *EntryHandler) ListByLedger(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(ctx context.Context, caller string, limit, offset int) ([]*domain.Entry, error) {
		return h.entryUC.ListLedgerEntries(ctx, chi.URLParam(r, "id"), caller, limit, offset)
	})
}

// ListPending lists entries awaiting the caller's approval.
func (h *EntryHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.entryUC.ListPendingForCaller)
}

// ListCloseRequests lists close requests awaiting the caller's answer.
func (h *EntryHandler) ListCloseRequests(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.entryUC.ListCloseRequestsForCaller)
}

type listEntriesFunc func(ctx context.Context, callerID string, limit, offset int) ([]*domain.Entry, error)

func (h *EntryHandler) list(w http.ResponseWriter, r *http.Request, fetch listEntriesFunc) {
	limit, offset := pagination(r)
	limit, offset = domain.ValidatePagination(limit, offset)

	caller := callerID(r)
	entries, err := fetch(r.Context(), caller, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries, caller),
		Limit:   limit,
		Offset:  offset,
	})
}
