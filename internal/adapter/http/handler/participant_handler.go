package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
)

// ParticipantService defines the behavior needed by ParticipantHandler.
type ParticipantService interface {
	RegisterParticipant(ctx context.Context, displayName string) (*domain.Participant, error)
	GetParticipant(ctx context.Context, id string) (*domain.Participant, error)
}

// TokenIssuer issues bearer tokens for newly registered participants.
type TokenIssuer interface {
	Generate(participantID string) (string, error)
}

// ParticipantHandler handles participant-related HTTP requests.
type ParticipantHandler struct {
	participantUC ParticipantService
	tokens        TokenIssuer
}

// NewParticipantHandler creates a new ParticipantHandler. tokens may be nil
// when authentication is disabled.
func NewParticipantHandler(participantUC ParticipantService, tokens TokenIssuer) *ParticipantHandler {
	return &ParticipantHandler{participantUC: participantUC, tokens: tokens}
}

// Register registers a new participant.
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	participant, err := h.participantUC.RegisterParticipant(r.Context(), req.DisplayName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := dto.RegisterParticipantResponse{Participant: dto.ParticipantFromDomain(participant)}
	if h.tokens != nil {
		token, err := h.tokens.Generate(participant.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Token = token
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Get retrieves a participant by ID.
func (h *ParticipantHandler) Get(w http.ResponseWriter, r *http.Request) {
	participant, err := h.participantUC.GetParticipant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ParticipantFromDomain(participant))
}
