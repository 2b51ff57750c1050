package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response whose status follows the error kind.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	if kind == domain.KindInternal {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		message = "internal error"
	}

	writeJSON(w, status, dto.ErrorResponse{
		Error:   string(kind),
		Message: message,
	})
}

// writeBadRequest reports a malformed request that never reached a use case.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Error:   string(domain.KindInvalidArgument),
		Message: message,
	})
}

// statusForKind maps error kinds to HTTP status codes.
func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// pagination reads limit and offset, leaving clamping to the use cases.
func pagination(r *http.Request) (int, int) {
	return parseIntQuery(r, "limit", domain.DefaultPageSize), parseIntQuery(r, "offset", 0)
}

// callerID returns the authenticated participant. The auth middleware
// guarantees one on every protected route.
func callerID(r *http.Request) string {
	id, _ := domain.CallerFromContext(r.Context())
	return id
}
