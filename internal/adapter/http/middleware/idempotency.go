package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the idempotency store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	idempotencyPlaceholder = "processing"
)

// storedResponse is what the store keeps for a completed request.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays the first successful response for a repeated
// Idempotency-Key. Keys are scoped to the calling participant and the route.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		callerID, _ := domain.CallerFromContext(ctx)
		scopedKey := idempotencyScope(callerID, r, key)

		exists, cached, err := m.store.CheckAndSet(ctx, scopedKey, nil, m.ttl)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("idempotency check failed")
			writeError(w, http.StatusServiceUnavailable, domain.KindUnavailable, "idempotency check failed")
			return
		}

		if exists {
			if cached == nil || string(cached) == idempotencyPlaceholder {
				writeError(w, http.StatusConflict, domain.KindConflict, "request with this idempotency key is in progress")
				return
			}

			var stored storedResponse
			if err := json.Unmarshal(cached, &stored); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("corrupt idempotency record")
				writeError(w, http.StatusInternalServerError, domain.KindInternal, "corrupt idempotency record")
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(IdempotencyReplayHeader, "true")
			w.WriteHeader(stored.Status)
			_, _ = w.Write(stored.Body)
			return
		}

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			if err := m.store.Release(ctx, scopedKey); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to release idempotency key")
			}
			return
		}

		payload, err := json.Marshal(storedResponse{
			Status: recorder.statusCode,
			Body:   json.RawMessage(recorder.body.Bytes()),
		})
		if err == nil {
			err = m.store.Update(ctx, scopedKey, payload, m.ttl)
		}
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to store idempotent response")
		}
	})
}

// idempotencyScope binds key to the caller, method and path, so a key reused
// on another route never replays that route's response.
func idempotencyScope(callerID string, r *http.Request, key string) string {
	return callerID + ":" + r.Method + ":" + r.URL.Path + ":" + key
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
