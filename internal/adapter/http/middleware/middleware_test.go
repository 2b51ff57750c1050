package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/auth"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
)

func callerEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, _ := domain.CallerFromContext(r.Context())
		_, _ = w.Write([]byte(caller))
	})
}

func TestCallerAuth_Header(t *testing.T) {
	handler := CallerAuth(nil)(callerEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ParticipantIDHeader, " alice ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "alice" {
		t.Fatalf("expected alice, got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCallerAuth_JWT(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour)
	handler := CallerAuth(manager)(callerEcho())

	token, err := manager.Generate("bob")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			if tt.code == http.StatusUnauthorized {
				var body map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] != "unauthorized" {
					t.Fatalf("expected JSON unauthorized body, got %s", rec.Body.String())
				}
			}
		})
	}
}

func TestRecovery_ReturnsJSON500(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON body, got %s", ct)
	}
}

func TestLoggingMiddleware_AttachesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var requestID string
	handler := NewLoggingMiddleware(logger).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = domain.RequestIDFromContext(r.Context())
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	req.Header.Set("X-Request-Id", "req-42")
	chain := chimiddleware.RequestID(handler)
	chain.ServeHTTP(httptest.NewRecorder(), req)

	if requestID != "req-42" {
		t.Fatalf("expected request id in context, got %q", requestID)
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}

	var completed map[string]any
	if err := json.Unmarshal(lines[1], &completed); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if completed["request_id"] != "req-42" || completed["status"] != float64(http.StatusTeapot) {
		t.Fatalf("unexpected log line: %v", completed)
	}
}

func TestRateLimiter_PerIPAndCleanup(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	rl := NewRateLimiter(1, 1, m)

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	serve := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := serve("10.0.0.1:1000"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := serve("10.0.0.1:2000"); code != http.StatusTooManyRequests {
		t.Fatalf("expected same IP to be throttled, got %d", code)
	}
	if code := serve("10.0.0.2:1000"); code != http.StatusOK {
		t.Fatalf("expected other IP to pass, got %d", code)
	}
	if got := testutil.ToFloat64(m.RateLimitHits); got != 1 {
		t.Fatalf("expected 1 rate limit hit, got %v", got)
	}

	rl.Cleanup(time.Minute, time.Now().Add(time.Hour))
	rl.mu.Lock()
	remaining := len(rl.visitors)
	rl.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected idle visitors to be dropped, %d remain", remaining)
	}
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/entries/{id}", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/entries/e1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/entries/e2", nil))

	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/entries/{id}", "200"))
	if got != 2 {
		t.Fatalf("expected 2 requests under the route pattern, got %v", got)
	}
}
