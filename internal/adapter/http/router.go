package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/adapter/http/handler"
	"github.com/iho/debtledger/internal/adapter/http/middleware"
	"github.com/iho/debtledger/internal/infrastructure/auth"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
	"github.com/iho/debtledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ParticipantHandler *handler.ParticipantHandler
	LedgerHandler      *handler.LedgerHandler
	EntryHandler       *handler.EntryHandler
	BalanceHandler     *handler.BalanceHandler
	HealthHandler      *handler.HealthHandler

	Logger     zerolog.Logger
	JWTManager *auth.JWTManager // nil selects the X-Participant-ID header

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler // defaults to promhttp.Handler()
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	var idempotency func(http.Handler) http.Handler
	if cfg.IdempotencyStore != nil {
		idempotency = middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if idempotency != nil {
			r.With(idempotency).Post("/participants", cfg.ParticipantHandler.Register)
		} else {
			r.Post("/participants", cfg.ParticipantHandler.Register)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.CallerAuth(cfg.JWTManager))
			if idempotency != nil {
				r.Use(idempotency)
			}

			r.Get("/participants/{id}", cfg.ParticipantHandler.Get)

			// Ledgers
			r.Route("/ledgers", func(r chi.Router) {
				r.Post("/", cfg.LedgerHandler.Create)
				r.Get("/", cfg.LedgerHandler.List)
				r.Get("/{id}", cfg.LedgerHandler.Get)
				r.Get("/{id}/entries", cfg.EntryHandler.ListByLedger)
				r.Get("/{id}/balance", cfg.BalanceHandler.Get)
				r.Get("/{id}/balances", cfg.BalanceHandler.List)
			})

			// Entries
			r.Route("/entries", func(r chi.Router) {
				r.Post("/", cfg.EntryHandler.Create)
				r.Get("/pending", cfg.EntryHandler.ListPending)
				r.Get("/close-requests", cfg.EntryHandler.ListCloseRequests)
				r.Get("/{id}", cfg.EntryHandler.Get)
				r.Patch("/{id}", cfg.EntryHandler.Transition)
				r.Get("/{id}/history", cfg.EntryHandler.History)
			})
		})
	})

	return r
}
