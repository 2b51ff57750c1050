package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/debtledger/internal/adapter/http"
	"github.com/iho/debtledger/internal/adapter/http/handler"
	"github.com/iho/debtledger/internal/adapter/http/middleware"
	redisRepo "github.com/iho/debtledger/internal/adapter/repository/redis"
	"github.com/iho/debtledger/internal/infrastructure/auth"
	"github.com/iho/debtledger/internal/infrastructure/config"
	"github.com/iho/debtledger/internal/infrastructure/eventpublisher"
	"github.com/iho/debtledger/internal/infrastructure/idgen"
	"github.com/iho/debtledger/internal/infrastructure/logger"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
	"github.com/iho/debtledger/internal/infrastructure/redis"
	"github.com/iho/debtledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	ctx = logger.WithContext(ctx, appLogger)
	m := metrics.New()

	store, err := openStorage(ctx, cfg, m, appLogger)
	if err != nil {
		return err
	}
	defer store.close()
	appLogger.Info().Str("driver", cfg.StorageDriver).Msg("storage ready")

	checkers := []handler.Checker{store.checker}
	ledgerRepo := store.ledgers
	var (
		publisher        usecase.EventPublisher = eventpublisher.NewLogPublisher()
		idempotencyStore usecase.IdempotencyStore
	)

	// Connect to Redis
	if cfg.RedisEnabled {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		appLogger.Info().Msg("connected to redis")

		checkers = append(checkers, redis.NewChecker(redisClient))
		publisher = eventpublisher.NewMultiPublisher(
			eventpublisher.NewRedisPublisher(redisClient, cfg.EventChannelPrefix),
			publisher,
		)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		ledgerRepo = withLedgerCache(ledgerRepo, redisClient, cfg.LedgerCacheTTL)
	}

	idGen := idgen.NewULIDGenerator()

	// Initialize use cases
	participantUC := usecase.NewParticipantUseCase(store.participants, idGen, m)
	ledgerUC := usecase.NewLedgerUseCase(store.txManager, ledgerRepo, store.participants, store.audit, publisher, idGen, m)
	entryUC := usecase.NewEntryUseCase(store.txManager, ledgerRepo, store.entries, store.audit, publisher, store.retrier, idGen, m)
	balanceUC := usecase.NewBalanceUseCase(ledgerRepo, store.entries, m)

	var (
		jwtManager *auth.JWTManager
		tokens     handler.TokenIssuer
	)
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		tokens = jwtManager
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go rateLimiter.RunCleanup(ctx, time.Minute, 3*time.Minute)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ParticipantHandler: handler.NewParticipantHandler(participantUC, tokens),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		EntryHandler:       handler.NewEntryHandler(entryUC),
		BalanceHandler:     handler.NewBalanceHandler(balanceUC),
		HealthHandler:      handler.NewHealthHandler(checkers...),
		Logger:             appLogger,
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		Metrics:            m,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Bool("auth", cfg.AuthEnabled).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info().Msg("server stopped")
	return nil
}

func withLedgerCache(next usecase.LedgerRepository, client *goredis.Client, ttl time.Duration) usecase.LedgerRepository {
	if ttl <= 0 {
		return next
	}
	return redisRepo.NewLedgerCache(next, client, ttl)
}
