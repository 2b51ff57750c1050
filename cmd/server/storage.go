package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/adapter/http/handler"
	"github.com/iho/debtledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/debtledger/internal/adapter/repository/postgres"
	sqliteRepo "github.com/iho/debtledger/internal/adapter/repository/sqlite"
	"github.com/iho/debtledger/internal/infrastructure/config"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
	"github.com/iho/debtledger/internal/infrastructure/postgres"
	"github.com/iho/debtledger/internal/usecase"
)

// storage bundles the repositories of one storage driver.
type storage struct {
	txManager    usecase.TransactionManager
	participants usecase.ParticipantRepository
	ledgers      usecase.LedgerRepository
	entries      usecase.EntryRepository
	audit        usecase.AuditRepository
	retrier      usecase.Retrier
	checker      handler.Checker
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		return openPostgres(ctx, cfg, m, logger)
	case config.StorageDriverSQLite:
		return openSQLite(ctx, cfg, m)
	case config.StorageDriverMemory:
		return openMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) (*storage, error) {
	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
		PingTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &storage{
		txManager:    postgresRepo.NewTxManager(pool),
		participants: postgresRepo.NewParticipantRepository(pool),
		ledgers:      postgresRepo.NewLedgerRepository(pool),
		entries:      postgresRepo.NewEntryRepository(pool),
		audit:        postgresRepo.NewAuditRepository(pool),
		retrier:      postgresRepo.NewRetrier(m),
		checker:      handler.NewPingChecker("postgres", pool.Ping),
		close:        pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*storage, error) {
	db, err := sqliteRepo.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	return &storage{
		txManager:    sqliteRepo.NewTxManager(db),
		participants: sqliteRepo.NewParticipantRepository(db),
		ledgers:      sqliteRepo.NewLedgerRepository(db),
		entries:      sqliteRepo.NewEntryRepository(db),
		audit:        sqliteRepo.NewAuditRepository(db),
		retrier:      sqliteRepo.NewRetrier(m),
		checker:      handler.NewPingChecker("sqlite", db.PingContext),
		close:        func() { _ = db.Close() },
	}, nil
}

func openMemory() *storage {
	store := memory.NewStore()

	return &storage{
		txManager:    memory.NewTxManager(store),
		participants: memory.NewParticipantRepository(store),
		ledgers:      memory.NewLedgerRepository(store),
		entries:      memory.NewEntryRepository(store),
		audit:        memory.NewAuditRepository(store),
		checker:      handler.NewPingChecker("memory", store.Ping),
		close:        func() {},
	}
}
