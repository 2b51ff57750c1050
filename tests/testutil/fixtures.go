package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/postgres"
	"github.com/iho/debtledger/internal/infrastructure/postgres/generated"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL and migrates it. The test is skipped
// when DATABASE_URL is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := postgres.RunMigrations(dbURL, migrationsSource(t), zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
}

// migrationsSource finds the migrations directory from the repository root
// or any package directory below it.
func migrationsSource(t *testing.T) string {
	t.Helper()

	for _, candidate := range []string{"migrations", "../migrations", "../../migrations", "../../../migrations"} {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				t.Fatalf("resolve migrations path: %v", err)
			}
			return "file://" + abs
		}
	}

	t.Fatal("migrations directory not found")
	return ""
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE audit_logs, entries, ledger_members, ledgers, participants CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestParticipant inserts a participant directly.
func (db *TestDB) CreateTestParticipant(ctx context.Context, displayName string) *domain.Participant {
	db.t.Helper()

	now := time.Now().UTC()
	id := GenerateID()

	err := db.Queries.CreateParticipant(ctx, generated.CreateParticipantParams{
		ID:          id,
		DisplayName: displayName,
		CreatedAt:   pgtype.Timestamptz{Time: now, Valid: true},
	})
	if err != nil {
		db.t.Fatalf("failed to create test participant: %v", err)
	}

	return &domain.Participant{ID: id, DisplayName: displayName, CreatedAt: now}
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
