package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/payinstr/internal/domain"
	infrapg "github.com/iho/payinstr/internal/infrastructure/postgres"
)

// newTestPool connects to TEST_DATABASE_URL, applies migrations and empties the
// audit table. The test is skipped when the variable is not set.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	_, file, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
	require.NoError(t, infrapg.RunMigrations(dbURL, migrationsPath, zerolog.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapg.NewPoolWithConfig(ctx, infrapg.PoolConfig{DatabaseURL: dbURL, MaxConns: 2})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE instruction_audit")
	require.NoError(t, err)

	return pool
}

func TestAuditRepository_Integration(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	repo := NewAuditRepository(pool)
	idGen := NewULIDGenerator()
	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	instruction := "DEBIT 500 USD FROM ACCOUNT N90394 FOR CREDIT TO ACCOUNT N9122"
	executed := domain.Process(&instruction, []domain.Account{
		{ID: "N90394", Balance: 1000, Currency: "USD"},
		{ID: "N9122", Balance: 500, Currency: "USD"},
	}, "2026-10-18")
	rejected := domain.Process(nil, nil, "2026-10-18")

	first := domain.NewAuditRecord(idGen.Generate(), instruction, executed, base)
	first.RequestID = "req-1"
	second := domain.NewAuditRecord(idGen.Generate(), "", rejected, base.Add(time.Minute))
	second.RequestID = "req-2"

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	all, err := repo.List(ctx, domain.AuditFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Nil(t, all[0].Type)

	got := all[1]
	assert.Equal(t, domain.StatusSuccessful, got.Status)
	assert.Equal(t, domain.CodeExecuted, got.StatusCode)
	require.NotNil(t, got.Amount)
	assert.Equal(t, int64(500), *got.Amount)
	require.NotNil(t, got.Type)
	assert.Equal(t, "DEBIT", *got.Type)
	assert.True(t, got.CreatedAt.Equal(base))

	filtered, err := repo.List(ctx, domain.AuditFilter{StatusCode: domain.CodeMalformed, Limit: 10})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "req-2", filtered[0].RequestID)

	since := base.Add(30 * time.Second)
	recent, err := repo.List(ctx, domain.AuditFilter{Since: &since, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	limited, err := repo.List(ctx, domain.AuditFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
