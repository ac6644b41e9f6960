package invoices

import (
	"context"
	"os"
	"testing"

	"github.com/atelierhq/agency-backend/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to a disposable Postgres database and runs the
// migrations. Skips the test if TEST_DB_DSN is not set.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func TestRepo_UpdateKeepsOmittedStatus(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewRepo(pool)

	inv, err := repo.Create(ctx, InvoiceParams{Amount: 1500, Status: StatusPaid})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `delete from invoices where id = $1;`, inv.ID)
	})

	t.Run("empty status keeps the stored value", func(t *testing.T) {
		updated, err := repo.Update(ctx, inv.ID, InvoiceParams{Amount: 1800})
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, updated.Status)
		assert.InDelta(t, 1800, updated.Amount, 0.001)
	})

	t.Run("explicit status still changes it", func(t *testing.T) {
		updated, err := repo.Update(ctx, inv.ID, InvoiceParams{
			Amount: 1800,
			Status: StatusPending,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, updated.Status)
	})
}
