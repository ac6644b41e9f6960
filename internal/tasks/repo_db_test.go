package tasks

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

func TestRepo_UpdateKeepsOmittedFields(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewRepo(pool)

	task, err := repo.Create(ctx, TaskParams{
		Title:    "finished deliverable",
		Priority: PriorityHigh,
		Status:   StatusCompleted,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `delete from tasks where id = $1;`, task.ID)
	})

	t.Run("empty priority and status keep the stored values", func(t *testing.T) {
		updated, err := repo.Update(ctx, task.ID, TaskParams{Title: "finished deliverable"})
		require.NoError(t, err)
		assert.Equal(t, PriorityHigh, updated.Priority)
		assert.Equal(t, StatusCompleted, updated.Status)
	})

	t.Run("explicit values still change them", func(t *testing.T) {
		updated, err := repo.Update(ctx, task.ID, TaskParams{
			Title:    "reopened deliverable",
			Priority: PriorityLow,
			Status:   StatusInProgress,
		})
		require.NoError(t, err)
		assert.Equal(t, PriorityLow, updated.Priority)
		assert.Equal(t, StatusInProgress, updated.Status)
	})
}
