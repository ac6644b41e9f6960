package timetracking

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

func insertTestProject(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	ctx := context.Background()
	var id int64
	err := pool.QueryRow(ctx,
		`insert into projects (name) values ($1) returning id;`, name).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `delete from time_entries where project_id = $1;`, id)
		_, _ = pool.Exec(ctx, `delete from projects where id = $1;`, id)
	})
	return id
}

func TestRepo_SingleActiveTimer(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewRepo(pool)

	projectID := insertTestProject(t, pool, "timer-race-project")

	// Make sure no earlier run left an open entry holding the slot.
	_, err := pool.Exec(ctx, `delete from time_entries where end_time is null;`)
	require.NoError(t, err)

	first, err := repo.Start(ctx, StartParams{ProjectID: &projectID})
	require.NoError(t, err)
	assert.Nil(t, first.EndTime)

	t.Run("second start loses to the unique index", func(t *testing.T) {
		_, err := repo.Start(ctx, StartParams{ProjectID: &projectID})
		assert.ErrorIs(t, err, ErrTimerRunning)

		var open int
		require.NoError(t, pool.QueryRow(ctx,
			`select count(*) from time_entries where end_time is null;`).Scan(&open))
		assert.Equal(t, 1, open)
	})

	t.Run("stop frees the slot for the next start", func(t *testing.T) {
		stopped, err := repo.Stop(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, stopped.EndTime)
		require.NotNil(t, stopped.Duration)
		assert.GreaterOrEqual(t, *stopped.Duration, 0)

		next, err := repo.Start(ctx, StartParams{ProjectID: &projectID})
		require.NoError(t, err)

		_, err = repo.Stop(ctx, next.ID)
		require.NoError(t, err)
	})

	t.Run("stopping again is rejected", func(t *testing.T) {
		_, err := repo.Stop(ctx, first.ID)
		assert.ErrorIs(t, err, ErrAlreadyStopped)
	})
}
