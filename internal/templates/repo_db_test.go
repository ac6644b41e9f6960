package templates

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

func insertClient(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	ctx := context.Background()
	var id int64
	err := pool.QueryRow(ctx,
		`insert into clients (name) values ($1) returning id;`, name).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `delete from clients where id = $1;`, id)
	})
	return id
}

func countProjectsNamed(t *testing.T, pool *pgxpool.Pool, name string) int {
	var n int
	require.NoError(t, pool.QueryRow(context.Background(),
		`select count(*) from projects where name = $1;`, name).Scan(&n))
	return n
}

func TestRepo_CreateProjectWithTasks(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewRepo(pool)

	clientID := insertClient(t, pool, "expansion-client")

	t.Run("project and tasks land together", func(t *testing.T) {
		projectID, err := repo.CreateProjectWithTasks(ctx, NewProjectParams{
			ClientID: &clientID,
			Name:     "expansion-ok",
		}, []ExpandedTask{
			{Title: "Discovery", Priority: "high"},
			{Title: "Concepts", Priority: "medium"},
		})
		require.NoError(t, err)
		t.Cleanup(func() {
			_, _ = pool.Exec(ctx, `delete from tasks where project_id = $1;`, projectID)
			_, _ = pool.Exec(ctx, `delete from projects where id = $1;`, projectID)
		})

		var status string
		require.NoError(t, pool.QueryRow(ctx,
			`select status from projects where id = $1;`, projectID).Scan(&status))
		assert.Equal(t, "brief", status)

		var taskCount int
		require.NoError(t, pool.QueryRow(ctx,
			`select count(*) from tasks where project_id = $1 and status = 'pending';`,
			projectID).Scan(&taskCount))
		assert.Equal(t, 2, taskCount)
	})

	t.Run("task insert failure rolls the project back", func(t *testing.T) {
		// Postgres rejects NUL bytes in text, so the second task insert
		// fails after the project row is already written inside the tx.
		_, err := repo.CreateProjectWithTasks(ctx, NewProjectParams{
			ClientID: &clientID,
			Name:     "expansion-doomed",
		}, []ExpandedTask{
			{Title: "Fine task", Priority: "medium"},
			{Title: "Broken\x00task", Priority: "medium"},
		})
		require.Error(t, err)

		assert.Zero(t, countProjectsNamed(t, pool, "expansion-doomed"))

		var orphanTasks int
		require.NoError(t, pool.QueryRow(ctx,
			`select count(*) from tasks where title = 'Fine task';`).Scan(&orphanTasks))
		assert.Zero(t, orphanTasks)
	})
}
