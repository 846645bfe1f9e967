//go:build integration

package workflows_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/migrations"
	"github.com/JaimeStill/flowdeck/pkg/database"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
)

func setupRepository(t *testing.T) workflows.System {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("flowdeck_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := database.Config{
		Host:     host,
		Port:     port.Int(),
		Name:     "flowdeck_test",
		User:     "test",
		Password: "test",
		SSLMode:  "disable",
	}

	version, err := database.Up(&cfg, migrations.FS)
	require.NoError(t, err, "migrate")
	assert.Equal(t, uint(1), version)

	db, err := sql.Open("pgx", cfg.Dsn())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return workflows.New(db, logger, pagination.Config{DefaultPageSize: 10, MaxPageSize: 100})
}

func TestRepository(t *testing.T) {
	sys := setupRepository(t)
	ctx := context.Background()

	t.Run("create list update delete", func(t *testing.T) {
		w, err := sys.Create(ctx, alice, workflows.CreateCommand{Name: " demo "})
		require.NoError(t, err)
		assert.Equal(t, "demo", w.Name)
		assert.Equal(t, workflows.StatusInactive, w.Status)
		assert.JSONEq(t, `[]`, string(w.Nodes))

		page, err := sys.List(ctx, alice, pagination.PageRequest{Page: 1, PageSize: 10}, workflows.Filters{})
		require.NoError(t, err)
		require.Equal(t, 1, page.TotalCount)
		assert.Equal(t, 1, page.TotalPages)
		assert.Equal(t, w.ID, page.Items[0].ID)

		updated, err := sys.Update(ctx, alice, w.ID, workflows.UpdateCommand{Status: ptr(workflows.StatusActive)})
		require.NoError(t, err)
		assert.Equal(t, workflows.StatusActive, updated.Status)
		assert.Equal(t, "demo", updated.Name)
		assert.False(t, updated.UpdatedAt.Before(w.UpdatedAt))

		found, err := sys.Find(ctx, alice, w.ID)
		require.NoError(t, err)
		assert.Equal(t, workflows.StatusActive, found.Status)

		removed, err := sys.Delete(ctx, alice, w.ID)
		require.NoError(t, err)
		assert.Equal(t, workflows.StatusActive, removed.Status)

		_, err = sys.Delete(ctx, alice, w.ID)
		assert.True(t, errors.Is(err, workflows.ErrNotFound))

		page, err = sys.List(ctx, alice, pagination.PageRequest{Page: 1, PageSize: 10}, workflows.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 0, page.TotalCount)
		assert.Equal(t, 0, page.TotalPages)
		assert.Empty(t, page.Items)
	})

	t.Run("owner scoping", func(t *testing.T) {
		w, err := sys.Create(ctx, alice, workflows.CreateCommand{Name: "private"})
		require.NoError(t, err)

		_, err = sys.Find(ctx, bob, w.ID)
		assert.ErrorIs(t, err, workflows.ErrNotFound)
		_, err = sys.Update(ctx, bob, w.ID, workflows.UpdateCommand{Name: ptr("stolen")})
		assert.ErrorIs(t, err, workflows.ErrNotFound)
		_, err = sys.SaveGraph(ctx, bob, w.ID, workflows.GraphCommand{})
		assert.ErrorIs(t, err, workflows.ErrNotFound)
		_, err = sys.Duplicate(ctx, bob, w.ID, workflows.DuplicateCommand{Name: "copy"})
		assert.ErrorIs(t, err, workflows.ErrNotFound)
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		for _, name := range []string{"100% done", "1000 items", "snake_case", "snakeXcase"} {
			_, err := sys.Create(ctx, bob, workflows.CreateCommand{Name: name})
			require.NoError(t, err)
		}

		search := func(q string) int {
			page, err := sys.List(ctx, bob, pagination.PageRequest{Search: &q}, workflows.Filters{})
			require.NoError(t, err)
			return page.TotalCount
		}

		assert.Equal(t, 1, search("0%"))
		assert.Equal(t, 1, search("_case"))
		assert.Equal(t, 2, search("SNAKE"))
	})

	t.Run("paging and order", func(t *testing.T) {
		owner := alice
		owner.Subject = "pager"
		for i := range 101 {
			_, err := sys.Create(ctx, owner, workflows.CreateCommand{Name: fmt.Sprintf("wf-%03d", i)})
			require.NoError(t, err)
		}

		page, err := sys.List(ctx, owner, pagination.PageRequest{Page: 2, PageSize: 25}, workflows.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 101, page.TotalCount)
		assert.Equal(t, 5, page.TotalPages)
		assert.True(t, page.HasNextPage)
		assert.True(t, page.HasPreviousPage)
		require.Len(t, page.Items, 25)
		for i := 1; i < len(page.Items); i++ {
			assert.False(t, page.Items[i].CreatedAt.After(page.Items[i-1].CreatedAt), "items must be newest first")
		}
	})

	t.Run("graph and duplicate", func(t *testing.T) {
		w, err := sys.Create(ctx, alice, workflows.CreateCommand{Name: "canvas"})
		require.NoError(t, err)

		saved, err := sys.SaveGraph(ctx, alice, w.ID, workflows.GraphCommand{
			Nodes: []byte(`[{"id":"n1","position":{"x":10,"y":20}}]`),
			Edges: []byte(`[]`),
		})
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"n1","position":{"x":10,"y":20}}]`, string(saved.Nodes))

		dup, err := sys.Duplicate(ctx, alice, w.ID, workflows.DuplicateCommand{Name: "canvas copy"})
		require.NoError(t, err)
		assert.NotEqual(t, w.ID, dup.ID)
		assert.Equal(t, workflows.StatusInactive, dup.Status)
		assert.JSONEq(t, string(saved.Nodes), string(dup.Nodes))
	})
}
